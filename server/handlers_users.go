package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

// UserForm backs the profile page and the admin user page.
type UserForm struct {
	User  models.User
	Admin bool // Editing someone else as an administrator
}

func (f UserForm) Action() string {
	if f.Admin {
		return pathWith(RouteAdminUser, f.User.ID.String())
	}
	return RouteProfile
}

func (s *Server) ProfilePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		user, err := s.api.GetUserProfile(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "profile.html", "Profile", err)
			return
		}
		s.renderPage(w, r, "profile.html", "Profile", UserForm{User: *user})
	}
}

// ProfileSubmissionHandler updates the profile and refreshes the copy of the
// user held in the session so the navbar reflects the change.
func (s *Server) ProfileSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		update, problem := parseUserForm(r, false)
		if problem != "" {
			redirectWithError(w, r, RouteProfile, problem)
			return
		}

		sess := session.FromContext(r.Context())
		user, err := s.api.UpdateUserProfile(r.Context(), sess.Token, update)
		if err != nil {
			redirectWithError(w, r, RouteProfile, failureMessage(r.Context(), err))
			return
		}
		if user.ID != "" || user.Username != "" {
			if err := s.sessions.UpdateUser(r.Context(), sess.ID, *user); err != nil {
				log.Err(err).Msg("failed to refresh session user")
			}
		}
		redirectWithMessage(w, r, RouteProfile, "Profile updated")
	}
}

func (s *Server) AdminUsersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		users, err := s.api.GetAllUsers(r.Context(), sess.Token)
		if err != nil {
			s.renderFailure(w, r, "admin_users.html", "Users", err)
			return
		}
		s.renderPage(w, r, "admin_users.html", "Users", users)
	}
}

func (s *Server) AdminUserPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := session.FromContext(r.Context())
		user, err := s.api.GetUserByID(r.Context(), sess.Token, r.PathValue("userId"))
		if err != nil {
			s.renderFailure(w, r, "profile.html", "User", err)
			return
		}
		s.renderPage(w, r, "profile.html", "User "+user.DisplayName(), UserForm{User: *user, Admin: true})
	}
}

func (s *Server) AdminUserSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userId")
		back := pathWith(RouteAdminUser, userID)

		update, problem := parseUserForm(r, true)
		if problem != "" {
			redirectWithError(w, r, back, problem)
			return
		}

		sess := session.FromContext(r.Context())
		if _, err := s.api.UpdateUserByID(r.Context(), sess.Token, userID, update); err != nil {
			redirectWithError(w, r, back, failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, back, "User updated")
	}
}

func (s *Server) AdminUserDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userId")
		sess := session.FromContext(r.Context())
		if _, err := s.api.DeleteUserByID(r.Context(), sess.Token, userID); err != nil {
			redirectWithError(w, r, pathWith(RouteAdminUser, userID), failureMessage(r.Context(), err))
			return
		}
		redirectWithMessage(w, r, RouteAdminUsers, "User deleted")
	}
}

// parseUserForm reads the editable fields. Blank fields are left out of the
// update; role is only honoured on the admin page.
func parseUserForm(r *http.Request, admin bool) (models.UserUpdate, string) {
	if err := r.ParseForm(); err != nil {
		return models.UserUpdate{}, "Invalid form submission"
	}
	update := models.UserUpdate{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Address:  strings.TrimSpace(r.PostFormValue("address")),
		Password: r.PostFormValue("password"),
	}
	if admin {
		update.Role = models.RoleType(strings.TrimSpace(r.PostFormValue("role")))
	}
	if update.Password != "" && update.Password != r.PostFormValue("confirm_password") {
		return update, "Passwords do not match"
	}
	if update.Email != "" && !strings.Contains(update.Email, "@") {
		return update, "Email address is not valid"
	}
	return update, ""
}
