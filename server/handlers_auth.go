package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/models"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

// AuthForm preserves what the user typed when a login or register attempt fails.
type AuthForm struct {
	Username string
	Email    string
	FullName string
}

func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()).Authenticated() {
			redirectSuccess(w, r, RouteDashboard)
			return
		}
		s.renderPage(w, r, "login.html", "Login", AuthForm{Username: r.URL.Query().Get("username")})
	}
}

// LoginSubmissionHandler authenticates against the backend and binds the
// resulting session to a fresh cookie ID.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderFormError(w, r, "login.html", "Login", http.StatusBadRequest, "Invalid form submission", AuthForm{})
			return
		}
		form := AuthForm{Username: strings.TrimSpace(r.PostFormValue("username"))}
		password := r.PostFormValue("password")
		if form.Username == "" || password == "" {
			s.renderFormError(w, r, "login.html", "Login", http.StatusBadRequest, "Username and password are required", form)
			return
		}

		sessionID := session.NewID()
		if _, err := s.sessions.Login(r.Context(), sessionID, form.Username, password); err != nil {
			status, msg := authFailure(err, "Login failed")
			s.renderFormError(w, r, "login.html", "Login", status, msg, form)
			return
		}

		s.rotateSession(w, r, sessionID)
		redirectSuccess(w, r, RouteDashboard)
	}
}

func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()).Authenticated() {
			redirectSuccess(w, r, RouteDashboard)
			return
		}
		s.renderPage(w, r, "register.html", "Register", AuthForm{})
	}
}

func (s *Server) RegisterSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			s.renderFormError(w, r, "register.html", "Register", http.StatusBadRequest, "Invalid form submission", AuthForm{})
			return
		}
		form := AuthForm{
			Username: strings.TrimSpace(r.PostFormValue("username")),
			Email:    strings.TrimSpace(r.PostFormValue("email")),
			FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		}
		password := r.PostFormValue("password")
		if form.Username == "" || form.Email == "" || password == "" {
			s.renderFormError(w, r, "register.html", "Register", http.StatusBadRequest, "Username, email and password are required", form)
			return
		}
		if password != r.PostFormValue("confirm_password") {
			s.renderFormError(w, r, "register.html", "Register", http.StatusBadRequest, "Passwords do not match", form)
			return
		}

		sessionID := session.NewID()
		sess, err := s.sessions.Register(r.Context(), sessionID, models.RegisterRequest{
			Username: form.Username,
			Email:    form.Email,
			Password: password,
			FullName: form.FullName,
		})
		if err != nil {
			status, msg := authFailure(err, "Registration failed")
			s.renderFormError(w, r, "register.html", "Register", status, msg, form)
			return
		}

		if !sess.Authenticated() {
			redirectWithMessage(w, r, withQuery(RouteLogin, "username", form.Username), "Registration successful. Please log in.")
			return
		}
		s.rotateSession(w, r, sessionID)
		redirectWithMessage(w, r, RouteDashboard, "Welcome, "+sess.User.DisplayName())
	}
}

// LogoutHandler always ends the local session, even if the backend call fails.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
			if err := s.sessions.Logout(r.Context(), cookie.Value); err != nil {
				log.Err(err).Msg("failed to clear session on logout")
			}
		}
		s.clearSessionCookie(w, r)
		redirectWithMessage(w, r, RouteLogin, "You have been logged out.")
	}
}

// rotateSession drops any session the browser held before and points the
// cookie at the newly established one.
func (s *Server) rotateSession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" && cookie.Value != sessionID {
		if err := s.sessions.Forget(r.Context(), cookie.Value); err != nil {
			log.Err(err).Msg("failed to drop previous session")
		}
	}
	s.setSessionCookie(w, r, sessionID)
}

// authFailure differs from apiFailure in that a 401 here means bad
// credentials, so the backend's own message is shown.
func authFailure(err error, fallback string) (int, string) {
	if apiErr, ok := apiclient.AsError(err); ok {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status, apiErr.Error()
		}
		return http.StatusBadGateway, apiErr.Error()
	}
	if errors.Is(err, errors.ErrTokenExpired) {
		return http.StatusUnauthorized, "The issued token has already expired"
	}
	log.Err(err).Msg(fallback)
	return http.StatusBadGateway, fallback
}
