package server

import (
	"bytes"
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/apiclient"
	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"

	// msgSessionInvalid is shown for any 401 from the backend
	msgSessionInvalid = "Your session is invalid or has expired. Please log in again."
	msgUnexpected     = "Something went wrong. Please try again."
)

// PageData is what every page template receives.
type PageData struct {
	AppName    string
	Title      string
	Session    session.Session
	Flash      string // Success message from the previous redirect
	Error      string
	NeedsLogin bool // Render a link back to the login page with Error
	Data       any
}

// pageData consumes any flash cookies; the query string is never echoed.
func (s *Server) pageData(w http.ResponseWriter, r *http.Request, title string, data any) PageData {
	errMsg := takeFlash(w, r, flashErrorCookie)
	return PageData{
		AppName:    s.appName,
		Title:      title,
		Session:    session.FromContext(r.Context()),
		Flash:      takeFlash(w, r, flashMessageCookie),
		Error:      errMsg,
		NeedsLogin: errMsg == msgSessionInvalid,
		Data:       data,
	}
}

// render executes page into a buffer first so a template failure never
// leaves a half written response.
func (s *Server) render(w http.ResponseWriter, status int, page string, data PageData) {
	tmpl, ok := s.pages[page]
	if !ok {
		log.Error().Str("page", page).Msg("unknown page template")
		http.Error(w, msgUnexpected, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTemplate, data); err != nil {
		log.Err(err).Str("page", page).Msg("failed to render page")
		http.Error(w, msgUnexpected, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// renderPage renders a successful page load.
func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, page, title string, data any) {
	s.render(w, http.StatusOK, page, s.pageData(w, r, title, data))
}

// renderFailure renders page with the message for a failed backend call in
// place of its data.
func (s *Server) renderFailure(w http.ResponseWriter, r *http.Request, page, title string, err error) {
	status, msg, needsLogin := apiFailure(r.Context(), err)
	pd := s.pageData(w, r, title, nil)
	pd.Error = msg
	pd.NeedsLogin = needsLogin
	s.render(w, status, page, pd)
}

// apiFailure maps a backend error to the status and message a page shows.
// Unauthorized gets the uniform re-login message; the session is kept.
func apiFailure(ctx context.Context, err error) (status int, msg string, needsLogin bool) {
	if errors.Is(err, apiclient.ErrUnauthorized) {
		return http.StatusUnauthorized, msgSessionInvalid, true
	}

	apiErr, ok := apiclient.AsError(err)
	if !ok {
		log.Err(err).Msg("unexpected page failure")
		return http.StatusInternalServerError, msgUnexpected, false
	}

	if ctx.Err() != nil {
		log.Debug().Err(err).Msg("request cancelled during backend call")
	} else {
		log.Warn().Str("method", apiErr.Method).Str("path", apiErr.Path).Int("status", apiErr.Status).Msg(apiErr.Error())
	}

	switch {
	case apiErr.Status >= 400 && apiErr.Status < 500:
		return apiErr.Status, apiErr.Error(), false
	default:
		return http.StatusBadGateway, apiErr.Error(), false
	}
}

// failureMessage is the text for a failed form action that redirects back.
func failureMessage(ctx context.Context, err error) string {
	_, msg, _ := apiFailure(ctx, err)
	return msg
}
