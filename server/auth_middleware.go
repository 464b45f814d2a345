package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/session"
	"github.com/rs/zerolog/log"
)

// LoadSession restores the browser's session from its cookie and carries it
// in the request context. A missing, unknown or expired session leaves the
// request unauthenticated.
func (s *Server) LoadSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookieName)
		if err != nil || cookie.Value == "" {
			next(w, r)
			return
		}

		sess, err := s.sessions.Restore(r.Context(), cookie.Value)
		switch {
		case err == nil:
			r = r.WithContext(session.NewContext(r.Context(), sess))
		case errors.Is(err, errors.ErrSessionNotFound), errors.Is(err, errors.ErrSessionExpired):
			s.clearSessionCookie(w, r)
		default:
			log.Err(err).Msg("failed to restore session")
		}
		next(w, r)
	}
}

// RequireSession guards pages that need a logged-in user. The decision is
// made from the local session alone, the backend is never consulted.
func (s *Server) RequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated() {
			redirectSuccess(w, r, RouteLogin)
			return
		}
		next(w, r)
	}
}
