package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-storefront/models"
)

// Session is the browser's authentication state. A session is
// authenticated exactly when it carries a token.
type Session struct {
	ID        string      `json:"id"`
	Token     string      `json:"token,omitempty"` // Opaque bearer credential issued by the backend
	User      models.User `json:"user"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Expired reports whether the session outlived its expiry. A zero ExpiresAt never expires.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// NewID returns a fresh opaque session identifier for the session cookie.
func NewID() string {
	return uuid.NewString()
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying sess.
func NewContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, contextKey{}, sess)
}

// FromContext returns the session carried by ctx, or an unauthenticated zero Session.
func FromContext(ctx context.Context) Session {
	sess, _ := ctx.Value(contextKey{}).(Session)
	return sess
}
