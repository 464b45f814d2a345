package session

import (
	"context"
	"time"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/models"
	"github.com/rs/zerolog/log"
)

const defaultMaxAge = 24 * time.Hour

// Authenticator is the subset of the backend API the session store needs.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Logout(ctx context.Context, token string) (*models.Message, error)
	GetUserProfile(ctx context.Context, token string) (*models.User, error)
}

// Store is the single authority for who is logged in behind a session ID.
// Every mutation replaces the whole record.
type Store struct {
	auth    Authenticator
	repo    Repo
	maxAge  time.Duration    // Upper bound on a session's lifetime
	nowTime func() time.Time // nowTime function (injectable for testing)
}

// StoreOption defines a function type to modify the Store instance.
type StoreOption func(*Store)

// WithMaxAge bounds how long a session lives when the token carries no expiry.
func WithMaxAge(maxAge time.Duration) StoreOption {
	return func(s *Store) {
		s.maxAge = maxAge
	}
}

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) StoreOption {
	return func(s *Store) {
		s.nowTime = nowFunc
	}
}

// NewStore initializes a Store with required dependencies.
func NewStore(auth Authenticator, repo Repo, options ...StoreOption) (*Store, error) {
	if auth == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "[NewStore] authenticator is required")
	}
	if repo == nil {
		return nil, errors.Wrapf(errors.ErrInvalidConfig, "[NewStore] session repo is required")
	}

	s := &Store{
		auth:    auth,
		repo:    repo,
		maxAge:  defaultMaxAge,
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.maxAge <= 0 {
		s.maxAge = defaultMaxAge
	}
	return s, nil
}

// Login authenticates against the backend and persists the resulting
// session. On failure the existing record for sessionID is left untouched.
func (s *Store) Login(ctx context.Context, sessionID, username, password string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.Wrapf(errors.ErrInvalidSessionID, "[Store Login]")
	}

	resp, err := s.auth.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	if resp.BearerToken() == "" {
		return Session{}, errors.ErrMissingToken
	}
	return s.establish(ctx, sessionID, resp)
}

// Register creates an account. When the backend answers with a token the
// session is established as with Login; otherwise the returned session is
// unauthenticated and the caller should send the user to log in.
func (s *Store) Register(ctx context.Context, sessionID string, req models.RegisterRequest) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.Wrapf(errors.ErrInvalidSessionID, "[Store Register]")
	}

	resp, err := s.auth.Register(ctx, req)
	if err != nil {
		return Session{}, err
	}
	if resp.BearerToken() == "" {
		return Session{ID: sessionID}, nil
	}
	return s.establish(ctx, sessionID, resp)
}

func (s *Store) establish(ctx context.Context, sessionID string, resp *models.AuthResponse) (Session, error) {
	token := resp.BearerToken()

	user := resp.User
	if user == nil {
		profile, err := s.auth.GetUserProfile(ctx, token)
		if err != nil {
			return Session{}, err
		}
		user = profile
	}

	now := s.nowTime()
	expiresAt := now.Add(s.maxAge)
	if tokenExpiry, ok := TokenExpiry(token); ok && tokenExpiry.Before(expiresAt) {
		expiresAt = tokenExpiry
	}
	if !expiresAt.After(now) {
		return Session{}, errors.ErrTokenExpired
	}

	sess := Session{
		ID:        sessionID,
		Token:     token,
		User:      *user,
		CreatedAt: now,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.Upsert(ctx, sess); err != nil {
		return Session{}, errors.Wrapf(err, "[Store establish] persist session")
	}

	log.Info().Str("user", user.DisplayName()).Time("expires_at", expiresAt).Msg("session established")
	return sess, nil
}

// Logout tells the backend the token is finished with, then removes the
// session. The remote call is best-effort: its failure never keeps the
// local session alive.
func (s *Store) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}

	if sess, err := s.repo.Get(ctx, sessionID); err == nil && sess.Authenticated() {
		if _, err := s.auth.Logout(ctx, sess.Token); err != nil {
			log.Warn().Err(err).Msg("remote logout failed, clearing local session anyway")
		}
	}

	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return errors.Wrapf(err, "[Store Logout] delete session")
	}
	return nil
}

// Restore loads the session for sessionID. Missing or expired sessions
// return an unauthenticated Session alongside ErrSessionNotFound or
// ErrSessionExpired.
func (s *Store) Restore(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.ErrSessionNotFound
	}

	sess, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}

	if sess.Expired(s.nowTime()) {
		if err := s.repo.Delete(ctx, sessionID); err != nil {
			log.Err(err).Msg("failed to delete expired session")
		}
		return Session{}, errors.ErrSessionExpired
	}
	return sess, nil
}

// Forget drops the local record for sessionID without telling the backend.
// Used when a session ID is rotated on login.
func (s *Store) Forget(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return errors.Wrapf(err, "[Store Forget] delete session")
	}
	return nil
}

// MaxAge is the longest a session may live, used for the cookie lifetime.
func (s *Store) MaxAge() time.Duration {
	return s.maxAge
}

// UpdateUser replaces the user held in the session, keeping its token and expiry.
func (s *Store) UpdateUser(ctx context.Context, sessionID string, user models.User) error {
	sess, err := s.Restore(ctx, sessionID)
	if err != nil {
		return err
	}
	sess.User = user
	if err := s.repo.Upsert(ctx, sess); err != nil {
		return errors.Wrapf(err, "[Store UpdateUser] persist session")
	}
	return nil
}
