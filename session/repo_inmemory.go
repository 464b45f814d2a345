package session

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-storefront/internal/errors"
)

var _ Repo = (*InMemoryRepo)(nil)

// InMemoryRepo is an in-memory implementation of Repo
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]Session // sessionID -> Session
	nowTime  func() time.Time
}

// InMemoryRepoOption defines a function type to modify the InMemoryRepo instance.
type InMemoryRepoOption func(*InMemoryRepo)

// WithRepoNowTime sets the now time function (primarily for testing)
func WithRepoNowTime(nowFunc func() time.Time) InMemoryRepoOption {
	return func(r *InMemoryRepo) {
		r.nowTime = nowFunc
	}
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo(options ...InMemoryRepoOption) *InMemoryRepo {
	r := &InMemoryRepo{
		sessions: make(map[string]Session),
		nowTime:  time.Now,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Upsert creates or replaces a session
func (r *InMemoryRepo) Upsert(_ context.Context, sess Session) error {
	if sess.ID == "" {
		return errors.Wrapf(errors.ErrInvalidSessionID, "[InMemoryRepo Upsert] sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[sess.ID] = sess
	return nil
}

// Get retrieves a session by ID. Expired sessions are removed and reported as such.
func (r *InMemoryRepo) Get(_ context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.Wrapf(errors.ErrInvalidSessionID, "[InMemoryRepo Get] sessionID is required")
	}

	r.mu.RLock()
	sess, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok {
		return Session{}, errors.ErrSessionNotFound
	}

	if sess.Expired(r.nowTime()) {
		r.mu.Lock()
		delete(r.sessions, sessionID)
		r.mu.Unlock()
		return Session{}, errors.ErrSessionExpired
	}

	return sess, nil
}

// Delete removes a session
func (r *InMemoryRepo) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.Wrapf(errors.ErrInvalidSessionID, "[InMemoryRepo Delete] sessionID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, sessionID) // Already gone is not an error
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (r *InMemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
