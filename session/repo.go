package session

import "context"

// Repo is the durable storage behind the session cookie. Upsert always
// replaces the whole record.
type Repo interface {
	Upsert(ctx context.Context, sess Session) error
	Get(ctx context.Context, sessionID string) (Session, error)
	Delete(ctx context.Context, sessionID string) error
}
