package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

const defaultRedisPrefix = "storefront:session:"

// RedisRepo keeps sessions in Redis as JSON with a TTL matching the session expiry,
// so a restarted storefront still recognises its browsers.
type RedisRepo struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRepo(client redis.UniversalClient) *RedisRepo {
	return &RedisRepo{
		client: client,
		prefix: defaultRedisPrefix,
	}
}

func (r *RedisRepo) key(sessionID string) string {
	return r.prefix + sessionID
}

func (r *RedisRepo) Upsert(ctx context.Context, sess Session) error {
	if sess.ID == "" {
		return errors.Wrapf(errors.ErrInvalidSessionID, "[RedisRepo Upsert] sessionID is required")
	}

	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		ttl = time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			return r.client.Del(ctx, r.key(sess.ID)).Err()
		}
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("[RedisRepo Upsert] marshal: %w", err)
	}

	if err := r.client.Set(ctx, r.key(sess.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("[RedisRepo Upsert] set: %w", err)
	}
	return nil
}

func (r *RedisRepo) Get(ctx context.Context, sessionID string) (Session, error) {
	if sessionID == "" {
		return Session{}, errors.Wrapf(errors.ErrInvalidSessionID, "[RedisRepo Get] sessionID is required")
	}

	val, err := r.client.Get(ctx, r.key(sessionID)).Bytes()
	if err == redis.Nil {
		return Session{}, errors.ErrSessionNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("[RedisRepo Get] get: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(val, &sess); err != nil {
		return Session{}, fmt.Errorf("[RedisRepo Get] unmarshal: %w", err)
	}
	return sess, nil
}

func (r *RedisRepo) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return errors.Wrapf(errors.ErrInvalidSessionID, "[RedisRepo Delete] sessionID is required")
	}
	if err := r.client.Del(ctx, r.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("[RedisRepo Delete] del: %w", err)
	}
	return nil
}
