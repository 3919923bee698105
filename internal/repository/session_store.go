package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/techquest/techquest-backend/internal/config"
	"github.com/techquest/techquest-backend/internal/session"
)

// ErrSessionNotFound is returned when a session id does not resolve or
// the session expired.
var ErrSessionNotFound = errors.New("session not found")

// RedisSessionStore persists in-flight sessions as JSON with a TTL, so an
// abandoned browser tab never leaks state.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisSessionStore creates a RedisSessionStore.
func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

// Save writes the session, refreshing its TTL.
func (s *RedisSessionStore) Save(ctx context.Context, sess *session.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.rdb.Set(ctx, config.CacheKey.SessionKey(sess.ID), raw, s.ttl).Err()
}

// Get loads a session by id.
func (s *RedisSessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	raw, err := s.rdb.Get(ctx, config.CacheKey.SessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var sess session.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete discards a session.
func (s *RedisSessionStore) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, config.CacheKey.SessionKey(id)).Err()
}
