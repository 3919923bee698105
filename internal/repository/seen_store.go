package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisSeenStore is the Redis-backed key-value store behind the seen-set
// tracker. It satisfies seen.Store.
type RedisSeenStore struct {
	rdb *redis.Client
}

// NewRedisSeenStore creates a RedisSeenStore.
func NewRedisSeenStore(rdb *redis.Client) *RedisSeenStore {
	return &RedisSeenStore{rdb: rdb}
}

// Get returns the stored value, or "" when the key is absent.
func (s *RedisSeenStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return val, err
}

// Set stores the value without expiry — history survives until reset.
func (s *RedisSeenStore) Set(ctx context.Context, key, value string) error {
	return s.rdb.Set(ctx, key, value, 0).Err()
}

// Clear removes the key.
func (s *RedisSeenStore) Clear(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
