package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps one session as a Redis hash with a TTL.
type RedisStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewRedisStore builds a store for a single session ID under the given key
// prefix.
func NewRedisStore(client *redis.Client, prefix, sessionID string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "session"
	}
	return &RedisStore{
		client: client,
		key:    fmt.Sprintf("%s:%s", prefix, sessionID),
		ttl:    ttl,
	}
}

// Read returns the stored value, or the empty string when absent.
func (s *RedisStore) Read(ctx context.Context, key string) (string, error) {
	val, err := s.client.HGet(ctx, s.key, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", fmt.Errorf("session read %s: %w", key, err)
	}
	return val, nil
}

// Write stores a single value and refreshes the session TTL.
func (s *RedisStore) Write(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.key, key, value).Err(); err != nil {
		return fmt.Errorf("session write %s: %w", key, err)
	}
	if s.ttl > 0 {
		if err := s.client.Expire(ctx, s.key, s.ttl).Err(); err != nil {
			return fmt.Errorf("session expire: %w", err)
		}
	}
	return nil
}

// Clear removes the whole session hash.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}
