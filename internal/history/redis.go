package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat_history:"

// RedisStore persists chat logs as redis lists, one list per session.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

// NewRedisStoreFromClient wraps an existing client. Used by tests.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (s *RedisStore) Append(ctx context.Context, sessionID string, turn Turn) error {
	payload, err := json.Marshal(turn)
	if err != nil {
		return &OpError{Op: "append", Err: err}
	}
	if err := s.client.RPush(ctx, key(sessionID), payload).Err(); err != nil {
		return &OpError{Op: "append", Err: err}
	}
	return nil
}

func (s *RedisStore) ReadAll(ctx context.Context, sessionID string) ([]Turn, error) {
	entries, err := s.client.LRange(ctx, key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, &OpError{Op: "read", Err: err}
	}

	turns := make([]Turn, 0, len(entries))
	for _, entry := range entries {
		var t Turn
		if err := json.Unmarshal([]byte(entry), &t); err != nil {
			// Lenient read: a corrupt entry disappears from the log
			// instead of poisoning the whole history.
			continue
		}
		turns = append(turns, t)
	}
	return turns, nil
}

func (s *RedisStore) SetExpiry(ctx context.Context, sessionID string, ttl time.Duration) error {
	if err := s.client.Expire(ctx, key(sessionID), ttl).Err(); err != nil {
		return &OpError{Op: "expire", Err: err}
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, key(sessionID)).Err(); err != nil {
		return &OpError{Op: "delete", Err: err}
	}
	return nil
}

func (s *RedisStore) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.client.Ping(ctx).Err() == nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
