package progress

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the progress marker under a single redis key, shared
// with any other process polling the same mailbox.
type RedisStore struct {
	rdb *redis.Client
	key string
}

// NewRedisStore creates a new redis progress store
func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

// LastMessageID returns the last processed message id, or "" if the key
// has never been written.
func (s *RedisStore) LastMessageID(ctx context.Context) (string, error) {
	val, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get progress marker: %w", err)
	}
	return val, nil
}

// SetLastMessageID records the last processed message id.
func (s *RedisStore) SetLastMessageID(ctx context.Context, id string) error {
	if err := s.rdb.Set(ctx, s.key, id, 0).Err(); err != nil {
		return fmt.Errorf("set progress marker: %w", err)
	}
	return nil
}
