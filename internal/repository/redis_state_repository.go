package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	appErrors "github.com/noah-isme/timetable-editor/pkg/errors"
)

// RedisStateRepository stores values as plain Redis strings without expiry.
type RedisStateRepository struct {
	client *redis.Client
	prefix string
}

// NewRedisStateRepository constructs the repository; prefix namespaces keys.
func NewRedisStateRepository(client *redis.Client, prefix string) *RedisStateRepository {
	return &RedisStateRepository{client: client, prefix: prefix}
}

// Get returns the raw value stored under key.
func (r *RedisStateRepository) Get(ctx context.Context, key string) ([]byte, error) {
	raw, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, appErrors.ErrStateNotFound
		}
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return raw, nil
}

// Put replaces the value stored under key.
func (r *RedisStateRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key.
func (r *RedisStateRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}
