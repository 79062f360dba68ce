package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "trail:"

// RedisStore implements Store on Redis. Documents never expire.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger

	maxRetries int
	retryDelay time.Duration
}

// Ensure RedisStore implements Store interface
var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis storage instance
func NewRedisStore(redisURL string, logger *slog.Logger) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	return &RedisStore{
		client:     rdb,
		logger:     logger,
		maxRetries: 30,
		retryDelay: 2 * time.Second,
	}
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	for i := 0; i < r.maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(r.retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", r.maxRetries)
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Redis key not found", "key", key)
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to load document", "key", key, "error", err)
		return nil, fmt.Errorf("failed to load %s: %w", key, err)
	}
	return data, nil
}

func (r *RedisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := r.client.Set(ctx, redisKeyPrefix+key, data, 0).Err(); err != nil {
		r.logger.Error("Failed to save document", "key", key, "error", err)
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

func (r *RedisStore) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		r.logger.Error("Failed to delete document", "key", key, "error", err)
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
