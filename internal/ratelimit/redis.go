package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis-backed fixed-window Store. INCR plus a
// set-once expiry keeps the counter and its window in a single
// round trip.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis rate limit store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "ratelimit:",
	}
}

func (r *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := r.client.Pipeline()

	incr := pipe.Incr(ctx, r.prefix+key)
	pipe.ExpireNX(ctx, r.prefix+key, window)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}

	return incr.Val(), nil
}

// Compile-time check.
var _ Store = (*RedisStore)(nil)
