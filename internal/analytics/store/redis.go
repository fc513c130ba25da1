package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/serroba/urlpool/internal/analytics"
)

// Key layout: per-event-type lists for raw events, plus per-code hit
// counters for cheap aggregation.
const (
	createdKey  = "analytics:created"
	accessedKey = "analytics:accessed"
	expiredKey  = "analytics:expired"
	hitsKey     = "analytics:hits"
)

// Redis persists analytics events in Redis.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed analytics store.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) SaveURLCreated(ctx context.Context, event *analytics.URLCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.LPush(ctx, createdKey, payload).Err()
}

func (r *Redis) SaveURLAccessed(ctx context.Context, event *analytics.URLAccessedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, accessedKey, payload)
	pipe.HIncrBy(ctx, hitsKey, event.Code, 1)

	_, err = pipe.Exec(ctx)

	return err
}

func (r *Redis) SaveURLExpired(ctx context.Context, event *analytics.URLExpiredEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.LPush(ctx, expiredKey, payload)
	pipe.HDel(ctx, hitsKey, event.Code)

	_, err = pipe.Exec(ctx)

	return err
}

// Compile-time check.
var _ analytics.Store = (*Redis)(nil)
