// Package ratelimit implements fixed-window request limiting with
// per-endpoint configuration carried in huma operation metadata.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// MetadataKey is the key used to attach an EndpointConfig to a huma
// operation's Metadata.
const MetadataKey = "rateLimit"

// Limit is one window/max pair.
type Limit struct {
	Window time.Duration
	Max    int64
}

// EndpointConfig is the per-endpoint rate limit configuration.
type EndpointConfig struct {
	// Limits to enforce for this endpoint. Every limit must pass for a
	// request to be allowed.
	Limits []Limit

	// Disabled skips rate limiting for this endpoint entirely.
	Disabled bool
}

// Store counts requests per key within a window.
type Store interface {
	// Incr increments the counter for key, starting a fresh window when
	// none is active, and returns the count within the current window.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// Limiter enforces a set of fixed-window limits against a Store.
type Limiter struct {
	store Store
}

// NewLimiter creates a limiter backed by the given store.
func NewLimiter(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow checks every limit for the client key and reports whether the
// request may proceed. Each window is tracked independently.
func (l *Limiter) Allow(ctx context.Context, clientKey string, limits []Limit) (bool, error) {
	for _, limit := range limits {
		key := fmt.Sprintf("%s:%d", clientKey, limit.Window.Milliseconds())

		count, err := l.store.Incr(ctx, key, limit.Window)
		if err != nil {
			return false, err
		}

		if count > limit.Max {
			return false, nil
		}
	}

	return true, nil
}
