package store

import (
	"context"

	"github.com/serroba/urlpool/internal/analytics"
	"go.uber.org/zap"
)

// Noop is an analytics.Store that only logs events. Useful for local
// runs without Redis.
type Noop struct {
	logger *zap.Logger
}

// NewNoop creates a new no-op analytics store.
func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) SaveURLCreated(_ context.Context, event *analytics.URLCreatedEvent) error {
	n.logger.Info("url created event received",
		zap.String("code", event.Code),
		zap.String("longUrl", event.LongURL),
		zap.Time("createdAt", event.CreatedAt),
	)

	return nil
}

func (n *Noop) SaveURLAccessed(_ context.Context, event *analytics.URLAccessedEvent) error {
	n.logger.Info("url accessed event received",
		zap.String("code", event.Code),
		zap.Time("accessedAt", event.AccessedAt),
		zap.String("referrer", event.Referrer),
	)

	return nil
}

func (n *Noop) SaveURLExpired(_ context.Context, event *analytics.URLExpiredEvent) error {
	n.logger.Info("url expired event received",
		zap.String("code", event.Code),
		zap.Time("expiredAt", event.ExpiredAt),
		zap.Time("sweptAt", event.SweptAt),
	)

	return nil
}

// Compile-time check.
var _ analytics.Store = (*Noop)(nil)
