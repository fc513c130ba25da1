// Package sweeper removes expired mappings on a fixed interval and
// returns their codes to the pool.
package sweeper

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/serroba/urlpool/internal/analytics"
	"github.com/serroba/urlpool/internal/keypool"
	"github.com/serroba/urlpool/internal/messaging"
	"github.com/serroba/urlpool/internal/shortener"
	"go.uber.org/zap"
)

// DefaultInterval is the production sweep interval.
const DefaultInterval = 60 * time.Second

// Sweeper periodically scans for expired mappings, deletes them, and
// recycles their codes. It runs on its own goroutine, decoupled from
// request traffic, and is the only writer of used→free transitions
// outside explicit administration.
type Sweeper struct {
	repo           shortener.Repository
	allocator      *keypool.Allocator
	interval       time.Duration
	publishExpired messaging.Publish[analytics.URLExpiredEvent]
	logger         *zap.Logger
	cancel         context.CancelFunc
	done           chan struct{}
}

// New creates a Sweeper. The repository is expected to handle cache
// invalidation for the deleted batch itself.
func New(
	repo shortener.Repository,
	allocator *keypool.Allocator,
	interval time.Duration,
	publishExpired messaging.Publish[analytics.URLExpiredEvent],
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		repo:           repo,
		allocator:      allocator,
		interval:       interval,
		publishExpired: publishExpired,
		logger:         logger,
		done:           make(chan struct{}),
	}
}

// Start launches the sweep loop.
func (s *Sweeper) Start(ctx context.Context) error {
	ctx, s.cancel = context.WithCancel(ctx)

	go s.run(ctx)

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))

	return nil
}

func (s *Sweeper) run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one expiry cycle. Mappings are deleted before their codes
// are recycled, so a freed code can never still resolve. Failures on a
// single record are logged and skipped; whatever is left over is picked
// up on the next cycle.
func (s *Sweeper) Sweep(ctx context.Context) {
	now := time.Now().UTC()

	deleted, err := s.repo.DeleteExpiredBefore(ctx, now)
	if err != nil {
		s.logger.Error("expiry scan failed", zap.Error(err))

		return
	}

	if len(deleted) == 0 {
		return
	}

	for _, mapping := range deleted {
		s.allocator.Recycle(ctx, string(mapping.Code))

		event := &analytics.URLExpiredEvent{
			EventID: uuid.NewString(),
			Code:    string(mapping.Code),
			LongURL: mapping.LongURL,
			SweptAt: now,
		}
		if mapping.ExpiresAt != nil {
			event.ExpiredAt = *mapping.ExpiresAt
		}

		if err := s.publishExpired(event); err != nil {
			s.logger.Warn("failed to publish expiry event",
				zap.String("code", event.Code),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("sweep completed",
		zap.Int("expired", len(deleted)),
		zap.Time("cutoff", now),
	)
}

// Shutdown stops the sweep loop and waits for an in-flight cycle to
// finish.
func (s *Sweeper) Shutdown() error {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}

	return nil
}
