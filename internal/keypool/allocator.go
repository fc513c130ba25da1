package keypool

import (
	"context"
	"errors"

	"github.com/jaevor/go-nanoid"
	"go.uber.org/zap"
)

// DefaultCodeLength matches the width of the short_code column.
// Eight alphanumeric characters give ~2.2e14 combinations, so fresh-code
// collisions are rare but not impossible.
const DefaultCodeLength = 8

// maxAttempts bounds the allocate retry loop when generated codes keep
// colliding with existing slots.
const maxAttempts = 5

const alphanumeric = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// Generator produces candidate short codes.
type Generator func() string

// NewGenerator returns a Generator drawing uniformly from the
// alphanumeric alphabet at the given length.
func NewGenerator(length int) (Generator, error) {
	gen, err := nanoid.CustomASCII(alphanumeric, length)
	if err != nil {
		return nil, err
	}

	return Generator(gen), nil
}

// Allocator hands out globally unique short codes backed by a Pool.
type Allocator struct {
	pool         Pool
	generateCode Generator
	logger       *zap.Logger
}

// NewAllocator creates an Allocator on top of the given pool.
func NewAllocator(pool Pool, generator Generator, logger *zap.Logger) *Allocator {
	return &Allocator{
		pool:         pool,
		generateCode: generator,
		logger:       logger,
	}
}

// Allocate returns a code whose slot is durably marked used before the
// call returns. An existing free slot is preferred; otherwise a fresh
// code is generated and inserted. When an insert loses a race on the
// code's uniqueness the whole attempt restarts, up to maxAttempts, after
// which ErrPoolExhausted surfaces.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, ok, err := a.pool.Claim(ctx)
		if err != nil {
			return "", err
		}

		if ok {
			return code, nil
		}

		code = a.generateCode()

		err = a.pool.Insert(ctx, code)
		if err == nil {
			return code, nil
		}

		if !errors.Is(err, ErrDuplicateCode) {
			return "", err
		}

		a.logger.Warn("generated code collided, retrying",
			zap.String("code", code),
			zap.Int("attempt", attempt),
		)
	}

	return "", ErrPoolExhausted
}

// Recycle returns a slot to the free state. Failures are logged and
// absorbed: a slot stuck in the used state is a leak, not a correctness
// problem, and a later recycle attempt can still free it.
func (a *Allocator) Recycle(ctx context.Context, code string) {
	if err := a.pool.Release(ctx, code); err != nil {
		a.logger.Error("failed to recycle code",
			zap.String("code", code),
			zap.Error(err),
		)
	}
}
