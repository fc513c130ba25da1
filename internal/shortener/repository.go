package shortener

import (
	"context"
	"time"
)

// Repository defines the interface for mapping storage operations.
type Repository interface {
	// Save stores a mapping under its code.
	Save(ctx context.Context, shortURL *ShortURL) error

	// GetByCode returns the mapping for code, or ErrNotFound.
	GetByCode(ctx context.Context, code Code) (*ShortURL, error)

	// DeleteExpiredBefore removes every mapping whose expiry precedes now
	// and returns the removed records. Mappings without an expiry are
	// never removed.
	DeleteExpiredBefore(ctx context.Context, now time.Time) ([]ShortURL, error)
}
