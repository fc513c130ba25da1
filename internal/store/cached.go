package store

import (
	"context"
	"time"

	"github.com/serroba/urlpool/internal/cache"
	"github.com/serroba/urlpool/internal/shortener"
)

// CachedRepository fronts a Repository with the bounded lookup cache.
//
// Reads populate the cache on miss; every successful write or delete
// clears the whole cache before returning, so a completed mutation is
// never observable next to a stale cached read. Read-through population
// trades one extra copy per miss for cheap read-after-write latency.
type CachedRepository struct {
	store shortener.Repository
	cache *cache.LookupCache
}

// NewCachedRepository wraps store with the given lookup cache.
func NewCachedRepository(store shortener.Repository, c *cache.LookupCache) *CachedRepository {
	return &CachedRepository{store: store, cache: c}
}

func (r *CachedRepository) Save(ctx context.Context, shortURL *shortener.ShortURL) error {
	if err := r.store.Save(ctx, shortURL); err != nil {
		return err
	}

	r.cache.InvalidateAll()

	return nil
}

func (r *CachedRepository) GetByCode(ctx context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	if entry, ok := r.cache.Get(code); ok {
		return &shortener.ShortURL{
			Code:      code,
			LongURL:   entry.LongURL,
			ExpiresAt: entry.ExpiresAt,
		}, nil
	}

	url, err := r.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	r.cache.Put(code, cache.Entry{LongURL: url.LongURL, ExpiresAt: url.ExpiresAt})

	return url, nil
}

// DeleteExpiredBefore deletes from the underlying store and invalidates
// the cache once for the whole batch, and only when something was
// actually removed.
func (r *CachedRepository) DeleteExpiredBefore(ctx context.Context, now time.Time) ([]shortener.ShortURL, error) {
	deleted, err := r.store.DeleteExpiredBefore(ctx, now)
	if err != nil {
		return nil, err
	}

	if len(deleted) > 0 {
		r.cache.InvalidateAll()
	}

	return deleted, nil
}

// Compile-time check.
var _ shortener.Repository = (*CachedRepository)(nil)
