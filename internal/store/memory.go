package store

import (
	"context"
	"sync"
	"time"

	"github.com/serroba/urlpool/internal/shortener"
)

// MemoryStore is an in-memory implementation of shortener.Repository.
type MemoryStore struct {
	mu   sync.RWMutex
	urls map[shortener.Code]shortener.ShortURL
}

// NewMemoryStore creates a new in-memory mapping store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{urls: make(map[shortener.Code]shortener.ShortURL)}
}

func (m *MemoryStore) Save(_ context.Context, shortURL *shortener.ShortURL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.urls[shortURL.Code] = *shortURL

	return nil
}

func (m *MemoryStore) GetByCode(_ context.Context, code shortener.Code) (*shortener.ShortURL, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	url, ok := m.urls[code]
	if !ok {
		return nil, shortener.ErrNotFound
	}

	return &url, nil
}

func (m *MemoryStore) DeleteExpiredBefore(_ context.Context, now time.Time) ([]shortener.ShortURL, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted []shortener.ShortURL

	for code, url := range m.urls {
		if url.ExpiresAt != nil && url.ExpiresAt.Before(now) {
			deleted = append(deleted, url)
			delete(m.urls, code)
		}
	}

	return deleted, nil
}

// Compile-time check.
var _ shortener.Repository = (*MemoryStore)(nil)
