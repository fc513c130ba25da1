package ratelimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int64
	resetAt time.Time
}

// MemoryStore is an in-memory fixed-window Store for tests and
// single-process runs.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
}

// NewMemoryStore creates a new in-memory rate limit store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

func (m *MemoryStore) Incr(_ context.Context, key string, windowSize time.Duration) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()

	w, ok := m.windows[key]
	if !ok || now.After(w.resetAt) {
		w = &window{resetAt: now.Add(windowSize)}
		m.windows[key] = w
	}

	w.count++

	return w.count, nil
}

// Compile-time check.
var _ Store = (*MemoryStore)(nil)
