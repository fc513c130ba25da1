// Package cache provides the bounded in-memory lookup cache that fronts
// the mapping store.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/serroba/urlpool/internal/shortener"
)

// DefaultCapacity is the lookup cache size used in production.
const DefaultCapacity = 1000

// Entry is a cached snapshot of a mapping's resolution data. It is
// derived state and never authoritative.
type Entry struct {
	LongURL   string
	ExpiresAt *time.Time
}

// LookupCache is a capacity-bounded cache of code resolutions with
// least-recently-used eviction. Invalidation is whole-cache: writes are
// rare next to reads, and per-key invalidation would need reverse
// dependency tracking for no measurable benefit at this scale.
type LookupCache struct {
	entries *lru.Cache[shortener.Code, Entry]
}

// New creates a LookupCache holding at most capacity entries.
func New(capacity int) (*LookupCache, error) {
	entries, err := lru.New[shortener.Code, Entry](capacity)
	if err != nil {
		return nil, err
	}

	return &LookupCache{entries: entries}, nil
}

// Get returns the cached entry for code, if any.
func (c *LookupCache) Get(code shortener.Code) (Entry, bool) {
	return c.entries.Get(code)
}

// Put stores an entry for code, evicting the least recently used entry
// when the cache is full.
func (c *LookupCache) Put(code shortener.Code, entry Entry) {
	c.entries.Add(code, entry)
}

// InvalidateAll discards every entry so subsequent gets consult the
// durable store. Visible to all goroutines as soon as it returns.
func (c *LookupCache) InvalidateAll() {
	c.entries.Purge()
}

// Len reports the number of live entries.
func (c *LookupCache) Len() int {
	return c.entries.Len()
}
