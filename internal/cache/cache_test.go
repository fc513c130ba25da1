package cache_test

import (
	"testing"
	"time"

	"github.com/serroba/urlpool/internal/cache"
	"github.com/serroba/urlpool/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupCache_GetPut(t *testing.T) {
	t.Run("returns stored entry", func(t *testing.T) {
		c, err := cache.New(10)
		require.NoError(t, err)

		expiresAt := time.Now().Add(time.Hour)
		c.Put("abc12345", cache.Entry{LongURL: "https://example.com", ExpiresAt: &expiresAt})

		entry, ok := c.Get("abc12345")

		require.True(t, ok)
		assert.Equal(t, "https://example.com", entry.LongURL)
		assert.Equal(t, expiresAt, *entry.ExpiresAt)
	})

	t.Run("misses on unknown code", func(t *testing.T) {
		c, err := cache.New(10)
		require.NoError(t, err)

		_, ok := c.Get("missing1")

		assert.False(t, ok)
	})

	t.Run("rejects non-positive capacity", func(t *testing.T) {
		_, err := cache.New(0)

		assert.Error(t, err)
	})
}

func TestLookupCache_Eviction(t *testing.T) {
	t.Run("evicts least recently used entry at capacity", func(t *testing.T) {
		c, err := cache.New(2)
		require.NoError(t, err)

		c.Put("code0001", cache.Entry{LongURL: "https://one.example"})
		c.Put("code0002", cache.Entry{LongURL: "https://two.example"})

		// Touch the first entry so the second becomes the LRU victim.
		_, ok := c.Get("code0001")
		require.True(t, ok)

		c.Put("code0003", cache.Entry{LongURL: "https://three.example"})

		_, ok = c.Get("code0001")
		assert.True(t, ok)

		_, ok = c.Get("code0002")
		assert.False(t, ok)

		_, ok = c.Get("code0003")
		assert.True(t, ok)
	})

	t.Run("never exceeds capacity", func(t *testing.T) {
		c, err := cache.New(3)
		require.NoError(t, err)

		for _, code := range []shortener.Code{"c1", "c2", "c3", "c4", "c5"} {
			c.Put(code, cache.Entry{LongURL: "https://example.com"})
		}

		assert.Equal(t, 3, c.Len())
	})
}

func TestLookupCache_InvalidateAll(t *testing.T) {
	t.Run("discards every entry", func(t *testing.T) {
		c, err := cache.New(10)
		require.NoError(t, err)

		c.Put("code0001", cache.Entry{LongURL: "https://one.example"})
		c.Put("code0002", cache.Entry{LongURL: "https://two.example"})

		c.InvalidateAll()

		assert.Zero(t, c.Len())

		_, ok := c.Get("code0001")
		assert.False(t, ok)
	})
}
