package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Incr(t *testing.T) {
	t.Run("counts within a window", func(t *testing.T) {
		store := NewMemoryStore()

		for want := int64(1); want <= 3; want++ {
			count, err := store.Incr(context.Background(), "key1", time.Minute)

			require.NoError(t, err)
			assert.Equal(t, want, count)
		}
	})

	t.Run("keys count independently", func(t *testing.T) {
		store := NewMemoryStore()

		_, _ = store.Incr(context.Background(), "key1", time.Minute)
		count, err := store.Incr(context.Background(), "key2", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("starts a fresh window after expiry", func(t *testing.T) {
		store := NewMemoryStore()
		current := time.Now()
		store.now = func() time.Time { return current }

		_, _ = store.Incr(context.Background(), "key1", time.Minute)
		_, _ = store.Incr(context.Background(), "key1", time.Minute)

		current = current.Add(time.Minute + time.Second)

		count, err := store.Incr(context.Background(), "key1", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(1), count, "expired window must reset the count")
	})

	t.Run("is safe for concurrent use", func(t *testing.T) {
		store := NewMemoryStore()

		const n = 50

		var wg sync.WaitGroup

		for i := 0; i < n; i++ {
			wg.Add(1)

			go func() {
				defer wg.Done()

				_, err := store.Incr(context.Background(), "key1", time.Minute)
				assert.NoError(t, err)
			}()
		}

		wg.Wait()

		count, err := store.Incr(context.Background(), "key1", time.Minute)

		require.NoError(t, err)
		assert.Equal(t, int64(n+1), count)
	})
}
