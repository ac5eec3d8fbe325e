package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryIdempotencyStore(t *testing.T) {
	t.Run("first mark returns true, second returns false", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		newlyMarked, err := store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, newlyMarked)

		newlyMarked, err = store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)
		assert.False(t, newlyMarked)
	})

	t.Run("distinct operations are independent", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		newlyMarked, err := store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, newlyMarked)

		newlyMarked, err = store.MarkProcessed(ctx, "op-2", time.Minute)
		require.NoError(t, err)
		assert.True(t, newlyMarked)
	})

	t.Run("IsProcessed reflects marks", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		processed, err := store.IsProcessed(ctx, "op-1")
		require.NoError(t, err)
		assert.False(t, processed)

		_, err = store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)

		processed, err = store.IsProcessed(ctx, "op-1")
		require.NoError(t, err)
		assert.True(t, processed)
	})

	t.Run("expired entries can be marked again", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		_, err := store.MarkProcessed(ctx, "op-1", 10*time.Millisecond)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)

		processed, err := store.IsProcessed(ctx, "op-1")
		require.NoError(t, err)
		assert.False(t, processed)

		newlyMarked, err := store.MarkProcessed(ctx, "op-1", time.Minute)
		require.NoError(t, err)
		assert.True(t, newlyMarked)
	})

	t.Run("cleanup evicts expired entries", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		_, err := store.MarkProcessed(ctx, "op-1", 5*time.Millisecond)
		require.NoError(t, err)
		_, err = store.MarkProcessed(ctx, "op-2", time.Hour)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		store.cleanup()

		assert.Equal(t, 1, store.Size())
	})

	t.Run("concurrent marks record each operation exactly once", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		defer store.Close()
		ctx := context.Background()

		const workers = 10
		const operations = 20

		var wins atomic.Int64
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < operations; i++ {
					opID := fmt.Sprintf("op-%d", i)
					newlyMarked, err := store.MarkProcessed(ctx, opID, time.Minute)
					assert.NoError(t, err)
					if newlyMarked {
						wins.Add(1)
					}
				}
			}()
		}
		wg.Wait()

		// Each operation ID is won by exactly one goroutine.
		assert.Equal(t, int64(operations), wins.Load())
		assert.Equal(t, operations, store.Size())
	})

	t.Run("close is safe to call twice", func(t *testing.T) {
		store := NewInMemoryIdempotencyStore()
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
