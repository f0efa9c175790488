package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/renderkit/pkg/cache"
)

func TestMemoryGetSet(t *testing.T) {
	t.Parallel()

	t.Run("missing key returns ErrNotFound", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(context.Background(), "missing")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set then get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()

		require.NoError(t, c.Set(context.Background(), "answer", 42, -1))
		v, err := c.Get(context.Background(), "answer")
		require.NoError(t, err)
		assert.Equal(t, 42, v)
	})

	t.Run("entries expire after TTL", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(context.Background(), "k", "v", 10*time.Millisecond))
		time.Sleep(25 * time.Millisecond)

		_, err := c.Get(context.Background(), "k")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("zero TTL uses default", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](
			cache.WithDefaultTTL(10*time.Millisecond),
			cache.WithCleanupInterval(0),
		)
		defer c.Close()

		require.NoError(t, c.Set(context.Background(), "k", "v", 0))
		time.Sleep(25 * time.Millisecond)

		_, err := c.Get(context.Background(), "k")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("delete removes entry", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		require.NoError(t, c.Set(context.Background(), "k", "v", -1))
		require.NoError(t, c.Delete(context.Background(), "k"))

		_, err := c.Get(context.Background(), "k")
		assert.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set after close fails", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		require.NoError(t, c.Close())
		assert.ErrorIs(t, c.Set(context.Background(), "k", "v", -1), cache.ErrClosed)
	})
}

func TestLoader(t *testing.T) {
	t.Parallel()

	t.Run("computes on miss and caches", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		l := cache.NewLoader(c, -1)

		var calls atomic.Int32
		compute := func(context.Context) (string, error) {
			calls.Add(1)
			return "computed", nil
		}

		v, err := l.Get(context.Background(), "k", compute)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)

		v, err = l.Get(context.Background(), "k", compute)
		require.NoError(t, err)
		assert.Equal(t, "computed", v)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("concurrent misses coalesce", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		l := cache.NewLoader(c, -1)

		var calls atomic.Int32
		compute := func(context.Context) (string, error) {
			calls.Add(1)
			time.Sleep(20 * time.Millisecond)
			return "shared", nil
		}

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := l.Get(context.Background(), "k", compute)
				assert.NoError(t, err)
				assert.Equal(t, "shared", v)
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("compute errors are not cached", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()
		l := cache.NewLoader(c, -1)

		boom := errors.New("boom")
		_, err := l.Get(context.Background(), "k", func(context.Context) (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)

		v, err := l.Get(context.Background(), "k", func(context.Context) (string, error) {
			return "ok", nil
		})
		require.NoError(t, err)
		assert.Equal(t, "ok", v)
	})
}
