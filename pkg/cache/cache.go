package cache

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/singleflight"
)

// Sentinel errors.
var (
	// ErrNotFound is returned when a key does not exist or has expired.
	ErrNotFound = errors.New("cache: entry not found")

	// ErrClosed is returned when an operation hits a closed cache.
	ErrClosed = errors.New("cache: closed")
)

// Cache is a generic key-value cache with TTL support.
//
// TTL semantics for Set:
//   - positive: the entry expires after this duration
//   - zero: use the cache's configured default TTL
//   - negative: the entry never expires
type Cache[V any] interface {
	// Get retrieves a value by key.
	// Returns ErrNotFound if the key does not exist or has expired.
	Get(ctx context.Context, key string) (V, error)

	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value V, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Loader adds request coalescing on top of a Cache: concurrent misses for
// the same key run the compute function once and share its result.
type Loader[V any] struct {
	cache Cache[V]
	group singleflight.Group
	ttl   time.Duration
}

// NewLoader creates a Loader over the given cache. Computed values are
// stored with the given TTL (zero uses the cache default).
func NewLoader[V any](c Cache[V], ttl time.Duration) *Loader[V] {
	return &Loader[V]{cache: c, ttl: ttl}
}

// Get returns the cached value for key, computing and storing it on a
// miss. Compute errors are not cached.
func (l *Loader[V]) Get(ctx context.Context, key string, compute func(ctx context.Context) (V, error)) (V, error) {
	if v, err := l.cache.Get(ctx, key); err == nil {
		return v, nil
	} else if !errors.Is(err, ErrNotFound) {
		var zero V
		return zero, err
	}

	v, err, _ := l.group.Do(key, func() (any, error) {
		// Double-check after winning the flight; a concurrent caller may
		// have stored the value already.
		if v, err := l.cache.Get(ctx, key); err == nil {
			return v, nil
		}
		v, err := compute(ctx)
		if err != nil {
			return nil, err
		}
		if err := l.cache.Set(ctx, key, v, l.ttl); err != nil && !errors.Is(err, ErrClosed) {
			return nil, err
		}
		return v, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return v.(V), nil
}
