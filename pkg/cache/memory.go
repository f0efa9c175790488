package cache

import (
	"context"
	"sync"
	"time"
)

// memEntry holds a cached value with its expiration time.
type memEntry[V any] struct {
	expiresAt time.Time // zero = never expires
	value     V
}

func (e *memEntry[V]) expired() bool {
	return !e.expiresAt.IsZero() && time.Now().After(e.expiresAt)
}

// Memory is an in-process cache with TTL-based expiration. Expired
// entries are dropped lazily on access and swept periodically by a
// janitor goroutine.
type Memory[V any] struct {
	mu         sync.Mutex
	items      map[string]*memEntry[V]
	defaultTTL time.Duration
	done       chan struct{}
	closed     bool
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	defaultTTL      time.Duration
	cleanupInterval time.Duration
}

// WithDefaultTTL sets the TTL applied when Set is called with a zero TTL.
// Defaults to no expiration.
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.defaultTTL = ttl
	}
}

// WithCleanupInterval sets how often the janitor sweeps expired entries.
// Defaults to one minute; zero disables the janitor.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(c *memoryConfig) {
		c.cleanupInterval = d
	}
}

// NewMemory creates an in-process cache.
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	cfg := &memoryConfig{cleanupInterval: time.Minute}
	for _, opt := range opts {
		opt(cfg)
	}

	m := &Memory[V]{
		items:      make(map[string]*memEntry[V]),
		defaultTTL: cfg.defaultTTL,
		done:       make(chan struct{}),
	}
	if cfg.cleanupInterval > 0 {
		go m.janitor(cfg.cleanupInterval)
	}
	return m
}

// Get retrieves a value by key.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	e, ok := m.items[key]
	if !ok {
		return zero, ErrNotFound
	}
	if e.expired() {
		delete(m.items, key)
		return zero, ErrNotFound
	}
	return e.value, nil
}

// Set stores a value with the given TTL.
func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if ttl == 0 {
		ttl = m.defaultTTL
	}
	e := &memEntry[V]{value: value}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	m.items[key] = e
	return nil
}

// Delete removes a key.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Close stops the janitor and drops all entries.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	close(m.done)
	m.items = make(map[string]*memEntry[V])
	return nil
}

func (m *Memory[V]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			m.mu.Lock()
			for key, e := range m.items {
				if e.expired() {
					delete(m.items, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
