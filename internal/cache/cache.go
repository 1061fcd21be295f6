// Package cache keeps the last good value of an expensive upstream call for a
// revalidation window. Concurrent refreshes of one key share a single call.
package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader produces a fresh value for a key.
type Loader[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value   T
	fetched time.Time
}

// Result is a cached value plus how it was obtained.
type Result[T any] struct {
	Value T
	// Stale is set when the refresh failed and the previous value was served.
	Stale bool
	// FetchedAt is when Value was loaded from upstream.
	FetchedAt time.Time
}

// Option configures a TTL cache.
type Option func(*options)

type options struct {
	serveStale bool
}

// ServeStale makes Get fall back to the previous value when a refresh fails.
func ServeStale() Option {
	return func(o *options) { o.serveStale = true }
}

// TTL caches values per key for a fixed window.
type TTL[T any] struct {
	ttl   time.Duration
	opts  options
	now   func() time.Time
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[T]
}

// New returns a cache whose entries are fresh for ttl.
func New[T any](ttl time.Duration, opts ...Option) *TTL[T] {
	c := &TTL[T]{ttl: ttl, now: time.Now, entries: make(map[string]entry[T])}
	for _, o := range opts {
		o(&c.opts)
	}
	return c
}

// Get returns the fresh value for key or calls load. With ServeStale, a failed
// load falls back to the previous value (Stale set, error dropped); otherwise
// the load error is returned.
func (c *TTL[T]) Get(ctx context.Context, key string, load Loader[T]) (Result[T], error) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.fetched) < c.ttl {
		return Result[T]{Value: e.value, FetchedAt: e.fetched}, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		val, err := load(ctx)
		if err != nil {
			return nil, err
		}
		fresh := entry[T]{value: val, fetched: c.now()}
		c.mu.Lock()
		c.entries[key] = fresh
		c.mu.Unlock()
		return fresh, nil
	})
	if err != nil {
		if ok && c.opts.serveStale {
			return Result[T]{Value: e.value, Stale: true, FetchedAt: e.fetched}, nil
		}
		var zero T
		return Result[T]{Value: zero}, err
	}
	fresh := v.(entry[T])
	return Result[T]{Value: fresh.value, FetchedAt: fresh.fetched}, nil
}

// Invalidate drops key so the next Get reloads it.
func (c *TTL[T]) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
