// Copyright 2024 The EUDI Wallet Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package memocache implements the AsyncMemoCache from spec component C9:
// a bounded, TTL-expiring, concurrency-deduplicating memoising cache.
//
// Deduplication is built on golang.org/x/sync/singleflight (exactly one
// supplier invocation per in-flight key, regardless of caller count); the
// bounded, TTL-aware table of already-resolved values is a
// github.com/hashicorp/golang-lru/v2 cache guarded by a mutex that is
// never held across the awaited call — the pattern described in spec
// §9 ("mutable cache under mutex with awaited future").
package memocache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/eudiw/lote-trust-anchor/metrics"
)

// ErrClosed is returned by Get once the cache has been closed.
var ErrClosed = errors.New("memocache: cache is closed")

type entry[V any] struct {
	value     V
	createdAt time.Time
}

// Cache is a bounded, TTL-expiring memoising cache for key type K and
// value type V.
type Cache[K comparable, V any] struct {
	mu      sync.Mutex
	lru     *lru.Cache[K, entry[V]]
	group   singleflight.Group
	ttl     time.Duration
	clock   func() time.Time
	keyFunc func(K) string
	closed  bool
	metrics *metrics.Recorder

	cacheCtx    context.Context
	cacheCancel context.CancelFunc
	sweepDone   chan struct{}
}

// Option configures a Cache at construction time.
type Option[K comparable, V any] func(*Cache[K, V])

// WithClock overrides the cache's notion of "now", for deterministic TTL
// tests.
func WithClock[K comparable, V any](clock func() time.Time) Option[K, V] {
	return func(c *Cache[K, V]) { c.clock = clock }
}

// WithKeyFunc overrides how a key is rendered into the singleflight
// dedup string. The default uses fmt.Sprintf("%v", key).
func WithKeyFunc[K comparable, V any](f func(K) string) Option[K, V] {
	return func(c *Cache[K, V]) { c.keyFunc = f }
}

// WithMetrics records hit/miss/eviction counts on r.
func WithMetrics[K comparable, V any](r *metrics.Recorder) Option[K, V] {
	return func(c *Cache[K, V]) { c.metrics = r }
}

// New builds a Cache bounded to size entries with the given TTL. The
// background sweep goroutine wakes every ttl to purge expired entries.
func New[K comparable, V any](size int, ttl time.Duration, opts ...Option[K, V]) (*Cache[K, V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("memocache: size must be > 0, got %d", size)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("memocache: ttl must be > 0, got %s", ttl)
	}
	l, err := lru.New[K, entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("memocache: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Cache[K, V]{
		lru:         l,
		ttl:         ttl,
		clock:       time.Now,
		keyFunc:     func(k K) string { return fmt.Sprintf("%v", k) },
		cacheCtx:    ctx,
		cacheCancel: cancel,
		sweepDone:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.sweepLoop()
	return c, nil
}

// Get returns the live cached value for key if one exists and is younger
// than the TTL. Otherwise it runs supplier exactly once even if many
// goroutines call Get(key) concurrently while that computation is in
// flight: all of them observe the same result. supplier is invoked with
// the cache's own long-lived context (cancelled only by Close), not the
// caller's ctx, so one caller abandoning its call never aborts the
// computation for the others still waiting on it; ctx is only consulted
// to let this particular call stop waiting early.
func (c *Cache[K, V]) Get(ctx context.Context, key K, supplier func(ctx context.Context) (V, error)) (V, error) {
	var zero V

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return zero, ErrClosed
	}
	if e, ok := c.lru.Get(key); ok && c.clock().Sub(e.createdAt) < c.ttl {
		c.mu.Unlock()
		c.metrics.CacheHit()
		return e.value, nil
	}
	cacheCtx := c.cacheCtx
	c.mu.Unlock()

	resCh := c.group.DoChan(c.keyFunc(key), func() (any, error) {
		c.metrics.CacheMiss()
		val, err := supplier(cacheCtx)
		if err != nil {
			// Deliberately not cached: the next Get for this key starts a
			// fresh singleflight call. Since nothing is ever written to
			// c.lru on failure, a concurrently-installed success can
			// never be evicted by an older failure.
			return nil, err
		}
		c.mu.Lock()
		if !c.closed {
			c.lru.Add(key, entry[V]{value: val, createdAt: c.clock()})
		}
		c.mu.Unlock()
		return val, nil
	})

	select {
	case res := <-resCh:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	case <-ctx.Done():
		return zero, ctx.Err()
	case <-cacheCtx.Done():
		return zero, ErrClosed
	}
}

func (c *Cache[K, V]) sweepLoop() {
	defer close(c.sweepDone)
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()
	for {
		select {
		case <-c.cacheCtx.Done():
			return
		case <-ticker.C:
			c.sweepOnce()
		}
	}
}

// Sweep runs one eviction pass synchronously, outside the background
// sweepLoop's ticker cadence. Exposed for tests that need a
// deterministic sweep rather than waiting on the TTL-spaced ticker.
func (c *Cache[K, V]) Sweep() {
	c.sweepOnce()
}

func (c *Cache[K, V]) sweepOnce() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.clock()
	for _, k := range c.lru.Keys() {
		if e, ok := c.lru.Peek(k); ok && now.Sub(e.createdAt) >= c.ttl {
			c.lru.Remove(k)
			c.metrics.CacheEviction()
		}
	}
}

// Close cancels the sweep goroutine and every pending computation (by
// cancelling the context they were given), clears the table, and makes
// every subsequent Get fail with ErrClosed.
func (c *Cache[K, V]) Close(context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	c.mu.Unlock()

	c.cacheCancel()
	<-c.sweepDone

	c.mu.Lock()
	c.lru.Purge()
	c.mu.Unlock()
	return nil
}
