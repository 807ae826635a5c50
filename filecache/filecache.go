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

// Package filecache implements a DSS-style on-disk cache in front of a
// lote.Fetcher (spec component C12): each fetched URL is written to its
// own file named after the hex SHA-256 of the URL, replacing the cached
// copy via write-then-atomic-rename so a reader never observes a
// partially-written file, and concurrent fetches of the same URL are
// serialized through a per-key mutex rather than a single cache-wide
// lock.
package filecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// keyedMutex hands out one *sync.Mutex per distinct key, reference
// counted so the map doesn't grow unbounded over the process lifetime.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refCountedMutex
}

type refCountedMutex struct {
	mu  sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*refCountedMutex)}
}

func (km *keyedMutex) lock(key string) func() {
	km.mu.Lock()
	rc, ok := km.locks[key]
	if !ok {
		rc = &refCountedMutex{}
		km.locks[key] = rc
	}
	rc.refs++
	km.mu.Unlock()

	rc.mu.Lock()
	return func() {
		rc.mu.Unlock()
		km.mu.Lock()
		rc.refs--
		if rc.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}

// Cache wraps a lote.Fetcher with an on-disk cache directory.
type Cache struct {
	inner   lote.Fetcher
	dir     string
	maxAge  time.Duration
	clock   func() time.Time
	locks   *keyedMutex
	logger  *zap.Logger
	backoff func() backoff.BackOff
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge sets how long a cached file is trusted before the Cache
// refetches it from inner. The default, 0, means a cached file is always
// trusted once present — eviction is the caller's responsibility (e.g. by
// removing the directory).
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) { c.maxAge = d }
}

// WithClock overrides the cache's notion of "now", for deterministic
// max-age tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Cache) { c.clock = clock }
}

// WithLogger attaches a structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New builds a Cache rooted at dir, which must already exist.
func New(inner lote.Fetcher, dir string, opts ...Option) (*Cache, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("filecache: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("filecache: %s is not a directory", dir)
	}

	c := &Cache{
		inner:  inner,
		dir:    dir,
		clock:  time.Now,
		locks:  newKeyedMutex(),
		logger: zap.NewNop(),
		backoff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func cacheFileName(uri lote.URI) string {
	sum := sha256.Sum256([]byte(uri))
	return "cache-" + hex.EncodeToString(sum[:])
}

// Fetch implements lote.Fetcher: it serves a fresh cached copy if one
// exists, otherwise delegates to inner and persists the result.
func (c *Cache) Fetch(ctx context.Context, uri lote.URI) (lote.SignedToken, error) {
	path := filepath.Join(c.dir, cacheFileName(uri))

	unlock := c.locks.lock(string(uri))
	defer unlock()

	if data, ok := c.readFresh(path); ok {
		return lote.SignedToken(data), nil
	}

	token, err := c.inner.Fetch(ctx, uri)
	if err != nil {
		return "", err
	}

	if err := c.writeAtomic(ctx, path, []byte(token)); err != nil {
		// The fetch itself succeeded; a cache-write failure degrades
		// performance on the next call, not correctness now.
		c.logger.Warn("filecache: failed to persist cached copy",
			zap.String("uri", string(uri)), zap.Error(err))
	}
	return token, nil
}

func (c *Cache) readFresh(path string) ([]byte, bool) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	if c.maxAge > 0 && c.clock().Sub(info.ModTime()) >= c.maxAge {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

// writeAtomic writes data to a temp file in the same directory as path
// and renames it into place, so a concurrent reader of path never
// observes a partial write; it retries the write-and-rename via
// cenkalti/backoff/v5 to absorb transient filesystem errors.
func (c *Cache) writeAtomic(ctx context.Context, path string, data []byte) error {
	op := func() (struct{}, error) {
		tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
		if err != nil {
			return struct{}{}, err
		}
		tmpName := tmp.Name()

		if _, err := tmp.Write(data); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return struct{}{}, err
		}
		if err := tmp.Close(); err != nil {
			os.Remove(tmpName)
			return struct{}{}, err
		}
		if err := os.Rename(tmpName, path); err != nil {
			os.Remove(tmpName)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, op, backoff.WithBackOff(c.backoff()), backoff.WithMaxTries(3))
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("filecache: writing %s: %w", path, err)
	}
	return err
}
