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

// Package trustanchor defines TrustAnchorSource (spec component C7): a
// query-keyed source of non-empty anchor lists, with combinators for
// fallback, query remapping, and TTL-cached memoisation.
package trustanchor

import (
	"context"
	"time"

	"github.com/eudiw/lote-trust-anchor/generic"
	"github.com/eudiw/lote-trust-anchor/trustanchor/memocache"
)

// Source resolves a query to a non-empty list of anchors, or reports that
// none exist for that query (found == false). An error indicates the
// lookup itself failed (I/O, cache closed, ...), distinct from a clean
// "nothing here" answer.
type Source[Q comparable, A any] interface {
	Get(ctx context.Context, q Q) (anchors generic.NonEmptyList[A], found bool, err error)
}

// Closer is implemented by sources that own resources (an open cache, a
// child source) that must be released. Combinators that compose sources
// close every child exactly once; a child that doesn't implement Closer
// is simply skipped.
type Closer interface {
	Close(ctx context.Context) error
}

// Func adapts a plain function to the Source interface.
type Func[Q comparable, A any] func(ctx context.Context, q Q) (generic.NonEmptyList[A], bool, error)

// Get implements Source.
func (f Func[Q, A]) Get(ctx context.Context, q Q) (generic.NonEmptyList[A], bool, error) {
	return f(ctx, q)
}

// closeIfCloser closes s if it implements Closer, otherwise it's a no-op.
func closeIfCloser(ctx context.Context, s any) error {
	if c, ok := s.(Closer); ok {
		return c.Close(ctx)
	}
	return nil
}

type orSource[Q comparable, A any] struct {
	primary  Source[Q, A]
	fallback Source[Q, A]
}

// Or tries primary first; if primary reports not-found (or errors), it
// falls back to fallback. This combinator is marked sensitive in spec §4.4: a
// misbehaving primary that always reports not-found silently hides
// misconfiguration behind the fallback answering instead.
func Or[Q comparable, A any](primary, fallback Source[Q, A]) Source[Q, A] {
	return &orSource[Q, A]{primary: primary, fallback: fallback}
}

func (s *orSource[Q, A]) Get(ctx context.Context, q Q) (generic.NonEmptyList[A], bool, error) {
	anchors, found, err := s.primary.Get(ctx, q)
	if err == nil && found {
		return anchors, true, nil
	}
	return s.fallback.Get(ctx, q)
}

func (s *orSource[Q, A]) Close(ctx context.Context) error {
	err1 := closeIfCloser(ctx, s.primary)
	err2 := closeIfCloser(ctx, s.fallback)
	if err1 != nil {
		return err1
	}
	return err2
}

type contraMapSource[Q2 comparable, Q comparable, A any] struct {
	inner Source[Q, A]
	f     func(Q2) Q
}

// ContraMap adapts inner to accept queries of type Q2 by mapping them
// through f before delegating.
func ContraMap[Q2 comparable, Q comparable, A any](inner Source[Q, A], f func(Q2) Q) Source[Q2, A] {
	return &contraMapSource[Q2, Q, A]{inner: inner, f: f}
}

func (s *contraMapSource[Q2, Q, A]) Get(ctx context.Context, q2 Q2) (generic.NonEmptyList[A], bool, error) {
	return s.inner.Get(ctx, s.f(q2))
}

func (s *contraMapSource[Q2, Q, A]) Close(ctx context.Context) error {
	return closeIfCloser(ctx, s.inner)
}

type cachedSource[Q comparable, A any] struct {
	inner Source[Q, A]
	cache *memocache.Cache[Q, result[A]]
}

// result pairs a found anchor list with whether anything was found at
// all, so the cache can memoise the negative (not-found) case too without
// the singleflight value type needing to be an interface.
type result[A any] struct {
	anchors generic.NonEmptyList[A]
	found   bool
}

// Cached wraps inner in an AsyncMemoCache (spec §4.6): concurrent calls
// for the same query while a lookup is in flight observe a single
// underlying inner.Get invocation; resolved answers (including
// not-found) are memoised for ttl.
func Cached[Q comparable, A any](inner Source[Q, A], ttl time.Duration, expectedSize int) (Source[Q, A], error) {
	cache, err := memocache.New[Q, result[A]](expectedSize, ttl)
	if err != nil {
		return nil, err
	}
	return &cachedSource[Q, A]{inner: inner, cache: cache}, nil
}

func (s *cachedSource[Q, A]) Get(ctx context.Context, q Q) (generic.NonEmptyList[A], bool, error) {
	var zero generic.NonEmptyList[A]
	r, err := s.cache.Get(ctx, q, func(ctx context.Context) (result[A], error) {
		anchors, found, err := s.inner.Get(ctx, q)
		if err != nil {
			return result[A]{}, err
		}
		return result[A]{anchors: anchors, found: found}, nil
	})
	if err != nil {
		return zero, false, err
	}
	return r.anchors, r.found, nil
}

func (s *cachedSource[Q, A]) Close(ctx context.Context) error {
	if err := s.cache.Close(ctx); err != nil {
		return err
	}
	return closeIfCloser(ctx, s.inner)
}
