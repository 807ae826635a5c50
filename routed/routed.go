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

// Package routed implements RoutedAnchorSource (spec component C8): an
// explicit, exclusivity-checked table mapping a set of queries to the
// single TrustAnchorSource responsible for answering them.
package routed

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/eudiw/lote-trust-anchor/generic"
	"github.com/eudiw/lote-trust-anchor/trustanchor"
)

// ConfigError reports a routing-table configuration fault: these are
// precondition failures raised at construction/combination time, never
// runtime problems (spec §7).
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("routed: %s", e.Reason) }

// OutcomeKind tags the three-way result of RoutedAnchorSource.Get.
type OutcomeKind int

const (
	// QueryNotSupported means no entry in the table owns this query.
	QueryNotSupported OutcomeKind = iota
	// Found means the owning source returned a non-empty anchor list.
	Found
	// NotFound means the owning source was consulted but had nothing for
	// this query. This is the conforming name from spec §4.5; an older
	// draft called the same case MisconfiguredSource.
	NotFound
)

// Outcome is the result of RoutedAnchorSource.Get.
type Outcome[A any] struct {
	Kind    OutcomeKind
	Anchors generic.NonEmptyList[A]
}

type entry[Q comparable, A any] struct {
	keys   map[Q]struct{}
	source trustanchor.Source[Q, A]
}

// RoutedAnchorSource is an ordered table of {key set -> owning source}
// with the invariant that no two entries' key sets intersect.
type RoutedAnchorSource[Q comparable, A any] struct {
	entries []entry[Q, A]
}

// Single builds a RoutedAnchorSource with one entry, responsible for
// exactly the queries in keys.
func Single[Q comparable, A any](keys []Q, source trustanchor.Source[Q, A]) (*RoutedAnchorSource[Q, A], error) {
	if len(keys) == 0 {
		return nil, &ConfigError{Reason: "entry must be responsible for at least one query"}
	}
	keySet := make(map[Q]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}
	return &RoutedAnchorSource[Q, A]{entries: []entry[Q, A]{{keys: keySet, source: source}}}, nil
}

// Get answers q according to the table's routing invariants.
func (r *RoutedAnchorSource[Q, A]) Get(ctx context.Context, q Q) (Outcome[A], error) {
	for _, e := range r.entries {
		if _, ok := e.keys[q]; !ok {
			continue
		}
		anchors, found, err := e.source.Get(ctx, q)
		if err != nil {
			return Outcome[A]{}, err
		}
		if found {
			return Outcome[A]{Kind: Found, Anchors: anchors}, nil
		}
		return Outcome[A]{Kind: NotFound}, nil
	}
	return Outcome[A]{Kind: QueryNotSupported}, nil
}

// Plus unions two routing tables. It fails with a ConfigError if any key
// is owned by both.
func Plus[Q comparable, A any](a, b *RoutedAnchorSource[Q, A]) (*RoutedAnchorSource[Q, A], error) {
	if err := checkDisjoint(a.entries, b.entries); err != nil {
		return nil, err
	}
	merged := make([]entry[Q, A], 0, len(a.entries)+len(b.entries))
	merged = append(merged, a.entries...)
	merged = append(merged, b.entries...)
	return &RoutedAnchorSource[Q, A]{entries: merged}, nil
}

func checkDisjoint[Q comparable, A any](as, bs []entry[Q, A]) error {
	var merr *multierror.Error
	for _, a := range as {
		for _, b := range bs {
			for k := range a.keys {
				if _, ok := b.keys[k]; ok {
					merr = multierror.Append(merr, fmt.Errorf("query %v is owned by more than one source", k))
				}
			}
		}
	}
	if merr != nil {
		return &ConfigError{Reason: merr.Error()}
	}
	return nil
}

// Transform remaps the query type of every entry in r from Q to Q2 via
// mapF, using contraMapF to translate Q2 queries back to Q when
// delegating to the (unchanged) underlying sources. mapF must be
// injective within each entry's key set and the resulting Q2 key sets
// must remain globally disjoint; either violation is a ConfigError.
func Transform[Q comparable, Q2 comparable, A any](
	r *RoutedAnchorSource[Q, A],
	mapF func(Q) Q2,
	contraMapF func(Q2) Q,
) (*RoutedAnchorSource[Q2, A], error) {
	newEntries := make([]entry[Q2, A], 0, len(r.entries))
	for _, e := range r.entries {
		newKeys := make(map[Q2]struct{}, len(e.keys))
		for k := range e.keys {
			k2 := mapF(k)
			if _, dup := newKeys[k2]; dup {
				return nil, &ConfigError{Reason: fmt.Sprintf("mapF is not injective: two queries map to %v", k2)}
			}
			newKeys[k2] = struct{}{}
		}
		newEntries = append(newEntries, entry[Q2, A]{
			keys:   newKeys,
			source: trustanchor.ContraMap[Q2, Q, A](e.source, contraMapF),
		})
	}

	for i := 0; i < len(newEntries); i++ {
		for j := i + 1; j < len(newEntries); j++ {
			if err := checkDisjoint(newEntries[i:i+1], newEntries[j:j+1]); err != nil {
				return nil, err
			}
		}
	}
	return &RoutedAnchorSource[Q2, A]{entries: newEntries}, nil
}

// Close calls Close on the source of every entry whose source implements
// trustanchor.Closer, once per entry. Sources are not de-duplicated: a
// source registered under several entries is closed once for each of them.
func (r *RoutedAnchorSource[Q, A]) Close(ctx context.Context) error {
	var merr *multierror.Error
	for _, e := range r.entries {
		if c, ok := e.source.(trustanchor.Closer); ok {
			if err := c.Close(ctx); err != nil {
				merr = multierror.Append(merr, err)
			}
		}
	}
	return merr.ErrorOrNil()
}
