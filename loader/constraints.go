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

package loader

import (
	"fmt"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// Constraints bounds a single loader invocation. All three fields must be
// strictly positive; enforced at construction, never at traversal time.
type Constraints struct {
	Parallelism int
	MaxDepth    int
	MaxLists    int
}

// NewConstraints validates and builds a Constraints value.
func NewConstraints(parallelism, maxDepth, maxLists int) (Constraints, error) {
	if parallelism <= 0 {
		return Constraints{}, fmt.Errorf("loader: parallelism must be > 0, got %d", parallelism)
	}
	if maxDepth <= 0 {
		return Constraints{}, fmt.Errorf("loader: maxDepth must be > 0, got %d", maxDepth)
	}
	if maxLists <= 0 {
		return Constraints{}, fmt.Errorf("loader: maxLists must be > 0, got %d", maxLists)
	}
	return Constraints{Parallelism: parallelism, MaxDepth: maxDepth, MaxLists: maxLists}, nil
}

// step is an internal traversal record: the URI to visit, its depth from
// the root, and the chain of ancestor URIs already on this branch (used
// for cycle detection). ancestors is owned by the step: each recursive
// call receives its own copy, so concurrent branches of a DAG never
// contend over a shared "currently visited" set — only a node that is its
// own ancestor is ever flagged as circular, regardless of how fan-out
// chunks interleave in time.
type step struct {
	uri       lote.URI
	depth     int
	ancestors []lote.URI
}

func (s step) child(uri lote.URI) step {
	anc := make([]lote.URI, len(s.ancestors)+1)
	copy(anc, s.ancestors)
	anc[len(s.ancestors)] = s.uri
	return step{uri: uri, depth: s.depth + 1, ancestors: anc}
}

func (s step) isAncestor(uri lote.URI) bool {
	for _, a := range s.ancestors {
		if a == uri {
			return true
		}
	}
	return false
}
