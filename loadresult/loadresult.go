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

// Package loadresult folds a loader.Event stream into a LoteLoadResult:
// the main LoTE, its successfully-loaded siblings, and the accumulated
// problems (spec component C5).
package loadresult

import (
	"fmt"
	"time"

	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/loader"
)

// LoadedLoTE pairs a main list with the sibling lists reachable from it.
type LoadedLoTE struct {
	List       lote.LoTE
	OtherLists []lote.LoTE
}

// LoteLoadResult is the outcome of folding one loader invocation's event
// stream. Invariant: if len(Siblings) > 0 then Main != nil.
type LoteLoadResult struct {
	Main      *loader.LoTELoaded
	Siblings  []loader.LoTELoaded
	Problems  []loader.Problem
	StartedAt time.Time
	EndedAt   time.Time
}

// Loaded returns the LoadedLoTE view of the result, or false if no main
// list was ever successfully loaded.
func (r LoteLoadResult) Loaded() (LoadedLoTE, bool) {
	if r.Main == nil {
		return LoadedLoTE{}, false
	}
	others := make([]lote.LoTE, len(r.Siblings))
	for i, s := range r.Siblings {
		others[i] = s.Lote
	}
	return LoadedLoTE{List: r.Main.Lote, OtherLists: others}, true
}

// ContinuePolicy decides, after each problem, whether the fold should keep
// consuming the event stream or stop early.
type ContinuePolicy func(mainLoaded bool, problemsSoFar []loader.Problem) bool

// Never stops at the first problem, regardless of whether the root loaded.
func Never(_ bool, _ []loader.Problem) bool { return false }

// Always keeps consuming the stream through every problem.
func Always(_ bool, _ []loader.Problem) bool { return true }

// AlwaysIfDownloaded continues past a problem only once the root has
// loaded successfully; a problem before that point is fatal to the fold.
func AlwaysIfDownloaded(mainLoaded bool, _ []loader.Problem) bool { return mainLoaded }

// ErrDuplicateRoot is a programmer error: the loader emitted more than one
// depth-0 LoTELoaded event in a single invocation.
var ErrDuplicateRoot = fmt.Errorf("loadresult: more than one depth-0 LoTELoaded event")

// ErrOutOfOrderLoad is a programmer error: a depth>0 LoTELoaded event
// arrived before the root's depth-0 event.
var ErrOutOfOrderLoad = fmt.Errorf("loadresult: depth>0 event observed before the root")

// Clock supplies the start/end timestamps recorded on the result,
// injected so tests can control time deterministically.
type Clock func() time.Time

// Collect drains events under policy, stamping start/end times from now.
// It panics with ErrDuplicateRoot/ErrOutOfOrderLoad on a malformed stream
// — those are loader programmer errors, not runtime problems.
func Collect(events <-chan loader.Event, policy ContinuePolicy, now Clock) LoteLoadResult {
	result := LoteLoadResult{StartedAt: now()}

	for ev := range events {
		switch ev.Kind {
		case loader.EventLoTELoaded:
			l := *ev.LoTELoaded
			if l.Depth == 0 {
				if result.Main != nil {
					panic(ErrDuplicateRoot)
				}
				result.Main = &l
			} else {
				if result.Main == nil {
					panic(ErrOutOfOrderLoad)
				}
				result.Siblings = append(result.Siblings, l)
			}
		default:
			result.Problems = append(result.Problems, *ev.Problem)
			if !policy(result.Main != nil, result.Problems) {
				// Returning now (rather than waiting for the channel to
				// close) is the whole point of a policy that says "stop
				// early" — but the loader's goroutines may still be
				// mid-send on this channel, so drain it in the
				// background instead of leaving them blocked forever.
				go drain(events)
				result.EndedAt = now()
				return result
			}
		}
	}

	result.EndedAt = now()
	return result
}

// drain consumes the rest of a channel without processing it, so the
// loader's goroutines (which may still be sending) are never left
// blocked on a send after Collect has decided to stop early.
func drain(events <-chan loader.Event) {
	for range events {
	}
}
