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

// Package loader implements the recursive, bounded, parallel-fan-out LoTE
// traversal (spec component C4) and the fold of its event stream into a
// LoteLoadResult (component C5, package loadresult).
package loader

import (
	"fmt"
	"time"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// EventKind tags the sum-type Event.
type EventKind int

const (
	EventLoTELoaded EventKind = iota
	EventResourceNotFound
	EventInvalidSignature
	EventParseFailed
	EventMaxDepthReached
	EventMaxListsReached
	EventCircularReferenceDetected
	EventTimedOut
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventLoTELoaded:
		return "LoTELoaded"
	case EventResourceNotFound:
		return "ResourceNotFound"
	case EventInvalidSignature:
		return "InvalidSignature"
	case EventParseFailed:
		return "ParseFailed"
	case EventMaxDepthReached:
		return "MaxDepthReached"
	case EventMaxListsReached:
		return "MaxListsReached"
	case EventCircularReferenceDetected:
		return "CircularReferenceDetected"
	case EventTimedOut:
		return "TimedOut"
	case EventError:
		return "Error"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// IsProblem reports whether k is one of the non-success variants.
func (k EventKind) IsProblem() bool { return k != EventLoTELoaded }

// LoTELoaded is the successful-load payload of an Event.
type LoTELoaded struct {
	Lote      lote.LoTE
	SourceURI lote.URI
	Depth     int
}

// Problem is the payload of every non-success Event variant. Not every
// field applies to every Kind: Limit is set for MaxDepthReached /
// MaxListsReached, Duration for TimedOut, URI and Cause for the rest.
type Problem struct {
	Kind     EventKind
	URI      lote.URI
	Cause    error
	Limit    int
	Duration time.Duration
}

func (p Problem) Error() string {
	switch p.Kind {
	case EventMaxDepthReached:
		return fmt.Sprintf("max depth %d reached at %s", p.Limit, p.URI)
	case EventMaxListsReached:
		return fmt.Sprintf("max lists %d reached at %s", p.Limit, p.URI)
	case EventCircularReferenceDetected:
		return fmt.Sprintf("circular reference detected at %s", p.URI)
	case EventTimedOut:
		return fmt.Sprintf("timed out after %s", p.Duration)
	default:
		if p.Cause != nil {
			return fmt.Sprintf("%s at %s: %v", p.Kind, p.URI, p.Cause)
		}
		return fmt.Sprintf("%s at %s", p.Kind, p.URI)
	}
}

func (p Problem) Unwrap() error { return p.Cause }

// Event is the sum type emitted by LoteLoader.Load: exactly one of
// LoTELoaded or Problem is set, selected by Kind.
type Event struct {
	Kind       EventKind
	LoTELoaded *LoTELoaded
	Problem    *Problem
}

func loadedEvent(l lote.LoTE, uri lote.URI, depth int) Event {
	return Event{Kind: EventLoTELoaded, LoTELoaded: &LoTELoaded{Lote: l, SourceURI: uri, Depth: depth}}
}

func problemEvent(p Problem) Event {
	return Event{Kind: p.Kind, Problem: &p}
}
