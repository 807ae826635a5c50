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
	"context"
	"errors"
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/metrics"
)

// LoteLoader recursively traverses a LoTE and its sibling lists, emitting
// a well-ordered stream of LoTELoaded successes and problem events. See
// spec §4.1 for the full algorithm; this implementation follows it with
// one deliberate adaptation for Go's real (not cooperative
// single-threaded) concurrency: cycle detection is done against each
// branch's own ancestor chain (carried in step, not a shared set) rather
// than a traversal-wide visited map, so two unrelated branches racing to
// fetch the same DAG-shared child can never be misreported as a cycle —
// see DESIGN.md.
type LoteLoader struct {
	fetcher     lote.Fetcher
	verifier    lote.TokenVerifier
	parser      lote.LoteParser
	constraints Constraints
	logger      *zap.Logger
	metrics     *metrics.Recorder
}

// Option configures a LoteLoader.
type Option func(*LoteLoader)

// WithLogger attaches a structured logger. The default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(l *LoteLoader) { l.logger = logger }
}

// WithMetrics records LoTE loader events by kind on r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(l *LoteLoader) { l.metrics = r }
}

// New builds a LoteLoader from its three external collaborators and
// traversal constraints.
func New(fetcher lote.Fetcher, verifier lote.TokenVerifier, parser lote.LoteParser, constraints Constraints, opts ...Option) *LoteLoader {
	l := &LoteLoader{
		fetcher:     fetcher,
		verifier:    verifier,
		parser:      parser,
		constraints: constraints,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// downloadCount is the one piece of state genuinely shared across every
// branch of a single invocation (spec §5): an atomic counter so
// MaxListsReached is enforced traversal-wide, not per branch, plus a
// latch recording that the limit has been announced. The latch keeps the
// whole traversal to a single MaxListsReached event: the first branch to
// overshoot emits it and every other branch winds down silently.
type downloadCount struct {
	n       atomic.Int64
	stopped atomic.Bool
}

// Load starts a traversal rooted at root and returns a channel of events.
// The channel is closed once the traversal (and all its fan-out) has
// finished. Cancelling ctx stops in-flight work cooperatively; events
// already queued may still be delivered.
func (l *LoteLoader) Load(ctx context.Context, root lote.URI) (<-chan Event, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}

	invocationID := uuid.NewString()
	logger := l.logger.With(zap.String("invocation_id", invocationID), zap.String("root", string(root)))

	events := make(chan Event, 64)
	counter := &downloadCount{}

	go func() {
		defer close(events)
		emit := func(ev Event) {
			if ev.Kind == EventLoTELoaded {
				l.metrics.ListLoaded(strconv.Itoa(ev.LoTELoaded.Depth))
			} else {
				l.metrics.LoadProblem(ev.Kind.String())
			}
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		}
		l.visit(ctx, counter, step{uri: root, depth: 0}, emit, logger)
	}()

	return events, nil
}

func (l *LoteLoader) visit(ctx context.Context, counter *downloadCount, st step, emit func(Event), logger *zap.Logger) {
	if ctx.Err() != nil || counter.stopped.Load() {
		return
	}

	if st.depth > l.constraints.MaxDepth {
		emit(problemEvent(Problem{Kind: EventMaxDepthReached, URI: st.uri, Limit: l.constraints.MaxDepth}))
		return
	}

	// Reserve a list slot before doing any work for it, and before the
	// cycle check, matching the spec's constraint-check order (depth,
	// then downloads, then cycle). Incrementing first and rolling back
	// on overshoot (rather than checking counter.n.Load() and
	// incrementing only after a successful parse) closes the race where
	// concurrent siblings in the same errgroup chunk all observe the
	// same pre-increment value, all pass the gate, and collectively
	// blow past MaxLists. The reservation is released on every exit path
	// below that doesn't end in EventLoTELoaded — a 404, bad signature,
	// parse failure or cancellation must not permanently consume a slot,
	// since MaxListsReached counts successful downloads, not attempts.
	if counter.n.Add(1) > int64(l.constraints.MaxLists) {
		counter.n.Add(-1)
		// Only the first branch to overshoot announces the limit; the
		// rest of the traversal winds down without a redundant event per
		// remaining pointer.
		if counter.stopped.CompareAndSwap(false, true) {
			emit(problemEvent(Problem{Kind: EventMaxListsReached, URI: st.uri, Limit: l.constraints.MaxLists}))
		}
		return
	}

	if st.isAncestor(st.uri) {
		counter.n.Add(-1)
		emit(problemEvent(Problem{Kind: EventCircularReferenceDetected, URI: st.uri}))
		return
	}

	token, err := l.fetcher.Fetch(ctx, st.uri)
	if err != nil {
		if ctx.Err() != nil {
			counter.n.Add(-1)
			return
		}
		var notFound *lote.FetchNotFoundError
		if errors.As(err, &notFound) {
			logger.Debug("resource not found", zap.String("uri", string(st.uri)))
			counter.n.Add(-1)
			emit(problemEvent(Problem{Kind: EventResourceNotFound, URI: st.uri, Cause: err}))
			return
		}
		counter.n.Add(-1)
		emit(problemEvent(Problem{Kind: EventError, URI: st.uri, Cause: err}))
		return
	}

	verified, err := l.verifier.Verify(ctx, token)
	if err != nil {
		if ctx.Err() != nil {
			counter.n.Add(-1)
			return
		}
		var invalidSig *lote.InvalidSignatureError
		if errors.As(err, &invalidSig) {
			counter.n.Add(-1)
			emit(problemEvent(Problem{Kind: EventInvalidSignature, URI: st.uri, Cause: err}))
			return
		}
		counter.n.Add(-1)
		emit(problemEvent(Problem{Kind: EventError, URI: st.uri, Cause: err}))
		return
	}

	parsed, err := l.parser.Parse(ctx, verified)
	if err != nil {
		if ctx.Err() != nil {
			counter.n.Add(-1)
			return
		}
		var parseFailed *lote.ParseFailedError
		if errors.As(err, &parseFailed) {
			counter.n.Add(-1)
			emit(problemEvent(Problem{Kind: EventParseFailed, URI: st.uri, Cause: err}))
			return
		}
		counter.n.Add(-1)
		emit(problemEvent(Problem{Kind: EventError, URI: st.uri, Cause: err}))
		return
	}

	logger.Debug("loaded LoTE", zap.String("uri", string(st.uri)), zap.Int("depth", st.depth))
	emit(loadedEvent(parsed, st.uri, st.depth))

	pointers := parsed.SchemeInformation().PointersToOtherLists
	for i := 0; i < len(pointers); i += l.constraints.Parallelism {
		end := i + l.constraints.Parallelism
		if end > len(pointers) {
			end = len(pointers)
		}
		chunk := pointers[i:end]

		// A supervisor-style fan-out: errgroup derives a child context
		// that's cancelled if ctx itself is cancelled, but a child branch
		// never returns an error here, so one sibling's problem can never
		// cancel another's in-flight fetch.
		g, gctx := errgroup.WithContext(ctx)
		for _, p := range chunk {
			p := p
			g.Go(func() error {
				l.visit(gctx, counter, st.child(p.Location), emit, logger)
				return nil
			})
		}
		_ = g.Wait()
	}
}
