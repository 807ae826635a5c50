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

package provision

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/eudiw/lote-trust-anchor/anchor"
	"github.com/eudiw/lote-trust-anchor/generic"
	"github.com/eudiw/lote-trust-anchor/loader"
	"github.com/eudiw/lote-trust-anchor/loadresult"
	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/routed"
	"github.com/eudiw/lote-trust-anchor/trustanchor"
	"github.com/eudiw/lote-trust-anchor/validate"
	"github.com/eudiw/lote-trust-anchor/vctx"
)

// Result is the outcome of a Provision run: the successfully provisioned
// anchors, grouped by the ChainValidator strategy their config entry
// named, reduced within each group via routed.Plus (spec §4.8). Either
// field is nil if no entry in the table selected that strategy.
type Result struct {
	PKIX        *routed.RoutedAnchorSource[vctx.Context, lote.TrustAnchor]
	DirectTrust *routed.RoutedAnchorSource[vctx.Context, lote.TrustAnchor]
}

// Facades builds a ChainValidatorFacade per populated group, using the
// default PKIXValidator/DirectTrustValidator. Callers needing custom
// validator options should bind r.PKIX/r.DirectTrust with validate.New
// directly instead.
func (r Result) Facades(opts ...validate.Option[vctx.Context]) (pkix, direct *validate.Facade[vctx.Context]) {
	if r.PKIX != nil {
		pkix = validate.New[vctx.Context](r.PKIX, validate.NewPKIXValidator(), opts...)
	}
	if r.DirectTrust != nil {
		direct = validate.New[vctx.Context](r.DirectTrust, validate.DirectTrustValidator{}, opts...)
	}
	return pkix, direct
}

// Provisioner composes a declarative Config into a Result by running one
// load-and-extract pipeline per entry.
type Provisioner struct {
	loader      *loader.LoteLoader
	policy      loadresult.ContinuePolicy
	clock       loadresult.Clock
	factory     lote.TrustAnchorFactory
	parallelism int
	logger      *zap.Logger
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithContinuePolicy overrides the policy used to fold each entry's event
// stream. The default is loadresult.AlwaysIfDownloaded.
func WithContinuePolicy(policy loadresult.ContinuePolicy) Option {
	return func(p *Provisioner) { p.policy = policy }
}

// WithClock overrides the clock stamped on each entry's LoteLoadResult.
func WithClock(clock loadresult.Clock) Option {
	return func(p *Provisioner) { p.clock = clock }
}

// WithFactory overrides the TrustAnchorFactory used to convert extracted
// certificates into TrustAnchor values. The default is
// validate.X509TrustAnchorFactory.
func WithFactory(factory lote.TrustAnchorFactory) Option {
	return func(p *Provisioner) { p.factory = factory }
}

// WithParallelism bounds how many config entries are provisioned
// concurrently, via errgroup.SetLimit. The default is 4.
func WithParallelism(n int) Option {
	return func(p *Provisioner) { p.parallelism = n }
}

// WithLogger attaches a structured logger. The default is zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(p *Provisioner) { p.logger = logger }
}

// New builds a Provisioner. ld supplies the fetch/verify/parse/traversal
// pipeline shared by every config entry.
func New(ld *loader.LoteLoader, opts ...Option) *Provisioner {
	p := &Provisioner{
		loader:      ld,
		policy:      loadresult.AlwaysIfDownloaded,
		clock:       time.Now,
		factory:     validate.X509TrustAnchorFactory{},
		parallelism: 4,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Provision runs cfg's entries, bounded to p.parallelism concurrent
// pipelines via errgroup.SetLimit, and reduces the successes into a
// Result. An entry whose root never loads, or whose certificate bytes
// don't parse, contributes its error to the aggregated return value (via
// hashicorp/go-multierror); an entry whose root loads cleanly but yields
// no matching service is simply dropped and logged, not an error.
func (p *Provisioner) Provision(ctx context.Context, cfg Config) (Result, error) {
	type outcome struct {
		entry       Entry
		vc          vctx.Context
		source      *routed.RoutedAnchorSource[vctx.Context, lote.TrustAnchor]
		directTrust bool
	}

	var (
		mu      sync.Mutex
		results []outcome
		errs    *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.parallelism)

	for _, e := range cfg.Entries {
		e := e
		g.Go(func() error {
			src, vc, found, err := p.provisionEntry(gctx, e)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("entry %q: %w", e.Context, err))
				return nil
			}
			if !found {
				p.logger.Info("provisioning: no anchors extracted, dropping entry", zap.String("context", e.Context))
				return nil
			}
			results = append(results, outcome{entry: e, vc: vc, source: src, directTrust: e.DirectTrust})
			return nil
		})
	}
	_ = g.Wait()

	var result Result
	for _, o := range results {
		target := &result.PKIX
		if o.directTrust {
			target = &result.DirectTrust
		}
		if *target == nil {
			*target = o.source
			continue
		}
		merged, err := routed.Plus(*target, o.source)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("entry %q: %w", o.entry.Context, err))
			continue
		}
		*target = merged
	}

	return result, errs.ErrorOrNil()
}

// provisionEntry runs one entry's load-extract-convert pipeline. found is
// false (with a nil error) when the root loaded but no certificate
// matched the entry's service type.
func (p *Provisioner) provisionEntry(ctx context.Context, e Entry) (src *routed.RoutedAnchorSource[vctx.Context, lote.TrustAnchor], vc vctx.Context, found bool, err error) {
	root := lote.URI(e.RootURI)
	if err := root.Validate(); err != nil {
		return nil, vctx.Context{}, false, err
	}
	svcType := lote.URI(e.ServiceType)

	events, err := p.loader.Load(ctx, root)
	if err != nil {
		return nil, vctx.Context{}, false, err
	}
	result := loadresult.Collect(events, p.policy, p.clock)

	loaded, ok := result.Loaded()
	if !ok {
		return nil, vctx.Context{}, false, fmt.Errorf("root list never loaded (%d problems)", len(result.Problems))
	}

	objs, extracted := anchor.Extract(loaded, svcType)
	if !extracted {
		return nil, vctx.Context{}, false, nil
	}

	items := objs.Items()
	anchors := make([]lote.TrustAnchor, 0, len(items))
	for _, obj := range items {
		ta, err := p.factory.NewTrustAnchor(obj)
		if err != nil {
			return nil, vctx.Context{}, false, err
		}
		anchors = append(anchors, ta)
	}
	anchorList := generic.MustNonEmptyList(anchors)

	vc, err = vctx.ParseContext(e.Context, e.UseCase)
	if err != nil {
		return nil, vctx.Context{}, false, err
	}

	source := trustanchor.Func[vctx.Context, lote.TrustAnchor](
		func(context.Context, vctx.Context) (generic.NonEmptyList[lote.TrustAnchor], bool, error) {
			return anchorList, true, nil
		},
	)
	single, err := routed.Single[vctx.Context, lote.TrustAnchor]([]vctx.Context{vc}, source)
	if err != nil {
		return nil, vctx.Context{}, false, err
	}
	return single, vc, true, nil
}
