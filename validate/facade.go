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

// Package validate implements the ChainValidatorFacade (spec component
// C10): binding a routed anchor source to a pluggable ChainValidator, and
// the two ready ChainValidator implementations named in spec §4.7 (PKIX
// and direct trust).
package validate

import (
	"context"
	"crypto/x509"

	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/metrics"
	"github.com/eudiw/lote-trust-anchor/routed"
)

// RecoverFunc maps a NotTrusted cause to an alternative routed source to
// retry against, or reports it has no alternative (ok == false). The
// returned source, if any, is closed after the single recovery attempt.
type RecoverFunc[Q comparable] func(cause error) (alt *routed.RoutedAnchorSource[Q, lote.TrustAnchor], ok bool)

// Facade binds a RoutedAnchorSource to a ChainValidator.
type Facade[Q comparable] struct {
	routes    *routed.RoutedAnchorSource[Q, lote.TrustAnchor]
	validator lote.ChainValidator
	recover   RecoverFunc[Q]
	metrics   *metrics.Recorder
}

// Option configures a Facade.
type Option[Q comparable] func(*Facade[Q])

// WithRecovery installs a recovery function triggered on NotTrusted.
func WithRecovery[Q comparable](f RecoverFunc[Q]) Option[Q] {
	return func(fac *Facade[Q]) { fac.recover = f }
}

// WithMetrics records validation outcomes on r.
func WithMetrics[Q comparable](r *metrics.Recorder) Option[Q] {
	return func(fac *Facade[Q]) { fac.metrics = r }
}

// New builds a Facade.
func New[Q comparable](routes *routed.RoutedAnchorSource[Q, lote.TrustAnchor], validator lote.ChainValidator, opts ...Option[Q]) *Facade[Q] {
	f := &Facade[Q]{routes: routes, validator: validator}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Validate asks the routed source for anchors matching verification
// context q and, if any exist, runs the configured ChainValidator against
// them. It returns (nil, nil) when the routed source answered
// QueryNotSupported or NotFound — per spec §4.7, "None" is a valid,
// non-error answer meaning there was no trust anchor to even attempt
// validation against.
func (f *Facade[Q]) Validate(ctx context.Context, chain []*x509.Certificate, q Q) (*lote.ChainOutcome, error) {
	result, err := f.validate(ctx, chain, q)
	switch {
	case err != nil:
	case result == nil:
		f.metrics.ChainValidation("none")
	case result.Kind == lote.Trusted:
		f.metrics.ChainValidation("trusted")
	default:
		f.metrics.ChainValidation("not_trusted")
	}
	return result, err
}

func (f *Facade[Q]) validate(ctx context.Context, chain []*x509.Certificate, q Q) (*lote.ChainOutcome, error) {
	outcome, err := f.routes.Get(ctx, q)
	if err != nil {
		return nil, err
	}
	if outcome.Kind != routed.Found {
		return nil, nil
	}

	result := f.validator.Validate(ctx, chain, outcome.Anchors.Items())
	if result.Kind != lote.NotTrusted || f.recover == nil {
		return &result, nil
	}

	alt, ok := f.recover(result.Cause)
	if !ok {
		return &result, nil
	}
	defer alt.Close(ctx) //nolint:errcheck // best-effort: recovery is already on a failure path

	altOutcome, err := alt.Get(ctx, q)
	if err != nil {
		return nil, err
	}
	if altOutcome.Kind != routed.Found {
		return &result, nil
	}
	altResult := f.validator.Validate(ctx, chain, altOutcome.Anchors.Items())
	return &altResult, nil
}
