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

package validate

import (
	"crypto/x509"
	"fmt"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// NameConstraint is a check applied to every candidate chain that
// terminates in a constrained anchor during path verification. Returning
// an error discards that chain.
type NameConstraint func(chain []*x509.Certificate) error

// ConstrainedAnchor is a trust anchor carrying an optional name
// constraint alongside its certificate. A nil Constraint means the anchor
// is unconditionally usable as a root.
type ConstrainedAnchor struct {
	Cert       *x509.Certificate
	Constraint NameConstraint
}

// X509TrustAnchorFactory turns a PkiObject's DER bytes into the
// TrustAnchor representation the ChainValidators in this package expect:
// a parsed *x509.Certificate, or a ConstrainedAnchor when a name
// constraint was configured.
type X509TrustAnchorFactory struct {
	constraint NameConstraint
}

// FactoryOption configures an X509TrustAnchorFactory.
type FactoryOption func(*X509TrustAnchorFactory)

// WithNameConstraint attaches constraint to every anchor the factory
// produces. PKIXValidator enforces it through the root pool, so a chain
// can only build through a constrained anchor if the constraint accepts
// that chain.
func WithNameConstraint(constraint NameConstraint) FactoryOption {
	return func(f *X509TrustAnchorFactory) { f.constraint = constraint }
}

// NewX509TrustAnchorFactory builds an X509TrustAnchorFactory.
func NewX509TrustAnchorFactory(opts ...FactoryOption) X509TrustAnchorFactory {
	var f X509TrustAnchorFactory
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

// NewTrustAnchor implements lote.TrustAnchorFactory.
func (f X509TrustAnchorFactory) NewTrustAnchor(obj lote.PkiObject) (lote.TrustAnchor, error) {
	cert, err := x509.ParseCertificate(obj.Bytes)
	if err != nil {
		return nil, fmt.Errorf("validate: parsing trust anchor certificate: %w", err)
	}
	if f.constraint == nil {
		return cert, nil
	}
	return ConstrainedAnchor{Cert: cert, Constraint: f.constraint}, nil
}

// asAnchors normalizes the TrustAnchor values among anchors into
// ConstrainedAnchor form, silently skipping anything a misconfigured
// factory might have produced of another type. A bare *x509.Certificate
// is an anchor with no constraint.
func asAnchors(anchors []lote.TrustAnchor) []ConstrainedAnchor {
	out := make([]ConstrainedAnchor, 0, len(anchors))
	for _, a := range anchors {
		switch v := a.(type) {
		case *x509.Certificate:
			out = append(out, ConstrainedAnchor{Cert: v})
		case ConstrainedAnchor:
			out = append(out, v)
		}
	}
	return out
}
