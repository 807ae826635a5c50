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
	"context"
	"crypto/x509"
	"fmt"
	"time"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// RevocationChecker is an optional hook consulted by PKIXValidator once a
// chain has built successfully. Per spec §4.7/Non-goals, revocation-status
// evaluation itself is out of scope for this library — only the toggle to
// enable or disable consulting one is a first-class concern here. Callers
// that need OCSP or CRL checking supply their own implementation.
type RevocationChecker func(chain []*x509.Certificate) error

// PKIXValidator validates a chain by building a verified path from the
// leaf to one of the supplied anchors using crypto/x509.
type PKIXValidator struct {
	now               func() time.Time
	keyUsages         []x509.ExtKeyUsage
	revocationEnabled bool
	revocationCheck   RevocationChecker
}

// PKIXOption configures a PKIXValidator.
type PKIXOption func(*PKIXValidator)

// WithValidationTime overrides the clock x509.Verify uses, for
// deterministic tests and for verifying chains as of a specific moment.
func WithValidationTime(now func() time.Time) PKIXOption {
	return func(v *PKIXValidator) { v.now = now }
}

// WithKeyUsages restricts verification to the given extended key usages.
// The default is ExtKeyUsageAny, set explicitly because an empty
// x509.VerifyOptions.KeyUsages would mean ExtKeyUsageServerAuth.
func WithKeyUsages(usages ...x509.ExtKeyUsage) PKIXOption {
	return func(v *PKIXValidator) { v.keyUsages = usages }
}

// WithRevocationCheck enables the revocation-check toggle and installs the
// checker consulted once path building succeeds.
func WithRevocationCheck(check RevocationChecker) PKIXOption {
	return func(v *PKIXValidator) {
		v.revocationEnabled = true
		v.revocationCheck = check
	}
}

// NewPKIXValidator builds a PKIXValidator.
func NewPKIXValidator(opts ...PKIXOption) *PKIXValidator {
	v := &PKIXValidator{
		now:       time.Now,
		keyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate implements lote.ChainValidator.
func (v *PKIXValidator) Validate(_ context.Context, chain []*x509.Certificate, anchors []lote.TrustAnchor) lote.ChainOutcome {
	if len(chain) == 0 {
		return lote.ChainOutcome{Kind: lote.NotTrusted, Cause: fmt.Errorf("validate: empty certificate chain")}
	}

	roots := x509.NewCertPool()
	for _, a := range asAnchors(anchors) {
		if a.Constraint != nil {
			roots.AddCertWithConstraint(a.Cert, a.Constraint)
		} else {
			roots.AddCert(a.Cert)
		}
	}

	intermediates := x509.NewCertPool()
	for _, c := range chain[1:] {
		intermediates.AddCert(c)
	}

	verified, err := chain[0].Verify(x509.VerifyOptions{
		Roots:         roots,
		Intermediates: intermediates,
		CurrentTime:   v.now(),
		KeyUsages:     v.keyUsages,
	})
	if err != nil {
		return lote.ChainOutcome{Kind: lote.NotTrusted, Cause: err}
	}

	built := verified[0]
	if v.revocationEnabled && v.revocationCheck != nil {
		if err := v.revocationCheck(built); err != nil {
			return lote.ChainOutcome{Kind: lote.NotTrusted, Cause: fmt.Errorf("validate: revocation check: %w", err)}
		}
	}

	root := built[len(built)-1]
	return lote.ChainOutcome{Kind: lote.Trusted, Anchor: lote.TrustAnchor(root)}
}
