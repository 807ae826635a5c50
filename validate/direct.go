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

	"github.com/eudiw/lote-trust-anchor/lote"
)

// DirectTrustValidator validates a chain by comparing its leaf directly
// against the anchor set, by subject and serial number, without building
// a path. This is the validator named in spec §4.7 for service types
// whose anchors are themselves end-entity certificates rather than CAs.
type DirectTrustValidator struct{}

// Validate implements lote.ChainValidator.
func (DirectTrustValidator) Validate(_ context.Context, chain []*x509.Certificate, anchors []lote.TrustAnchor) lote.ChainOutcome {
	if len(chain) == 0 {
		return lote.ChainOutcome{Kind: lote.NotTrusted, Cause: fmt.Errorf("validate: empty certificate chain")}
	}
	leaf := chain[0]
	// Name constraints gate path building; direct trust builds no path,
	// so only the anchor certificate itself is consulted here.
	for _, a := range asAnchors(anchors) {
		c := a.Cert
		if c.SerialNumber != nil && leaf.SerialNumber != nil &&
			c.SerialNumber.Cmp(leaf.SerialNumber) == 0 &&
			c.Subject.String() == leaf.Subject.String() {
			return lote.ChainOutcome{Kind: lote.Trusted, Anchor: lote.TrustAnchor(c)}
		}
	}
	return lote.ChainOutcome{Kind: lote.NotTrusted, Cause: fmt.Errorf("validate: leaf matches no direct-trust anchor")}
}
