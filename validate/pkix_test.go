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

package validate_test

import (
	"context"
	"crypto/x509"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/validate"
)

func TestPKIXValidator_TrustsChainBuiltFromRoot(t *testing.T) {
	root, rootKey := generateCA(t, "root", 1)
	leaf := generateLeaf(t, "leaf", 2, root, rootKey)

	v := validate.NewPKIXValidator()
	outcome := v.Validate(context.Background(), []*x509.Certificate{leaf}, []lote.TrustAnchor{lote.TrustAnchor(root)})

	require.Equal(t, lote.Trusted, outcome.Kind)
	assert.Equal(t, root, outcome.Anchor)
}

func TestPKIXValidator_RejectsChainFromUnrelatedRoot(t *testing.T) {
	root, rootKey := generateCA(t, "root", 1)
	leaf := generateLeaf(t, "leaf", 2, root, rootKey)
	otherRoot, _ := generateCA(t, "other-root", 3)

	v := validate.NewPKIXValidator()
	outcome := v.Validate(context.Background(), []*x509.Certificate{leaf}, []lote.TrustAnchor{lote.TrustAnchor(otherRoot)})

	require.Equal(t, lote.NotTrusted, outcome.Kind)
	assert.Error(t, outcome.Cause)
}

func TestPKIXValidator_RejectsEmptyChain(t *testing.T) {
	v := validate.NewPKIXValidator()
	outcome := v.Validate(context.Background(), nil, nil)
	assert.Equal(t, lote.NotTrusted, outcome.Kind)
}

func TestPKIXValidator_EnforcesNameConstraintOnConstrainedAnchor(t *testing.T) {
	root, rootKey := generateCA(t, "root", 1)
	leaf := generateLeaf(t, "leaf", 2, root, rootKey)

	v := validate.NewPKIXValidator()
	rejectAll := validate.ConstrainedAnchor{
		Cert:       root,
		Constraint: func([]*x509.Certificate) error { return assert.AnError },
	}
	outcome := v.Validate(context.Background(), []*x509.Certificate{leaf}, []lote.TrustAnchor{rejectAll})

	require.Equal(t, lote.NotTrusted, outcome.Kind)
	assert.Error(t, outcome.Cause)
}

func TestPKIXValidator_AcceptsChainSatisfyingNameConstraint(t *testing.T) {
	root, rootKey := generateCA(t, "root", 1)
	leaf := generateLeaf(t, "leaf", 2, root, rootKey)

	var sawChain bool
	v := validate.NewPKIXValidator()
	allowAll := validate.ConstrainedAnchor{
		Cert: root,
		Constraint: func(chain []*x509.Certificate) error {
			sawChain = len(chain) > 0
			return nil
		},
	}
	outcome := v.Validate(context.Background(), []*x509.Certificate{leaf}, []lote.TrustAnchor{allowAll})

	require.Equal(t, lote.Trusted, outcome.Kind)
	assert.True(t, sawChain, "the constraint is consulted with the candidate chain")
}

func TestPKIXValidator_RevocationCheckCanRejectAnOtherwiseValidChain(t *testing.T) {
	root, rootKey := generateCA(t, "root", 1)
	leaf := generateLeaf(t, "leaf", 2, root, rootKey)

	v := validate.NewPKIXValidator(validate.WithRevocationCheck(func([]*x509.Certificate) error {
		return assert.AnError
	}))
	outcome := v.Validate(context.Background(), []*x509.Certificate{leaf}, []lote.TrustAnchor{lote.TrustAnchor(root)})

	assert.Equal(t, lote.NotTrusted, outcome.Kind)
}
