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

package token_test

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/token"
)

func signToken(t *testing.T, key *ecdsa.PrivateKey) lote.SignedToken {
	t.Helper()
	claims := jwt.MapClaims{"iss": "lote-test"}
	tok := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	signed, err := tok.SignedString(key)
	require.NoError(t, err)
	return lote.SignedToken(signed)
}

func TestVerifier_VerifiesAValidToken(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signed := signToken(t, key)

	v := token.NewVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	})

	verified, err := v.Verify(context.Background(), signed)
	require.NoError(t, err)
	assert.Equal(t, signed, verified)
}

func TestVerifier_RejectsTokenSignedByAnotherKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	otherKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signed := signToken(t, key)

	v := token.NewVerifier(func(*jwt.Token) (interface{}, error) {
		return &otherKey.PublicKey, nil
	})

	_, err = v.Verify(context.Background(), signed)
	require.Error(t, err)
	var invalidSig *lote.InvalidSignatureError
	assert.ErrorAs(t, err, &invalidSig)
}

func TestVerifier_RejectsDisallowedMethod(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	signed := signToken(t, key)

	v := token.NewVerifier(func(*jwt.Token) (interface{}, error) {
		return &key.PublicKey, nil
	}, token.WithValidMethods("RS256"))

	_, err = v.Verify(context.Background(), signed)
	assert.Error(t, err)
}
