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

// Package token provides the reference codec for compact JWS LoTE
// tokens, the signature format ETSI TS 119 612-style publications
// commonly use in the wild: a lote.TokenVerifier built on
// golang-jwt/jwt/v4, and a lote.LoteParser for the JSON document carried
// in the payload segment.
package token

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v4"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// Verifier checks a compact JWS token's signature via an injected
// jwt.Keyfunc (so callers can resolve the signing key from an embedded
// kid, a pinned public key, a JWKS endpoint, or anything else) and, on
// success, hands back the same token string unchanged — this component
// attests to the signature, it does not re-encode the payload.
type Verifier struct {
	keyFunc jwt.Keyfunc
	methods []string
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithValidMethods restricts which signing algorithms are accepted. The
// default accepts whatever keyFunc is willing to key for.
func WithValidMethods(methods ...string) Option {
	return func(v *Verifier) { v.methods = methods }
}

// NewVerifier builds a Verifier from a key-resolution function.
func NewVerifier(keyFunc jwt.Keyfunc, opts ...Option) *Verifier {
	v := &Verifier{keyFunc: keyFunc}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify implements lote.TokenVerifier.
func (v *Verifier) Verify(_ context.Context, token lote.SignedToken) (lote.SignedToken, error) {
	parserOpts := []jwt.ParserOption{}
	if len(v.methods) > 0 {
		parserOpts = append(parserOpts, jwt.WithValidMethods(v.methods))
	}

	parsed, err := jwt.Parse(string(token), v.keyFunc, parserOpts...)
	if err != nil {
		return "", &lote.InvalidSignatureError{Cause: err}
	}
	if !parsed.Valid {
		return "", &lote.InvalidSignatureError{Cause: fmt.Errorf("token: signature rejected")}
	}
	return token, nil
}
