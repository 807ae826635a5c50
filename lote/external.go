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

package lote

import (
	"context"
	"crypto/x509"
	"fmt"
)

// Fetcher retrieves the raw token bytes published at uri. A missing
// resource is reported through FetchNotFoundError rather than a generic
// error so callers (the loader, in particular) can distinguish "this
// pointer is dead" from "something unexpected happened."
type Fetcher interface {
	Fetch(ctx context.Context, uri URI) (SignedToken, error)
}

// FetchNotFoundError is returned by a Fetcher when uri could not be
// resolved to a resource (HTTP 404, missing file, ...).
type FetchNotFoundError struct {
	URI   URI
	Cause error
}

func (e *FetchNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("lote: resource not found: %s: %v", e.URI, e.Cause)
	}
	return fmt.Sprintf("lote: resource not found: %s", e.URI)
}

func (e *FetchNotFoundError) Unwrap() error { return e.Cause }

// TokenVerifier checks the signature on a compact signed token and yields
// the verified payload. Per spec, the verified payload is the same token
// string — this component does not strip the signature, only attests to
// its validity.
type TokenVerifier interface {
	Verify(ctx context.Context, token SignedToken) (SignedToken, error)
}

// InvalidSignatureError is returned by a TokenVerifier when the token's
// signature does not check out.
type InvalidSignatureError struct {
	Cause error
}

func (e *InvalidSignatureError) Error() string {
	return fmt.Sprintf("lote: invalid signature: %v", e.Cause)
}

func (e *InvalidSignatureError) Unwrap() error { return e.Cause }

// LoteParser parses a verified token's payload into a LoTE. The on-the-
// wire format (an ETSI TS 119 612-shaped JSON document) is an external
// concern; this interface just fixes the boundary.
type LoteParser interface {
	Parse(ctx context.Context, payload SignedToken) (LoTE, error)
}

// ParseFailedError is returned by a LoteParser when payload does not
// decode into a well-formed LoTE.
type ParseFailedError struct {
	Cause error
}

func (e *ParseFailedError) Error() string {
	return fmt.Sprintf("lote: parse failed: %v", e.Cause)
}

func (e *ParseFailedError) Unwrap() error { return e.Cause }

// TrustAnchor is opaque to the core: whatever a validator needs to treat a
// certificate as a root of trust (e.g. a platform X.509 wrapper with
// optional name constraints). Produced by a TrustAnchorFactory.
type TrustAnchor any

// TrustAnchorFactory turns a certificate extracted from a LoTE into a
// TrustAnchor the configured ChainValidator understands.
type TrustAnchorFactory interface {
	NewTrustAnchor(obj PkiObject) (TrustAnchor, error)
}

// ChainOutcomeKind tags the sum-type result of a ChainValidator.
type ChainOutcomeKind int

const (
	// Trusted means the chain validated against one of the supplied
	// anchors.
	Trusted ChainOutcomeKind = iota
	// NotTrusted means the chain was checked and rejected. This is a
	// result, not a Go error: the validator did its job and said no.
	NotTrusted
)

// ChainOutcome is the result of a ChainValidator.Validate call.
type ChainOutcome struct {
	Kind   ChainOutcomeKind
	Anchor TrustAnchor // set iff Kind == Trusted
	Cause  error       // set iff Kind == NotTrusted
}

// ChainValidator validates a certificate chain against a non-empty set of
// trust anchors. Implementations: a PKIX path-building validator, and a
// direct-trust validator that compares the leaf against the anchors by
// subject and serial number.
type ChainValidator interface {
	Validate(ctx context.Context, chain []*x509.Certificate, anchors []TrustAnchor) ChainOutcome
}
