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

// Package lote holds the data model for a List of Trusted Entities (a
// signed, hierarchically-linked catalog of accredited certificate-issuing
// services, conforming in spirit to ETSI TS 119 612 / 119 602) along with
// the fixed external-collaborator interfaces the rest of this module is
// built against: the token verifier, the LoTE parser, and the fetcher.
//
// Parsing the wire format itself (the JSON payload inside a signed token)
// and verifying the token's signature are both out of scope here — see
// TokenVerifier and LoteParser below — this package only fixes the shape
// once a payload has already been produced.
package lote

import (
	"fmt"
	"strings"
	"unicode"
)

// URI is an opaque, non-blank identifier/locator. Equality is byte-wise.
type URI string

// Validate reports whether u is non-blank.
func (u URI) Validate() error {
	if strings.TrimSpace(string(u)) == "" {
		return InvariantError{Field: "uri", Reason: "must not be blank"}
	}
	return nil
}

// SignedToken is an opaque compact token: three base64url-nopadding
// segments separated by '.'. This package never inspects its contents;
// see the token package for a reference codec.
type SignedToken string

// InvariantError reports a LoTE construction-time invariant violation.
// Configuration/data faults are fatal and are always reported this way,
// never as a runtime Problem (see package loader).
type InvariantError struct {
	Field  string
	Reason string
}

func (e InvariantError) Error() string {
	return fmt.Sprintf("lote: invalid %s: %s", e.Field, e.Reason)
}

// PkiObject is a certificate as carried inside a LoTE service's digital
// identity: raw encoded bytes plus optional encoding/spec hints. It is
// opaque to the core; TrustAnchorFactory turns it into a TrustAnchor.
type PkiObject struct {
	Bytes    []byte
	Encoding *URI
	SpecRef  *URI
}

// MultilingualString is a single (lang, value) pair from a LoTE's
// multilingual string lists (names, descriptions, ...). Values must not
// contain a BOM, ISO-6429 C0/C1 control codepoints, Unicode Tag or
// Private-Use codepoints, or markup.
type MultilingualString struct {
	Lang  string
	Value string
}

// Validate enforces the well-formedness invariant from spec §3.
func (m MultilingualString) Validate() error {
	for _, r := range m.Value {
		switch {
		case r == '\uFEFF':
			return InvariantError{Field: "multilingualString.value", Reason: "contains a BOM"}
		case r <= 0x1F || (r >= 0x7F && r <= 0x9F):
			return InvariantError{Field: "multilingualString.value", Reason: "contains a C0/C1 control codepoint"}
		case r >= 0xE0000 && r <= 0xE007F:
			return InvariantError{Field: "multilingualString.value", Reason: "contains a Unicode Tag codepoint"}
		case unicode.In(r, unicode.Co):
			return InvariantError{Field: "multilingualString.value", Reason: "contains a Private-Use codepoint"}
		case r == '<' || r == '>':
			return InvariantError{Field: "multilingualString.value", Reason: "contains markup"}
		}
	}
	return nil
}

// OtherLoTEPointer references another LoTE. Only Location is consumed by
// the core loader; ServiceDigitalIdentities/Qualifiers are carried through
// for callers that need them but are not interpreted here.
type OtherLoTEPointer struct {
	Location                 URI
	ServiceDigitalIdentities []PkiObject
	Qualifiers               []string
}

// SchemeInformation carries the subset of LoTE scheme metadata the core
// cares about: the pointers to sibling lists.
type SchemeInformation struct {
	PointersToOtherLists []OtherLoTEPointer
}

// DigitalIdentity is the X.509 material attached to a trusted service.
type DigitalIdentity struct {
	X509Certificates []PkiObject
}

// ServiceInformation is the part of a TrustedEntityService the core
// extracts anchors from.
type ServiceInformation struct {
	TypeIdentifier  URI
	DigitalIdentity DigitalIdentity
}

// TrustedEntityService is one accredited service offered by a
// TrustedEntity (e.g. "PID issuance" or "wallet attestation revocation").
type TrustedEntityService struct {
	Information ServiceInformation
}

// TrustedEntity is one accredited issuer, offering one or more services.
type TrustedEntity struct {
	Services []TrustedEntityService
}

// LoTE is an immutable List of Trusted Entities. Use New to construct one;
// the zero value is not valid.
type LoTE struct {
	schemeInformation SchemeInformation
	entities          []TrustedEntity
}

// New validates and constructs a LoTE. List-valued fields, if present in
// source data, must already be non-empty by the time they reach here —
// New rejects empty-but-present slices to keep that invariant true for
// every consumer downstream, but a LoTE with zero entities or zero
// pointers is valid (those fields are simply omitted, i.e. nil).
func New(scheme SchemeInformation, entities []TrustedEntity) (LoTE, error) {
	for i, p := range scheme.PointersToOtherLists {
		if err := p.Location.Validate(); err != nil {
			return LoTE{}, fmt.Errorf("lote: pointer %d: %w", i, err)
		}
	}
	for ei, e := range entities {
		if e.Services != nil && len(e.Services) == 0 {
			return LoTE{}, InvariantError{Field: fmt.Sprintf("entities[%d].services", ei), Reason: "present but empty"}
		}
		for si, s := range e.Services {
			if err := s.Information.TypeIdentifier.Validate(); err != nil {
				return LoTE{}, fmt.Errorf("lote: entities[%d].services[%d]: %w", ei, si, err)
			}
			certs := s.Information.DigitalIdentity.X509Certificates
			if certs != nil && len(certs) == 0 {
				return LoTE{}, InvariantError{
					Field:  fmt.Sprintf("entities[%d].services[%d].x509Certificates", ei, si),
					Reason: "present but empty",
				}
			}
		}
	}

	cpEntities := cloneEntities(entities)
	cpPointers := make([]OtherLoTEPointer, len(scheme.PointersToOtherLists))
	copy(cpPointers, scheme.PointersToOtherLists)

	return LoTE{
		schemeInformation: SchemeInformation{PointersToOtherLists: cpPointers},
		entities:          cpEntities,
	}, nil
}

// SchemeInformation returns the list's scheme metadata.
func (l LoTE) SchemeInformation() SchemeInformation {
	return l.schemeInformation
}

// Entities returns the list's trusted entities, in document order.
func (l LoTE) Entities() []TrustedEntity {
	return cloneEntities(l.entities)
}

// cloneEntities copies entities together with each entity's Services
// slice, so that writing to a service in the copy does not reach the
// original.
func cloneEntities(entities []TrustedEntity) []TrustedEntity {
	cp := make([]TrustedEntity, len(entities))
	for i, e := range entities {
		cp[i] = e
		if e.Services != nil {
			cp[i].Services = append([]TrustedEntityService(nil), e.Services...)
		}
	}
	return cp
}
