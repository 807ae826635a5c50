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

package token

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// wireLoTE is the JSON document carried in a signed token's payload
// segment, the ETSI TS 119 612-shaped form trust-scheme operators
// publish. Certificate values arrive base64-encoded, which encoding/json
// handles natively for []byte fields.
type wireLoTE struct {
	SchemeInformation wireSchemeInformation `json:"schemeInformation"`
	TrustedEntities   []wireTrustedEntity   `json:"trustedEntities"`
}

type wireSchemeInformation struct {
	PointersToOtherLists []wirePointer `json:"pointersToOtherLists"`
}

type wirePointer struct {
	Location string `json:"location"`
}

type wireTrustedEntity struct {
	Services []wireService `json:"services"`
}

type wireService struct {
	ServiceInformation wireServiceInformation `json:"serviceInformation"`
}

type wireServiceInformation struct {
	TypeIdentifier  string              `json:"typeIdentifier"`
	DigitalIdentity wireDigitalIdentity `json:"digitalIdentity"`
}

type wireDigitalIdentity struct {
	X509Certificates []wireCertificate `json:"x509Certificates"`
}

type wireCertificate struct {
	Value    []byte  `json:"value"`
	Encoding *string `json:"encoding,omitempty"`
	SpecRef  *string `json:"specRef,omitempty"`
}

// Parser is the reference lote.LoteParser for the compact three-segment
// token form: it splits on '.', base64url-nopadding-decodes the middle
// segment, and deserialises the JSON document inside into a lote.LoTE.
// It does not look at the signature segment — pair it with Verifier,
// which attests to the signature before the payload is trusted enough to
// parse.
type Parser struct{}

// NewParser builds a Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse implements lote.LoteParser. Every malformation — wrong segment
// count, undecodable payload, invalid JSON, or a document that violates a
// LoTE construction invariant — is reported as a lote.ParseFailedError.
func (*Parser) Parse(_ context.Context, payload lote.SignedToken) (lote.LoTE, error) {
	segments := strings.Split(string(payload), ".")
	if len(segments) != 3 {
		return lote.LoTE{}, &lote.ParseFailedError{
			Cause: fmt.Errorf("token: expected 3 segments, got %d", len(segments)),
		}
	}

	raw, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return lote.LoTE{}, &lote.ParseFailedError{
			Cause: fmt.Errorf("token: decoding payload segment: %w", err),
		}
	}

	var wire wireLoTE
	if err := json.Unmarshal(raw, &wire); err != nil {
		return lote.LoTE{}, &lote.ParseFailedError{
			Cause: fmt.Errorf("token: unmarshalling payload: %w", err),
		}
	}

	parsed, err := lote.New(schemeFromWire(wire.SchemeInformation), entitiesFromWire(wire.TrustedEntities))
	if err != nil {
		return lote.LoTE{}, &lote.ParseFailedError{Cause: err}
	}
	return parsed, nil
}

func schemeFromWire(w wireSchemeInformation) lote.SchemeInformation {
	var pointers []lote.OtherLoTEPointer
	for _, p := range w.PointersToOtherLists {
		pointers = append(pointers, lote.OtherLoTEPointer{Location: lote.URI(p.Location)})
	}
	return lote.SchemeInformation{PointersToOtherLists: pointers}
}

func entitiesFromWire(wireEntities []wireTrustedEntity) []lote.TrustedEntity {
	var entities []lote.TrustedEntity
	for _, we := range wireEntities {
		var services []lote.TrustedEntityService
		for _, ws := range we.Services {
			var certs []lote.PkiObject
			for _, wc := range ws.ServiceInformation.DigitalIdentity.X509Certificates {
				obj := lote.PkiObject{Bytes: wc.Value}
				if wc.Encoding != nil {
					enc := lote.URI(*wc.Encoding)
					obj.Encoding = &enc
				}
				if wc.SpecRef != nil {
					ref := lote.URI(*wc.SpecRef)
					obj.SpecRef = &ref
				}
				certs = append(certs, obj)
			}
			services = append(services, lote.TrustedEntityService{
				Information: lote.ServiceInformation{
					TypeIdentifier:  lote.URI(ws.ServiceInformation.TypeIdentifier),
					DigitalIdentity: lote.DigitalIdentity{X509Certificates: certs},
				},
			})
		}
		entities = append(entities, lote.TrustedEntity{Services: services})
	}
	return entities
}
