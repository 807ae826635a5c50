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

// Package anchor projects a loaded LoTE tree into the certificates
// published for a given service type (spec component C6).
package anchor

import (
	"github.com/eudiw/lote-trust-anchor/generic"
	"github.com/eudiw/lote-trust-anchor/loadresult"
	"github.com/eudiw/lote-trust-anchor/lote"
)

// Extract walks the main list and every sibling list, in that order, and
// returns every certificate of every service whose TypeIdentifier equals
// svcType, in document order. It does not deduplicate — certificates are
// distinguished by byte-equality of their encoded value, a decision left
// to the TrustAnchorFactory that will eventually consume them. Extract
// returns false when no matching certificate exists anywhere in the tree.
func Extract(loaded loadresult.LoadedLoTE, svcType lote.URI) (generic.NonEmptyList[lote.PkiObject], bool) {
	var certs []lote.PkiObject

	lists := make([]lote.LoTE, 0, 1+len(loaded.OtherLists))
	lists = append(lists, loaded.List)
	lists = append(lists, loaded.OtherLists...)

	for _, l := range lists {
		for _, entity := range l.Entities() {
			for _, svc := range entity.Services {
				if svc.Information.TypeIdentifier != svcType {
					continue
				}
				certs = append(certs, svc.Information.DigitalIdentity.X509Certificates...)
			}
		}
	}

	if len(certs) == 0 {
		return generic.NonEmptyList[lote.PkiObject]{}, false
	}
	return generic.MustNonEmptyList(certs), true
}
