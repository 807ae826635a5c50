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

package anchor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/anchor"
	"github.com/eudiw/lote-trust-anchor/loadresult"
	"github.com/eudiw/lote-trust-anchor/lote"
)

const svcType lote.URI = "svc:pid-issuance"
const otherSvcType lote.URI = "svc:wallet-issuance"

func serviceWith(typeID lote.URI, certBytes ...byte) lote.TrustedEntityService {
	return lote.TrustedEntityService{
		Information: lote.ServiceInformation{
			TypeIdentifier:  typeID,
			DigitalIdentity: lote.DigitalIdentity{X509Certificates: []lote.PkiObject{{Bytes: certBytes}}},
		},
	}
}

func mustLoTEWithEntities(t *testing.T, entities []lote.TrustedEntity) lote.LoTE {
	t.Helper()
	l, err := lote.New(lote.SchemeInformation{}, entities)
	require.NoError(t, err)
	return l
}

func TestExtract_FindsCertsAcrossMainAndOtherLists(t *testing.T) {
	main := mustLoTEWithEntities(t, []lote.TrustedEntity{
		{Services: []lote.TrustedEntityService{serviceWith(svcType, 1), serviceWith(otherSvcType, 9)}},
	})
	sibling := mustLoTEWithEntities(t, []lote.TrustedEntity{
		{Services: []lote.TrustedEntityService{serviceWith(svcType, 2)}},
	})

	loaded := loadresult.LoadedLoTE{List: main, OtherLists: []lote.LoTE{sibling}}

	certs, found := anchor.Extract(loaded, svcType)
	require.True(t, found)
	require.Equal(t, 2, certs.Len())
	assert.Equal(t, []byte{1}, certs.Items()[0].Bytes)
	assert.Equal(t, []byte{2}, certs.Items()[1].Bytes)
}

func TestExtract_NoMatchingServiceType(t *testing.T) {
	main := mustLoTEWithEntities(t, []lote.TrustedEntity{
		{Services: []lote.TrustedEntityService{serviceWith(otherSvcType, 1)}},
	})
	loaded := loadresult.LoadedLoTE{List: main}

	_, found := anchor.Extract(loaded, svcType)
	assert.False(t, found)
}

func TestExtract_DoesNotDeduplicate(t *testing.T) {
	main := mustLoTEWithEntities(t, []lote.TrustedEntity{
		{Services: []lote.TrustedEntityService{serviceWith(svcType, 1)}},
	})
	sibling := mustLoTEWithEntities(t, []lote.TrustedEntity{
		{Services: []lote.TrustedEntityService{serviceWith(svcType, 1)}},
	})
	loaded := loadresult.LoadedLoTE{List: main, OtherLists: []lote.LoTE{sibling}}

	certs, found := anchor.Extract(loaded, svcType)
	require.True(t, found)
	assert.Equal(t, 2, certs.Len())
}
