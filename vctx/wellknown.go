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

package vctx

import "github.com/eudiw/lote-trust-anchor/lote"

// Well-known ETSI TS 119 602 service-type URIs, as named in spec §6.
const (
	SvcTypePIDIssuance        lote.URI = "http://uri.etsi.org/19602/SvcType/PID/Issuance"
	SvcTypePIDRevocation      lote.URI = "http://uri.etsi.org/19602/SvcType/PID/Revocation"
	SvcTypeWalletIssuance     lote.URI = "http://uri.etsi.org/19602/SvcType/WalletSolution/Issuance"
	SvcTypeWalletRevocation   lote.URI = "http://uri.etsi.org/19602/SvcType/WalletSolution/Revocation"
	SvcTypeWRPACIssuance      lote.URI = "http://uri.etsi.org/19602/SvcType/WRPAC/Issuance"
	SvcTypeWRPRCIssuance      lote.URI = "http://uri.etsi.org/19602/SvcType/WRPRC/Issuance"
	SvcTypePubEAAIssuance     lote.URI = "http://uri.etsi.org/19602/SvcType/PubEAA/Issuance"
	SvcTypePubEAARevocation   lote.URI = "http://uri.etsi.org/19602/SvcType/PubEAA/Revocation"
	SvcTypeMDLIssuance        lote.URI = "http://trust.ec.europa.eu/lists/mDL/SvcType/Issuance"
	SvcTypeMDLRevocation      lote.URI = "http://trust.ec.europa.eu/lists/mDL/SvcType/Revocation"
)

// ServiceTypeURIs pairs the issuance service type for a role with its
// optional revocation counterpart.
type ServiceTypeURIs struct {
	Issuance   lote.URI
	Revocation *lote.URI
}

// EU is a pure constructor (not a singleton) returning the compile-time
// well-known service-type mapping for the roles the EU trust scheme
// defines. WRPAC and WRPRC have no revocation service type in the scheme.
func EU() SupportedLists[ServiceTypeURIs] {
	pidRev := lote.URI(SvcTypePIDRevocation)
	walletRev := lote.URI(SvcTypeWalletRevocation)
	pubEAARev := lote.URI(SvcTypePubEAARevocation)

	pid := ServiceTypeURIs{Issuance: SvcTypePIDIssuance, Revocation: &pidRev}
	wallet := ServiceTypeURIs{Issuance: SvcTypeWalletIssuance, Revocation: &walletRev}
	wrpac := ServiceTypeURIs{Issuance: SvcTypeWRPACIssuance}
	wrprc := ServiceTypeURIs{Issuance: SvcTypeWRPRCIssuance}
	pubEAA := ServiceTypeURIs{Issuance: SvcTypePubEAAIssuance, Revocation: &pubEAARev}

	return SupportedLists[ServiceTypeURIs]{
		PIDProviders:    &pid,
		WalletProviders: &wallet,
		WRPACProviders:  &wrpac,
		WRPRCProviders:  &wrprc,
		PubEAAProviders: &pubEAA,
	}
}
