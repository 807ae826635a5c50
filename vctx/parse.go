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

import "fmt"

var kindsByName = map[string]Kind{
	PID.String():                                        PID,
	PIDStatus.String():                                  PIDStatus,
	WalletInstanceAttestation.String():                  WalletInstanceAttestation,
	WalletUnitAttestation.String():                       WalletUnitAttestation,
	WalletUnitAttestationStatus.String():                 WalletUnitAttestationStatus,
	PubEAA.String():                                     PubEAA,
	PubEAAStatus.String():                                PubEAAStatus,
	QEAA.String():                                        QEAA,
	QEAAStatus.String():                                  QEAAStatus,
	EAA.String():                                         EAA,
	EAAStatus.String():                                   EAAStatus,
	WalletRelyingPartyRegistrationCertificate.String():   WalletRelyingPartyRegistrationCertificate,
	WalletRelyingPartyAccessCertificate.String():         WalletRelyingPartyAccessCertificate,
	Custom.String():                                      Custom,
}

// ParseContext builds a Context from a Kind name (as rendered by
// Kind.String()) and an optional use case, the shape a provisioning
// table's textual config arrives in. useCase is required for EAA,
// EAAStatus and Custom, and ignored otherwise.
func ParseContext(kindName, useCase string) (Context, error) {
	kind, ok := kindsByName[kindName]
	if !ok {
		return Context{}, fmt.Errorf("vctx: unknown context kind %q", kindName)
	}
	switch kind {
	case EAA, EAAStatus, Custom:
		if useCase == "" {
			return Context{}, fmt.Errorf("vctx: context kind %q requires a use case", kindName)
		}
		return Context{Kind: kind, UseCase: useCase}, nil
	default:
		return Context{Kind: kind}, nil
	}
}
