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

// Package vctx defines the verification context a certificate chain is
// being validated for, and SupportedLists, the fixed-shape record used to
// combine per-role values (most commonly TrustAnchorSources) across the
// well-known EUDI Wallet roles.
package vctx

import "fmt"

// Kind enumerates the closed set of verification context shapes. EAA and
// EAAStatus carry an additional use-case discriminator; Custom is the
// escape hatch for scheme-specific roles.
type Kind int

const (
	PID Kind = iota
	PIDStatus
	WalletInstanceAttestation
	WalletUnitAttestation
	WalletUnitAttestationStatus
	PubEAA
	PubEAAStatus
	QEAA
	QEAAStatus
	EAA
	EAAStatus
	WalletRelyingPartyRegistrationCertificate
	WalletRelyingPartyAccessCertificate
	Custom
)

func (k Kind) String() string {
	switch k {
	case PID:
		return "PID"
	case PIDStatus:
		return "PIDStatus"
	case WalletInstanceAttestation:
		return "WalletInstanceAttestation"
	case WalletUnitAttestation:
		return "WalletUnitAttestation"
	case WalletUnitAttestationStatus:
		return "WalletUnitAttestationStatus"
	case PubEAA:
		return "PubEAA"
	case PubEAAStatus:
		return "PubEAAStatus"
	case QEAA:
		return "QEAA"
	case QEAAStatus:
		return "QEAAStatus"
	case EAA:
		return "EAA"
	case EAAStatus:
		return "EAAStatus"
	case WalletRelyingPartyRegistrationCertificate:
		return "WalletRelyingPartyRegistrationCertificate"
	case WalletRelyingPartyAccessCertificate:
		return "WalletRelyingPartyAccessCertificate"
	case Custom:
		return "Custom"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Context is a verification context value. Equality is structural: two
// Contexts are equal iff Kind matches and, for the two kinds that carry a
// use case (EAA, EAAStatus) or a custom label (Custom), UseCase matches
// too.
type Context struct {
	Kind    Kind
	UseCase string // only meaningful for EAA, EAAStatus, Custom
}

// New builds a Context for one of the fixed, use-case-less kinds. Passing
// EAA, EAAStatus or Custom panics — use NewEAA/NewEAAStatus/NewCustom
// instead, since those kinds are not well-formed without a use case.
func New(k Kind) Context {
	switch k {
	case EAA, EAAStatus, Custom:
		panic(fmt.Sprintf("vctx: %s requires a use case; use NewEAA/NewEAAStatus/NewCustom", k))
	}
	return Context{Kind: k}
}

// NewEAA builds an EAA context for the given use case.
func NewEAA(useCase string) Context { return Context{Kind: EAA, UseCase: useCase} }

// NewEAAStatus builds an EAAStatus context for the given use case.
func NewEAAStatus(useCase string) Context { return Context{Kind: EAAStatus, UseCase: useCase} }

// NewCustom builds a scheme-specific Custom context.
func NewCustom(useCase string) Context { return Context{Kind: Custom, UseCase: useCase} }

// String renders the context for logging.
func (c Context) String() string {
	if c.UseCase != "" {
		return fmt.Sprintf("%s(%s)", c.Kind, c.UseCase)
	}
	return c.Kind.String()
}
