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

import "sort"

// SupportedLists is a record with one optional slot per well-known EUDI
// Wallet role, plus an open map for use-case-keyed EAA providers.
// Iteration (Entries) yields only the populated slots, in a fixed
// deterministic order, so two SupportedLists built from the same inputs
// always produce the same routing table.
type SupportedLists[T any] struct {
	PIDProviders   *T
	WalletProviders *T
	WRPACProviders *T
	WRPRCProviders *T
	PubEAAProviders *T
	QEAAProviders  *T
	EAAProviders   map[string]T
}

// Entry pairs a verification context with its slot's value.
type Entry[T any] struct {
	Context Context
	Value   T
}

// fixedOrder is the deterministic iteration order for the non-map slots.
var fixedOrder = []Kind{
	PID, WalletInstanceAttestation, WalletRelyingPartyAccessCertificate,
	WalletRelyingPartyRegistrationCertificate, PubEAA, QEAA,
}

// Entries returns the populated slots, in fixed order, followed by the
// EAAProviders map entries sorted by use case for determinism.
func (s SupportedLists[T]) Entries() []Entry[T] {
	var out []Entry[T]
	for _, k := range fixedOrder {
		switch k {
		case PID:
			if s.PIDProviders != nil {
				out = append(out, Entry[T]{New(PID), *s.PIDProviders})
			}
		case WalletInstanceAttestation:
			if s.WalletProviders != nil {
				out = append(out, Entry[T]{New(WalletInstanceAttestation), *s.WalletProviders})
			}
		case WalletRelyingPartyAccessCertificate:
			if s.WRPACProviders != nil {
				out = append(out, Entry[T]{New(WalletRelyingPartyAccessCertificate), *s.WRPACProviders})
			}
		case WalletRelyingPartyRegistrationCertificate:
			if s.WRPRCProviders != nil {
				out = append(out, Entry[T]{New(WalletRelyingPartyRegistrationCertificate), *s.WRPRCProviders})
			}
		case PubEAA:
			if s.PubEAAProviders != nil {
				out = append(out, Entry[T]{New(PubEAA), *s.PubEAAProviders})
			}
		case QEAA:
			if s.QEAAProviders != nil {
				out = append(out, Entry[T]{New(QEAA), *s.QEAAProviders})
			}
		}
	}
	for _, uc := range sortedKeys(s.EAAProviders) {
		out = append(out, Entry[T]{NewEAA(uc), s.EAAProviders[uc]})
	}
	return out
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CombineSupportedLists intersects the populated slots of two
// SupportedLists and lifts f over each intersecting pair. A slot
// populated in only one of s1/s2 is dropped from the result — combine is
// deliberately conservative rather than guessing a default for the
// missing side.
func CombineSupportedLists[A, B, C any](s1 SupportedLists[A], s2 SupportedLists[B], f func(A, B) C) SupportedLists[C] {
	out := SupportedLists[C]{}
	if s1.PIDProviders != nil && s2.PIDProviders != nil {
		v := f(*s1.PIDProviders, *s2.PIDProviders)
		out.PIDProviders = &v
	}
	if s1.WalletProviders != nil && s2.WalletProviders != nil {
		v := f(*s1.WalletProviders, *s2.WalletProviders)
		out.WalletProviders = &v
	}
	if s1.WRPACProviders != nil && s2.WRPACProviders != nil {
		v := f(*s1.WRPACProviders, *s2.WRPACProviders)
		out.WRPACProviders = &v
	}
	if s1.WRPRCProviders != nil && s2.WRPRCProviders != nil {
		v := f(*s1.WRPRCProviders, *s2.WRPRCProviders)
		out.WRPRCProviders = &v
	}
	if s1.PubEAAProviders != nil && s2.PubEAAProviders != nil {
		v := f(*s1.PubEAAProviders, *s2.PubEAAProviders)
		out.PubEAAProviders = &v
	}
	if s1.QEAAProviders != nil && s2.QEAAProviders != nil {
		v := f(*s1.QEAAProviders, *s2.QEAAProviders)
		out.QEAAProviders = &v
	}
	if s1.EAAProviders != nil && s2.EAAProviders != nil {
		out.EAAProviders = make(map[string]C)
		for uc, a := range s1.EAAProviders {
			if b, ok := s2.EAAProviders[uc]; ok {
				out.EAAProviders[uc] = f(a, b)
			}
		}
	}
	return out
}
