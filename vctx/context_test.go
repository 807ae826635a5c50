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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PanicsForUseCaseKinds(t *testing.T) {
	assert.Panics(t, func() { New(EAA) })
	assert.Panics(t, func() { New(EAAStatus) })
	assert.Panics(t, func() { New(Custom) })
}

func TestNew_BuildsPlainKinds(t *testing.T) {
	c := New(PID)
	assert.Equal(t, PID, c.Kind)
	assert.Empty(t, c.UseCase)
}

func TestContext_Equality(t *testing.T) {
	a := NewEAA("mobile-driving-licence")
	b := NewEAA("mobile-driving-licence")
	c := NewEAA("other-use-case")
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestContext_String(t *testing.T) {
	assert.Equal(t, "PID", New(PID).String())
	assert.Equal(t, "EAA(mdl)", NewEAA("mdl").String())
}

func TestParseContext(t *testing.T) {
	c, err := ParseContext("PID", "")
	assert.NoError(t, err)
	assert.Equal(t, New(PID), c)

	c, err = ParseContext("EAA", "mdl")
	assert.NoError(t, err)
	assert.Equal(t, NewEAA("mdl"), c)

	_, err = ParseContext("EAA", "")
	assert.Error(t, err)

	_, err = ParseContext("NotAKind", "")
	assert.Error(t, err)
}
