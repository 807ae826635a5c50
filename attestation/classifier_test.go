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

package attestation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/attestation"
	"github.com/eudiw/lote-trust-anchor/vctx"
)

func TestNew_RejectsEmptyPattern(t *testing.T) {
	_, err := attestation.New(attestation.Rule{Pattern: "", Contexts: []vctx.Context{vctx.New(vctx.PID)}})
	assert.Error(t, err)
}

func TestNew_RejectsRuleWithNoContexts(t *testing.T) {
	_, err := attestation.New(attestation.Rule{Pattern: "*", Contexts: nil})
	assert.Error(t, err)
}

func TestClassifyAndMap_FirstMatchWins(t *testing.T) {
	c, err := attestation.New(
		attestation.Rule{Pattern: "eu.europa.ec.eudi.pid.*", Contexts: []vctx.Context{vctx.New(vctx.PID)}},
		attestation.Rule{Pattern: "eu.europa.ec.eudi.*", Contexts: []vctx.Context{vctx.New(vctx.QEAA)}},
	)
	require.NoError(t, err)

	results, ok := attestation.ClassifyAndMap(c, "eu.europa.ec.eudi.pid.1", func(ctx vctx.Context) string {
		return ctx.String()
	})
	require.True(t, ok)
	assert.Equal(t, []string{"PID"}, results)
}

func TestClassifyAndMap_MapsEveryContextOfMatchingRule(t *testing.T) {
	c, err := attestation.New(
		attestation.Rule{Pattern: "msisdn", Contexts: []vctx.Context{vctx.New(vctx.QEAA), vctx.New(vctx.QEAAStatus)}},
	)
	require.NoError(t, err)

	results, ok := attestation.ClassifyAndMap(c, "msisdn", func(ctx vctx.Context) vctx.Kind {
		return ctx.Kind
	})
	require.True(t, ok)
	assert.Equal(t, []vctx.Kind{vctx.QEAA, vctx.QEAAStatus}, results)
}

func TestClassifyAndMap_NoMatch(t *testing.T) {
	c, err := attestation.New(attestation.Rule{Pattern: "eu.europa.ec.eudi.pid.*", Contexts: []vctx.Context{vctx.New(vctx.PID)}})
	require.NoError(t, err)

	results, ok := attestation.ClassifyAndMap(c, "com.example.other", func(ctx vctx.Context) string {
		return ctx.String()
	})
	assert.False(t, ok)
	assert.Nil(t, results)
}
