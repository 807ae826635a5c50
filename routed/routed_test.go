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

package routed_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/generic"
	"github.com/eudiw/lote-trust-anchor/routed"
	"github.com/eudiw/lote-trust-anchor/trustanchor"
)

func constSource(v int) trustanchor.Source[string, int] {
	return trustanchor.Func[string, int](func(context.Context, string) (generic.NonEmptyList[int], bool, error) {
		return generic.MustNonEmptyList([]int{v}), true, nil
	})
}

func notFoundSource() trustanchor.Source[string, int] {
	return trustanchor.Func[string, int](func(context.Context, string) (generic.NonEmptyList[int], bool, error) {
		return generic.NonEmptyList[int]{}, false, nil
	})
}

func TestSingle_RejectsEmptyKeys(t *testing.T) {
	_, err := routed.Single[string, int](nil, constSource(1))
	assert.Error(t, err)
}

func TestGet_QueryNotSupported(t *testing.T) {
	r, err := routed.Single([]string{"a"}, constSource(1))
	require.NoError(t, err)

	outcome, err := r.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, routed.QueryNotSupported, outcome.Kind)
}

func TestGet_Found(t *testing.T) {
	r, err := routed.Single([]string{"a"}, constSource(42))
	require.NoError(t, err)

	outcome, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, routed.Found, outcome.Kind)
	assert.Equal(t, 42, outcome.Anchors.First())
}

func TestGet_NotFound(t *testing.T) {
	r, err := routed.Single([]string{"a"}, notFoundSource())
	require.NoError(t, err)

	outcome, err := r.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, routed.NotFound, outcome.Kind)
}

func TestPlus_MergesDisjointTables(t *testing.T) {
	a, err := routed.Single([]string{"a"}, constSource(1))
	require.NoError(t, err)
	b, err := routed.Single([]string{"b"}, constSource(2))
	require.NoError(t, err)

	merged, err := routed.Plus(a, b)
	require.NoError(t, err)

	outA, err := merged.Get(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 1, outA.Anchors.First())

	outB, err := merged.Get(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 2, outB.Anchors.First())
}

func TestPlus_IsCommutative(t *testing.T) {
	a, err := routed.Single([]string{"a"}, constSource(1))
	require.NoError(t, err)
	b, err := routed.Single([]string{"b"}, constSource(2))
	require.NoError(t, err)

	ab, err := routed.Plus(a, b)
	require.NoError(t, err)
	ba, err := routed.Plus(b, a)
	require.NoError(t, err)

	for _, q := range []string{"a", "b"} {
		o1, err := ab.Get(context.Background(), q)
		require.NoError(t, err)
		o2, err := ba.Get(context.Background(), q)
		require.NoError(t, err)
		assert.Equal(t, o1, o2)
	}
}

func TestPlus_RejectsOverlappingKeys(t *testing.T) {
	a, err := routed.Single([]string{"a", "shared"}, constSource(1))
	require.NoError(t, err)
	b, err := routed.Single([]string{"shared", "b"}, constSource(2))
	require.NoError(t, err)

	_, err = routed.Plus(a, b)
	require.Error(t, err)
	var cfgErr *routed.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestTransform_RemapsQueryType(t *testing.T) {
	r, err := routed.Single([]string{"a"}, constSource(1))
	require.NoError(t, err)

	transformed, err := routed.Transform[string, int, int](r,
		func(s string) int {
			if s == "a" {
				return 100
			}
			return -1
		},
		func(n int) string {
			if n == 100 {
				return "a"
			}
			return "?"
		},
	)
	require.NoError(t, err)

	outcome, err := transformed.Get(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, routed.Found, outcome.Kind)
	assert.Equal(t, 1, outcome.Anchors.First())
}

func TestTransform_RejectsNonInjectiveMap(t *testing.T) {
	r, err := routed.Single([]string{"a", "b"}, constSource(1))
	require.NoError(t, err)

	_, err = routed.Transform[string, int, int](r,
		func(string) int { return 0 },
		func(int) string { return "a" },
	)
	assert.Error(t, err)
}

func TestClose_ClosesEveryDistinctSource(t *testing.T) {
	closed := map[string]bool{}
	mk := func(name string) trustanchor.Source[string, int] {
		return &closerSource{name: name, closed: closed}
	}

	a, err := routed.Single([]string{"a"}, mk("a"))
	require.NoError(t, err)
	b, err := routed.Single([]string{"b"}, mk("b"))
	require.NoError(t, err)
	merged, err := routed.Plus(a, b)
	require.NoError(t, err)

	require.NoError(t, merged.Close(context.Background()))
	assert.True(t, closed["a"])
	assert.True(t, closed["b"])
}

type closerSource struct {
	name   string
	closed map[string]bool
}

func (c *closerSource) Get(context.Context, string) (generic.NonEmptyList[int], bool, error) {
	return generic.MustNonEmptyList([]int{1}), true, nil
}

func (c *closerSource) Close(context.Context) error {
	c.closed[c.name] = true
	return nil
}
