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

package loadresult_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/loader"
	"github.com/eudiw/lote-trust-anchor/loadresult"
	"github.com/eudiw/lote-trust-anchor/lote"
)

func fixedClock(t time.Time) loadresult.Clock {
	return func() time.Time { return t }
}

func loadedEvent(uri lote.URI, depth int) loader.Event {
	return loader.Event{Kind: loader.EventLoTELoaded, LoTELoaded: &loader.LoTELoaded{SourceURI: uri, Depth: depth}}
}

func problemEvent(kind loader.EventKind, uri lote.URI) loader.Event {
	return loader.Event{Kind: kind, Problem: &loader.Problem{Kind: kind, URI: uri}}
}

func TestCollect_MainAndSiblings(t *testing.T) {
	events := make(chan loader.Event, 3)
	events <- loadedEvent("root", 0)
	events <- loadedEvent("child-a", 1)
	events <- loadedEvent("child-b", 1)
	close(events)

	result := loadresult.Collect(events, loadresult.Always, fixedClock(time.Unix(0, 0)))
	require.NotNil(t, result.Main)
	assert.Equal(t, lote.URI("root"), result.Main.SourceURI)
	assert.Len(t, result.Siblings, 2)
	assert.Empty(t, result.Problems)

	loaded, ok := result.Loaded()
	require.True(t, ok)
	assert.Len(t, loaded.OtherLists, 2)
}

func TestCollect_NeverStopsAtFirstProblem(t *testing.T) {
	events := make(chan loader.Event, 3)
	events <- loadedEvent("root", 0)
	events <- problemEvent(loader.EventResourceNotFound, "missing")
	events <- loadedEvent("child-b", 1)
	close(events)

	result := loadresult.Collect(events, loadresult.Never, fixedClock(time.Unix(0, 0)))
	require.NotNil(t, result.Main)
	assert.Len(t, result.Problems, 1)
	// Collect returned as soon as the policy said stop, before observing
	// the trailing loaded-child event.
	assert.Empty(t, result.Siblings)
}

func TestCollect_AlwaysIfDownloaded(t *testing.T) {
	events := make(chan loader.Event, 3)
	events <- problemEvent(loader.EventResourceNotFound, "root")
	close(events)

	result := loadresult.Collect(events, loadresult.AlwaysIfDownloaded, fixedClock(time.Unix(0, 0)))
	assert.Nil(t, result.Main)
	assert.Len(t, result.Problems, 1)
}

func TestCollect_PanicsOnDuplicateRoot(t *testing.T) {
	events := make(chan loader.Event, 2)
	events <- loadedEvent("root-1", 0)
	events <- loadedEvent("root-2", 0)
	close(events)

	assert.PanicsWithValue(t, loadresult.ErrDuplicateRoot, func() {
		loadresult.Collect(events, loadresult.Always, fixedClock(time.Unix(0, 0)))
	})
}

func TestCollect_PanicsOnOutOfOrderLoad(t *testing.T) {
	events := make(chan loader.Event, 1)
	events <- loadedEvent("child", 1)
	close(events)

	assert.PanicsWithValue(t, loadresult.ErrOutOfOrderLoad, func() {
		loadresult.Collect(events, loadresult.Always, fixedClock(time.Unix(0, 0)))
	})
}

func TestLoteLoadResult_LoadedFalseWithoutMain(t *testing.T) {
	_, ok := loadresult.LoteLoadResult{}.Loaded()
	assert.False(t, ok)
}
