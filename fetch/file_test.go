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

package fetch_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eudiw/lote-trust-anchor/fetch"
	"github.com/eudiw/lote-trust-anchor/lote"
)

func TestFileFetcher_ReadsRelativeToBaseDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "root.jwt"), []byte("a.b.c"), 0o600))

	f := fetch.NewFileFetcher(fetch.WithBaseDir(dir))
	token, err := f.Fetch(context.Background(), lote.URI("root.jwt"))
	require.NoError(t, err)
	assert.Equal(t, lote.SignedToken("a.b.c"), token)
}

func TestFileFetcher_ResolvesFileScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "root.jwt")
	require.NoError(t, os.WriteFile(path, []byte("a.b.c"), 0o600))

	f := fetch.NewFileFetcher()
	token, err := f.Fetch(context.Background(), lote.URI("file://"+path))
	require.NoError(t, err)
	assert.Equal(t, lote.SignedToken("a.b.c"), token)
}

func TestFileFetcher_MapsMissingFileToNotFound(t *testing.T) {
	f := fetch.NewFileFetcher(fetch.WithBaseDir(t.TempDir()))
	_, err := f.Fetch(context.Background(), lote.URI("does-not-exist.jwt"))
	require.Error(t, err)
	var notFound *lote.FetchNotFoundError
	assert.True(t, errors.As(err, &notFound))
}
