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

package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// FileFetcher fetches LoTE tokens from the local filesystem, interpreting
// each URI's path component as a file path. It's meant for tests and
// offline tooling, not production use: a thin file-backed stand-in for
// the network-backed implementation.
type FileFetcher struct {
	base string // optional directory every path is resolved relative to
}

// FileOption configures a FileFetcher.
type FileOption func(*FileFetcher)

// WithBaseDir resolves every fetched path relative to dir.
func WithBaseDir(dir string) FileOption {
	return func(f *FileFetcher) { f.base = dir }
}

// NewFileFetcher builds a FileFetcher.
func NewFileFetcher(opts ...FileOption) *FileFetcher {
	f := &FileFetcher{}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements lote.Fetcher.
func (f *FileFetcher) Fetch(_ context.Context, uri lote.URI) (lote.SignedToken, error) {
	path := string(uri)
	if u, err := url.Parse(path); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	if f.base != "" {
		path = f.base + string(os.PathSeparator) + path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &lote.FetchNotFoundError{URI: uri, Cause: err}
		}
		return "", fmt.Errorf("fetch: reading %s: %w", path, err)
	}
	return lote.SignedToken(data), nil
}
