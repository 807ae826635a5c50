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

// Package fetch provides reference lote.Fetcher implementations (spec
// component C3): one over HTTP(S), one over the local filesystem.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	retryablehttp "github.com/hashicorp/go-retryablehttp"
	"github.com/hashicorp/go-rootcerts"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/eudiw/lote-trust-anchor/lote"
)

// HTTPFetcher fetches LoTE tokens published over HTTP(S). It retries
// transient failures with retryablehttp's backoff, optionally rate-limits
// outbound requests (WithRateLimit), and optionally trusts an
// operator-supplied CA bundle instead of the system roots (WithRootCAs).
type HTTPFetcher struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// HTTPOption configures an HTTPFetcher.
type HTTPOption func(*HTTPFetcher)

// WithRootCAs loads an operator-supplied CA bundle via
// hashicorp/go-rootcerts, replacing the client's transport root pool.
func WithRootCAs(caFile, caPath string) HTTPOption {
	return func(f *HTTPFetcher) {
		transport := cleanhttp.DefaultPooledTransport()
		_ = rootcerts.ConfigureTLS(transport.TLSClientConfig, &rootcerts.Config{
			CAFile: caFile,
			CAPath: caPath,
		})
		f.client.HTTPClient.Transport = transport
	}
}

// WithRateLimit bounds outbound request rate. The default is unlimited.
func WithRateLimit(r rate.Limit, burst int) HTTPOption {
	return func(f *HTTPFetcher) { f.limiter = rate.NewLimiter(r, burst) }
}

// WithRetryMax overrides the number of retry attempts. The default is 3.
func WithRetryMax(n int) HTTPOption {
	return func(f *HTTPFetcher) { f.client.RetryMax = n }
}

// WithHTTPLogger attaches a structured logger.
func WithHTTPLogger(logger *zap.Logger) HTTPOption {
	return func(f *HTTPFetcher) { f.logger = logger }
}

// NewHTTPFetcher builds an HTTPFetcher.
func NewHTTPFetcher(opts ...HTTPOption) *HTTPFetcher {
	client := retryablehttp.NewClient()
	client.HTTPClient = cleanhttp.DefaultPooledClient()
	client.RetryMax = 3
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	client.Logger = nil

	f := &HTTPFetcher{
		client: client,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements lote.Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, uri lote.URI) (lote.SignedToken, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return "", err
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, string(uri), nil)
	if err != nil {
		return "", fmt.Errorf("fetch: building request for %s: %w", uri, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: requesting %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", &lote.FetchNotFoundError{URI: uri, Cause: fmt.Errorf("http status %d", resp.StatusCode)}
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: unexpected status %d fetching %s", resp.StatusCode, uri)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("fetch: reading body of %s: %w", uri, err)
	}

	f.logger.Debug("fetched", zap.String("uri", string(uri)), zap.Int("bytes", len(body)))
	return lote.SignedToken(body), nil
}
