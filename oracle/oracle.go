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

// Package oracle assembles the full trust-anchor pipeline — fetcher,
// optional on-disk cache, token codec, loader, provisioner — from
// environment configuration, so a host application gets a working oracle
// from one constructor call instead of wiring a dozen packages by hand.
package oracle

import (
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/eudiw/lote-trust-anchor/fetch"
	"github.com/eudiw/lote-trust-anchor/filecache"
	"github.com/eudiw/lote-trust-anchor/internal/config"
	"github.com/eudiw/lote-trust-anchor/internal/log"
	"github.com/eudiw/lote-trust-anchor/loader"
	"github.com/eudiw/lote-trust-anchor/lote"
	"github.com/eudiw/lote-trust-anchor/metrics"
	"github.com/eudiw/lote-trust-anchor/provision"
	"github.com/eudiw/lote-trust-anchor/token"
	"github.com/eudiw/lote-trust-anchor/trustanchor"
	"github.com/eudiw/lote-trust-anchor/vctx"
)

// Options holds the pieces that cannot come from the environment: the
// LoTE signing-key resolution and, optionally, overrides for the fetcher,
// logger and metrics registry.
type Options struct {
	// EnvPrefix namespaces the environment variables read (e.g. "LOTE"
	// turns LOG_LEVEL into LOTE_LOG_LEVEL).
	EnvPrefix string

	// KeyFunc resolves the key each LoTE token's signature is checked
	// against. Required.
	KeyFunc jwt.Keyfunc

	// Registry receives the oracle's Prometheus collectors when metrics
	// are enabled via configuration. Optional; leaving it nil disables
	// metrics regardless of configuration.
	Registry prometheus.Registerer

	// Fetcher overrides the default retrying HTTP fetcher, e.g. with a
	// fetch.FileFetcher for air-gapped deployments. Optional.
	Fetcher lote.Fetcher

	// Logger overrides the logger otherwise built at the configured
	// level. Optional.
	Logger *zap.Logger
}

// Oracle is the assembled pipeline. Provisioner runs provisioning tables
// against the configured loader; Logger and Metrics are the ambient
// collaborators every stage was wired with, exposed so the host can share
// them.
type Oracle struct {
	Provisioner *provision.Provisioner
	Logger      *zap.Logger
	Metrics     *metrics.Recorder

	cfg config.Config
}

// New reads configuration from the environment and assembles an Oracle.
func New(opts Options) (*Oracle, error) {
	if opts.KeyFunc == nil {
		return nil, fmt.Errorf("oracle: KeyFunc is required")
	}

	cfg, err := config.Load(opts.EnvPrefix)
	if err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger, err = log.New(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
	}

	var rec *metrics.Recorder
	if cfg.MetricsEnabled && opts.Registry != nil {
		rec, err = metrics.New(opts.Registry)
		if err != nil {
			return nil, fmt.Errorf("oracle: registering metrics: %w", err)
		}
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewHTTPFetcher(fetch.WithHTTPLogger(logger))
	}
	if cfg.FileCacheDir != "" {
		fetcher, err = filecache.New(fetcher, cfg.FileCacheDir, filecache.WithLogger(logger))
		if err != nil {
			return nil, err
		}
	}

	constraints, err := loader.NewConstraints(cfg.LoaderParallelism, cfg.LoaderMaxDepth, cfg.LoaderMaxLists)
	if err != nil {
		return nil, err
	}

	ld := loader.New(fetcher, token.NewVerifier(opts.KeyFunc), token.NewParser(), constraints,
		loader.WithLogger(logger), loader.WithMetrics(rec))

	return &Oracle{
		Provisioner: provision.New(ld,
			provision.WithLogger(logger),
			provision.WithParallelism(cfg.LoaderParallelism)),
		Logger:  logger,
		Metrics: rec,
		cfg:     cfg,
	}, nil
}

// CacheAnchors wraps src in the TTL-and-size-bounded memoising cache the
// environment configured (ANCHOR_CACHE_TTL / ANCHOR_CACHE_SIZE). The
// returned source owns the cache; close it when done.
func (o *Oracle) CacheAnchors(src trustanchor.Source[vctx.Context, lote.TrustAnchor]) (trustanchor.Source[vctx.Context, lote.TrustAnchor], error) {
	return trustanchor.Cached(src, o.cfg.CacheTTL, o.cfg.CacheSize)
}
