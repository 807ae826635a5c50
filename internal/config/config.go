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

// Package config loads the oracle's process-level settings from the
// environment via kelseyhightower/envconfig field tags, validated with
// github.com/go-playground/validator/v10 struct tags so malformed
// settings fail at startup with a field-level message. Duration-like
// fields are parsed leniently via
// github.com/hashicorp/go-secure-stdlib/parseutil so "30s", "5m" and bare
// integers (seconds) are all accepted.
package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-secure-stdlib/parseutil"
	"github.com/kelseyhightower/envconfig"

	"github.com/go-playground/validator/v10"
)

// Config is the oracle's ambient runtime configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	// LoaderParallelism bounds how many of one list's pointers are fetched
	// at once; the oracle also uses it to bound concurrent provisioning rows.
	LoaderParallelism int `envconfig:"LOADER_PARALLELISM" default:"4" validate:"gt=0"`
	// LoaderMaxDepth bounds how deep PointersToOtherLists is followed.
	LoaderMaxDepth int `envconfig:"LOADER_MAX_DEPTH" default:"8" validate:"gt=0"`
	// LoaderMaxLists bounds the total number of lists loaded per traversal.
	LoaderMaxLists int `envconfig:"LOADER_MAX_LISTS" default:"256" validate:"gt=0"`

	// CacheTTLRaw is parsed leniently (duration string or bare seconds) via
	// parseutil; CacheTTL is the resolved value used at runtime.
	CacheTTLRaw string `envconfig:"ANCHOR_CACHE_TTL" default:"15m"`
	CacheTTL    time.Duration `ignored:"true"`

	// CacheSize bounds the number of distinct queries memoised per source.
	CacheSize int `envconfig:"ANCHOR_CACHE_SIZE" default:"1024" validate:"gt=0"`

	// MetricsEnabled toggles Prometheus metrics registration.
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"false"`

	// FileCacheDir, if non-empty, enables filecache.Cache in front of the
	// configured Fetcher.
	FileCacheDir string `envconfig:"FILE_CACHE_DIR" default:""`
}

var validate = validator.New()

// Load reads Config from the environment under the given prefix (e.g.
// "LOTE" turns LOG_LEVEL into LOTE_LOG_LEVEL) and validates it.
func Load(prefix string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	ttl, err := parseutil.ParseDurationSecond(cfg.CacheTTLRaw)
	if err != nil {
		return Config{}, fmt.Errorf("config: parsing ANCHOR_CACHE_TTL: %w", err)
	}
	cfg.CacheTTL = ttl

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
