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

// Package provision implements the Provisioner (spec §4.8): a batch
// composer that reads a declarative table of {verification context ->
// remote LoTE root, service type, validator choice}, runs a load-and-
// extract pipeline per row, and reduces the successful rows into one
// RoutedAnchorSource per validator choice (PKIX or direct trust).
package provision

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Entry is one row of a provisioning table: which verification context an
// anchor set is published for, where to load its LoTE from, which service
// type identifies the matching services within it, and which
// ChainValidator strategy should bind to the resulting anchors.
type Entry struct {
	Context     string `yaml:"context" validate:"required"`
	UseCase     string `yaml:"use_case,omitempty"`
	RootURI     string `yaml:"root_uri" validate:"required"`
	ServiceType string `yaml:"service_type" validate:"required"`
	DirectTrust bool   `yaml:"direct_trust"`
}

// Config is the full provisioning table.
type Config struct {
	Entries []Entry `yaml:"entries" validate:"required,min=1,dive"`
}

// LoadConfigFile reads and parses a YAML provisioning table from path,
// the same table shape the Provisioner consumes.
func LoadConfigFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("provision: reading config %s: %w", path, err)
	}
	return ParseConfig(data)
}

var entryValidator = validator.New()

// ParseConfig parses a YAML provisioning table from raw bytes and
// validates the required fields on every entry.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("provision: parsing config: %w", err)
	}
	if err := entryValidator.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("provision: invalid config: %w", err)
	}
	return cfg, nil
}
