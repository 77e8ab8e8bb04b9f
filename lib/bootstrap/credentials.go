// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Credentials is the control-plane credentials config: the OAuth
// triple the signal tool and remote script runner authenticate with,
// and the metadata service URL they talk to.
type Credentials struct {
	ConsumerKey string `yaml:"consumer_key"`
	TokenKey    string `yaml:"token_key"`
	TokenSecret string `yaml:"token_secret"`
	MetadataURL string `yaml:"metadata_url"`
}

// ReadCredentials reads and validates the credentials config at path.
// A config missing required fields fails here, before any tool has
// run, instead of surfacing later as an opaque signal tool error.
func ReadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading credentials config: %w", err)
	}

	var credentials Credentials
	if err := yaml.Unmarshal(data, &credentials); err != nil {
		return nil, fmt.Errorf("parsing credentials config %s: %w", path, err)
	}
	if err := credentials.Validate(); err != nil {
		return nil, fmt.Errorf("credentials config %s: %w", path, err)
	}
	return &credentials, nil
}

// Validate checks that every required field is present.
func (c *Credentials) Validate() error {
	if c.ConsumerKey == "" {
		return fmt.Errorf("consumer_key is required")
	}
	if c.TokenKey == "" {
		return fmt.Errorf("token_key is required")
	}
	if c.TokenSecret == "" {
		return fmt.Errorf("token_secret is required")
	}
	if c.MetadataURL == "" {
		return fmt.Errorf("metadata_url is required")
	}
	return nil
}
