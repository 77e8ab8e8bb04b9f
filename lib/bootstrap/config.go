// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package bootstrap

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sfeole/maas/lib/bmc"
)

// Environment variables recognized by the bootstrap.
const (
	// EnvChangeStaticToDHCP converts a statically addressed IPMI BMC
	// to DHCP during configuration. Boolean, default false.
	EnvChangeStaticToDHCP = "IPMI_CHANGE_STATIC_TO_DHCP"

	// EnvSIParams carries extra parameters for the ipmi_si kernel
	// module. String, default empty.
	EnvSIParams = "IPMI_SI_PARAMS"
)

// Config is everything a bootstrap run needs, resolved before the
// pipeline starts and read-only afterwards.
type Config struct {
	// CredentialsPath is the control-plane credentials config
	// (required).
	CredentialsPath string

	// WorkDir is the execution directory payloads are extracted into
	// and scripts run under (required).
	WorkDir string

	// SkipBMCConfig bypasses BMC classification and configuration
	// entirely. Some deployments manage power out of band.
	SkipBMCConfig bool

	// IPMI carries the operator-tunable IPMI switches.
	IPMI bmc.Options
}

// Validate checks that the required paths are present and point at
// something plausible.
func (c *Config) Validate() error {
	if c.CredentialsPath == "" {
		return fmt.Errorf("credentials config path is required")
	}
	if _, err := os.Stat(c.CredentialsPath); err != nil {
		return fmt.Errorf("credentials config: %w", err)
	}
	if c.WorkDir == "" {
		return fmt.Errorf("execution directory is required")
	}
	info, err := os.Stat(c.WorkDir)
	if err != nil {
		return fmt.Errorf("execution directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("execution directory %s is not a directory", c.WorkDir)
	}
	return nil
}

// ApplyEnvironment fills the IPMI options from the recognized
// environment variables using getenv (os.Getenv in production). An
// unparseable boolean is a configuration error, not a silent default.
func (c *Config) ApplyEnvironment(getenv func(string) string) error {
	if value := getenv(EnvChangeStaticToDHCP); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", EnvChangeStaticToDHCP, value, err)
		}
		c.IPMI.ChangeStaticToDHCP = parsed
	}
	if value := getenv(EnvSIParams); value != "" {
		c.IPMI.SIParams = value
	}
	return nil
}
