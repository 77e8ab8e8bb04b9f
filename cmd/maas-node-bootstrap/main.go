// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// maas-node-bootstrap is the commissioning bootstrap delivered to a
// freshly booted bare-metal node. It extracts the embedded
// commissioning tools, detects and configures the node's BMC, reports
// progress to the metadata service, and hands off to
// maas-run-remote-scripts.
//
// Usage:
//
//	maas-node-bootstrap --config /etc/maas/creds.yaml [--workdir DIR]
//
// The process exits 0 once the remote script runner has been invoked,
// regardless of the runner's own result; it exits non-zero when
// payload extraction or signal delivery fails.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/sfeole/maas/lib/bmc"
	"github.com/sfeole/maas/lib/bootstrap"
	"github.com/sfeole/maas/lib/journal"
	"github.com/sfeole/maas/lib/payload"
	"github.com/sfeole/maas/lib/pipeline"
	"github.com/sfeole/maas/lib/process"
	"github.com/sfeole/maas/lib/runner"
	"github.com/sfeole/maas/lib/signal"
	"github.com/sfeole/maas/lib/tool"
	"github.com/sfeole/maas/lib/version"
)

func main() {
	if err := run(); err != nil {
		process.Fatal(err)
	}
}

func run() error {
	var (
		credentialsPath string
		workDir         string
		skipBMCConfig   bool
		toolTimeout     time.Duration
		debug           bool
		showVersion     bool
	)

	flags := pflag.NewFlagSet("maas-node-bootstrap", pflag.ContinueOnError)
	flags.StringVar(&credentialsPath, "config", "", "path to the control-plane credentials config (required)")
	flags.StringVar(&workDir, "workdir", "", "execution directory (default: a fresh temporary directory)")
	flags.BoolVar(&skipBMCConfig, "skip-bmc-config", false, "skip BMC detection and configuration entirely")
	flags.DurationVar(&toolTimeout, "tool-timeout", tool.DefaultTimeout, "timeout per external tool invocation")
	flags.BoolVar(&debug, "debug", false, "enable debug logging")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	if showVersion {
		fmt.Printf("maas-node-bootstrap %s\n", version.Full())
		return nil
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if credentialsPath == "" {
		return fmt.Errorf("--config is required")
	}
	if workDir == "" {
		directory, err := os.MkdirTemp("", "maas-bootstrap-")
		if err != nil {
			return fmt.Errorf("creating execution directory: %w", err)
		}
		workDir = directory
	}

	config := bootstrap.Config{
		CredentialsPath: credentialsPath,
		WorkDir:         workDir,
		SkipBMCConfig:   skipBMCConfig,
	}
	if err := config.ApplyEnvironment(os.Getenv); err != nil {
		return err
	}
	if err := config.Validate(); err != nil {
		return err
	}

	// Fail on a broken credentials config now, before any tool runs,
	// rather than from inside the first signal attempt.
	credentials, err := bootstrap.ReadCredentials(config.CredentialsPath)
	if err != nil {
		return err
	}

	logger.Info("commissioning bootstrap starting",
		"version", version.Info(),
		"workdir", workDir,
		"metadata_url", credentials.MetadataURL)

	manifest, err := payload.Default()
	if err != nil {
		return fmt.Errorf("loading embedded payloads: %w", err)
	}

	ipmiConfigDir := filepath.Join(workDir, "ipmi.d")
	if err := os.MkdirAll(ipmiConfigDir, 0o700); err != nil {
		return fmt.Errorf("creating IPMI config directory: %w", err)
	}

	// Payload paths are deterministic (workdir/name), so collaborators
	// can be wired up before extraction has happened.
	toolPath := func(name string) string { return filepath.Join(workDir, name) }
	toolRunner := &tool.Runner{Timeout: toolTimeout, Logger: logger}

	// Journaling is diagnostics; diagnostics must never stop a node
	// from commissioning.
	var recorder pipeline.Recorder
	if j, err := journal.Open(filepath.Join(workDir, journal.FileName)); err != nil {
		logger.Warn("running without journal", "error", err)
	} else {
		defer j.Close()
		recorder = j
	}

	boot := &pipeline.Pipeline{
		Config: config,
		Store:  manifest,
		Classifier: &bmc.Chain{
			Probers: []bmc.Prober{
				bmc.NewIPMIProber(toolPath(payload.ToolIPMIDetect), toolRunner),
				bmc.NewWedgeProber(toolPath(payload.ToolWedge), toolRunner),
			},
			Logger: logger,
		},
		Configurator: &bmc.Configurator{
			Tools: bmc.ToolPaths{
				IPMIConfig: toolPath(payload.ToolIPMIConfig),
				Moonshot:   toolPath(payload.ToolMoonshot),
				Wedge:      toolPath(payload.ToolWedge),
			},
			Options:   config.IPMI,
			ConfigDir: ipmiConfigDir,
			Runner:    toolRunner,
			Logger:    logger,
		},
		Signaler: &signal.Reporter{
			ToolPath:   toolPath(payload.ToolSignal),
			ConfigPath: config.CredentialsPath,
			Runner:     toolRunner,
			Logger:     logger,
		},
		Runner: &runner.Handoff{
			ToolPath:   toolPath(payload.ToolRunScripts),
			ConfigPath: config.CredentialsPath,
			WorkDir:    workDir,
			// The script set runs as long as it runs; only the
			// per-tool calls above are bounded.
			Runner: &tool.Runner{Timeout: -1, Logger: logger},
			Logger: logger,
		},
		Journal: recorder,
		Logger:  logger,
	}

	return boot.Run(context.Background())
}
