// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sfeole/maas/lib/tool"
)

// Prober classifies the local BMC for one vendor family. Probers must
// not alter BMC configuration; they only look.
type Prober interface {
	// Name identifies the prober in logs.
	Name() string

	// Probe returns the detected kind, KindNone when this prober's
	// hardware is absent. An error means the probe itself failed
	// (tool missing, non-zero exit, garbage output); the chain treats
	// it the same as KindNone.
	Probe(ctx context.Context) (Kind, error)
}

// Chain runs probers in priority order until one reports a kind.
type Chain struct {
	// Probers in priority order. The first non-none classification
	// short-circuits the chain.
	Probers []Prober

	// Logger receives one line per probe outcome. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Classify returns the first kind any prober reports, or KindNone when
// every prober comes up empty. Probe failures are logged and folded
// into "no classification"; Classify itself never fails.
func (c *Chain) Classify(ctx context.Context) Kind {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}

	for _, prober := range c.Probers {
		kind, err := prober.Probe(ctx)
		if err != nil {
			logger.Warn("BMC probe failed, trying next", "probe", prober.Name(), "error", err)
			continue
		}
		if kind != KindNone {
			logger.Info("BMC classified", "probe", prober.Name(), "kind", kind.String())
			return kind
		}
		logger.Debug("BMC probe found nothing", "probe", prober.Name())
	}
	return KindNone
}

// ToolProber classifies by running an external probe tool whose stdout
// names the detected kind ("ipmi", "moonshot", "wedge") or is empty.
type ToolProber struct {
	name   string
	path   string
	args   []string
	runner *tool.Runner
}

// NewIPMIProber probes for standard IPMI and Moonshot BMCs using the
// IPMI autodetect tool at path.
func NewIPMIProber(path string, runner *tool.Runner) *ToolProber {
	return &ToolProber{name: "ipmi", path: path, runner: runner}
}

// NewWedgeProber probes for a Wedge BMC by running the Wedge tool in
// --check mode.
func NewWedgeProber(path string, runner *tool.Runner) *ToolProber {
	return &ToolProber{name: "wedge", path: path, args: []string{"--check"}, runner: runner}
}

// Name implements Prober.
func (p *ToolProber) Name() string { return p.name }

// Probe implements Prober.
func (p *ToolProber) Probe(ctx context.Context) (Kind, error) {
	out, err := p.runner.Output(ctx, p.path, p.args...)
	if err != nil {
		return KindNone, err
	}
	return ParseKind(strings.TrimSpace(out))
}
