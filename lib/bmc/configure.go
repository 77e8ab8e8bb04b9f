// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package bmc

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sfeole/maas/lib/tool"
)

// Options are the operator-tunable switches for BMC configuration,
// resolved from the environment before the pipeline starts.
type Options struct {
	// ChangeStaticToDHCP converts a statically addressed IPMI BMC to
	// DHCP during configuration.
	ChangeStaticToDHCP bool

	// SIParams are extra parameters for the ipmi_si kernel module,
	// for platforms whose system interface needs explicit addressing.
	SIParams string
}

// ToolPaths locates the configuration tools in the execution
// directory.
type ToolPaths struct {
	// IPMIConfig is the IPMI configuration tool.
	IPMIConfig string

	// Moonshot is the Moonshot configuration tool.
	Moonshot string

	// Wedge is the Wedge credential-retrieval tool.
	Wedge string
}

// Configurator turns a classified kind into a power parameters line by
// invoking the matching vendor tool.
type Configurator struct {
	Tools   ToolPaths
	Options Options

	// ConfigDir is the directory handed to the IPMI tool for its
	// on-disk configuration state.
	ConfigDir string

	// Runner executes the tools. Nil uses a zero-value runner.
	Runner *tool.Runner

	// ModprobePath overrides the modprobe binary, for tests. Empty
	// means "modprobe" from PATH.
	ModprobePath string

	// Logger receives configuration progress. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Configure runs the configuration tool for kind and returns its power
// parameters line, trimmed. Tool failures are absorbed here: a kind
// whose tool fails (or whose hardware turns out to be absent, as with
// Wedge) yields empty settings and a log line, never an error. The
// only error Configure returns is an unknown kind, which is a bug in
// the caller.
func (c *Configurator) Configure(ctx context.Context, kind Kind) (string, error) {
	switch kind {
	case KindNone:
		return "", nil
	case KindIPMI:
		return c.settings(ctx, kind, c.Tools.IPMIConfig, c.ipmiArgs()...), nil
	case KindMoonshot:
		return c.settings(ctx, kind, c.Tools.Moonshot), nil
	case KindWedge:
		return c.settings(ctx, kind, c.Tools.Wedge, "--get-credentials"), nil
	default:
		return "", fmt.Errorf("cannot configure unknown BMC kind %q", kind)
	}
}

func (c *Configurator) ipmiArgs() []string {
	args := []string{"--configdir", c.ConfigDir}
	if c.Options.ChangeStaticToDHCP {
		args = append(args, "--dhcp-if-static")
	}
	return args
}

// settings runs one configuration tool and folds any failure into
// empty settings. For KindIPMI the required kernel modules are loaded
// first.
func (c *Configurator) settings(ctx context.Context, kind Kind, path string, args ...string) string {
	if kind == KindIPMI {
		c.loadIPMIModules(ctx)
	}

	out, err := c.runner().Output(ctx, path, args...)
	if err != nil {
		c.logger().Warn("BMC configuration tool failed, commissioning without power settings",
			"kind", kind.String(), "error", err)
		return ""
	}
	return strings.TrimSpace(out)
}

// loadIPMIModules loads the kernel modules the IPMI configuration tool
// needs: the message handler, the device interface, the system
// interface driver (with any operator-supplied parameters), and the
// SSIF driver. Failures are logged at debug only; a module already
// loaded, built into the kernel, or missing its bus on this platform
// is expected.
func (c *Configurator) loadIPMIModules(ctx context.Context) {
	modules := [][]string{
		{"ipmi_msghandler"},
		{"ipmi_devintf"},
		append([]string{"ipmi_si"}, strings.Fields(c.Options.SIParams)...),
		{"ipmi_ssif"},
	}

	modprobe := c.ModprobePath
	if modprobe == "" {
		modprobe = "modprobe"
	}

	for _, module := range modules {
		if _, err := c.runner().Output(ctx, modprobe, module...); err != nil {
			c.logger().Debug("kernel module load failed", "module", module[0], "error", err)
		}
	}
}

func (c *Configurator) runner() *tool.Runner {
	if c.Runner != nil {
		return c.Runner
	}
	return &tool.Runner{}
}

func (c *Configurator) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}
