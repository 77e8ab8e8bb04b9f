// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/sfeole/maas/lib/tool"
)

// Handoff invokes the remote script runner.
type Handoff struct {
	// ToolPath is the extracted runner tool.
	ToolPath string

	// ConfigPath is the credentials config passed via --config.
	ConfigPath string

	// WorkDir is the execution directory the runner operates in.
	WorkDir string

	// Runner executes the tool. Nil uses a zero-value runner. The
	// script set can legitimately run for a long time, so callers
	// should configure a generous timeout (or none) here rather than
	// inheriting the probe-tool default.
	Runner *tool.Runner

	// Stdout and Stderr receive the runner's output. Nil means the
	// bootstrap's own stdout and stderr, which end up on the node
	// console.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives handoff progress. Nil means slog.Default().
	Logger *slog.Logger
}

// Run invokes the runner once and waits for it to finish. The returned
// error reports the runner's own failure; callers log it but do not
// treat it as a bootstrap failure; result interpretation belongs to
// the metadata service, which the runner reports to directly.
func (h *Handoff) Run(ctx context.Context) error {
	toolRunner := h.Runner
	if toolRunner == nil {
		toolRunner = &tool.Runner{}
	}

	command, cancel := toolRunner.Command(ctx, h.ToolPath, "--config", h.ConfigPath, h.WorkDir)
	defer cancel()

	command.Stdout = h.Stdout
	if command.Stdout == nil {
		command.Stdout = os.Stdout
	}
	command.Stderr = h.Stderr
	if command.Stderr == nil {
		command.Stderr = os.Stderr
	}

	h.logger().Info("handing off to remote script runner", "tool", h.ToolPath, "workdir", h.WorkDir)
	if err := command.Run(); err != nil {
		return fmt.Errorf("remote script runner: %w", err)
	}
	return nil
}

func (h *Handoff) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}
