// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package tool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds a single tool invocation. Probe and
// configuration tools normally finish in seconds; five minutes covers
// slow BMC firmware without letting a hung tool block commissioning
// indefinitely.
const DefaultTimeout = 5 * time.Minute

// Runner executes external commissioning tools. The zero value is
// usable: it applies DefaultTimeout and logs through slog.Default().
type Runner struct {
	// Timeout bounds each invocation. Zero means DefaultTimeout;
	// negative disables the bound entirely (the remote script runner
	// legitimately runs for hours).
	Timeout time.Duration

	// Logger receives a debug line per invocation. Nil means
	// slog.Default().
	Logger *slog.Logger
}

// Output runs the tool at path with args and returns its stdout.
// Stderr is captured separately and included in error messages on
// failure. A timeout is reported as an ordinary tool failure wrapping
// context.DeadlineExceeded.
func (r *Runner) Output(ctx context.Context, path string, args ...string) (string, error) {
	ctx, cancel := r.bound(ctx)
	defer cancel()

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, path, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	r.logger().Debug("running tool", "path", path, "args", args)
	if err := command.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", fmt.Errorf("%s %s: timed out after %v: %w",
				path, strings.Join(args, " "), r.timeout(), context.DeadlineExceeded)
		}
		return "", fmt.Errorf("%s %s: %w (stderr: %s)",
			path, strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// Command returns an *exec.Cmd for a tool without running it. The
// caller gets full control over Stdin, Stdout, and Stderr before
// starting the process. The returned cancel function releases the
// timeout and must be called once the command has finished.
func (r *Runner) Command(ctx context.Context, path string, args ...string) (*exec.Cmd, context.CancelFunc) {
	ctx, cancel := r.bound(ctx)
	return exec.CommandContext(ctx, path, args...), cancel
}

func (r *Runner) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.Timeout < 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout())
}

func (r *Runner) timeout() time.Duration {
	if r.Timeout > 0 {
		return r.Timeout
	}
	return DefaultTimeout
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
