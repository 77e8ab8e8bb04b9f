// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sfeole/maas/lib/tool"
)

// Status is a commissioning status token understood by the metadata
// service.
type Status string

const (
	// StatusWorking reports progress on a run still under way.
	StatusWorking Status = "WORKING"

	// StatusOK reports successful completion.
	StatusOK Status = "OK"

	// StatusFailed reports a failed run.
	StatusFailed Status = "FAILED"
)

// Valid reports whether s is a token the metadata service accepts.
func (s Status) Valid() bool {
	switch s {
	case StatusWorking, StatusOK, StatusFailed:
		return true
	default:
		return false
	}
}

// Extra keys recognized on a signal. Both ride only on the
// BMC-configured signal.
const (
	// ExtraPowerType names the power driver the region controller
	// should use for this node.
	ExtraPowerType = "power-type"

	// ExtraPowerParameters is the opaque parameters line for that
	// driver.
	ExtraPowerParameters = "power-parameters"
)

// Error is a signal delivery failure: the tool could not be spawned,
// exited non-zero, or the arguments were unusable. Every Error is
// fatal to the bootstrap.
type Error struct {
	Status Status
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("signaling %s to metadata service: %v", e.Status, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Reporter sends status signals through the extracted signal tool.
type Reporter struct {
	// ToolPath is the extracted signal tool.
	ToolPath string

	// ConfigPath is the credentials config handed to the tool.
	ConfigPath string

	// Runner executes the tool. Nil uses a zero-value runner.
	Runner *tool.Runner

	// Logger receives one line per signal. Nil means slog.Default().
	Logger *slog.Logger
}

// Send delivers one signal. The extra mapping may carry ExtraPowerType
// and ExtraPowerParameters; any other key is rejected before the tool
// is spawned. All failures return a *Error.
func (r *Reporter) Send(ctx context.Context, status Status, comment string, extra map[string]string) error {
	args, err := r.arguments(status, comment, extra)
	if err != nil {
		return &Error{Status: status, Err: err}
	}

	r.logger().Info("signaling metadata service", "status", string(status), "comment", comment)
	if _, err := r.runner().Output(ctx, r.ToolPath, args...); err != nil {
		return &Error{Status: status, Err: err}
	}
	return nil
}

// arguments builds the tool's argument vector:
//
//	--config <path> [--power-type=T] [--power-parameters=P] <STATUS> <comment>
func (r *Reporter) arguments(status Status, comment string, extra map[string]string) ([]string, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("invalid status %q", string(status))
	}
	for key := range extra {
		if key != ExtraPowerType && key != ExtraPowerParameters {
			return nil, fmt.Errorf("unsupported extra field %q", key)
		}
	}

	args := []string{"--config", r.ConfigPath}
	if value, ok := extra[ExtraPowerType]; ok {
		args = append(args, "--power-type="+value)
	}
	if value, ok := extra[ExtraPowerParameters]; ok {
		args = append(args, "--power-parameters="+value)
	}
	return append(args, string(status), comment), nil
}

func (r *Reporter) runner() *tool.Runner {
	if r.Runner != nil {
		return r.Runner
	}
	return &tool.Runner{}
}

func (r *Reporter) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}
