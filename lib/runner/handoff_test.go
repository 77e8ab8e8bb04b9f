// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"

	"github.com/sfeole/maas/lib/testutil"
	"github.com/sfeole/maas/lib/tool"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRun_InvokesRunnerWithConfigAndWorkDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script, capture := testutil.CaptureScript(t, dir, "maas-run-remote-scripts", "scripts done", 0)

	var stdout bytes.Buffer
	handoff := &Handoff{
		ToolPath:   script,
		ConfigPath: "/etc/maas/creds.yaml",
		WorkDir:    dir,
		Runner:     &tool.Runner{Logger: quietLogger()},
		Stdout:     &stdout,
		Stderr:     io.Discard,
		Logger:     quietLogger(),
	}

	if err := handoff.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invocations := testutil.Invocations(t, capture)
	if len(invocations) != 1 {
		t.Fatalf("runner invoked %d times, want 1", len(invocations))
	}
	want := []string{"--config", "/etc/maas/creds.yaml", dir}
	if !slices.Equal(invocations[0], want) {
		t.Errorf("args = %v, want %v", invocations[0], want)
	}
	if !strings.Contains(stdout.String(), "scripts done") {
		t.Errorf("runner stdout not forwarded, got %q", stdout.String())
	}
}

func TestRun_RunnerFailureIsReported(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	script, _ := testutil.CaptureScript(t, dir, "maas-run-remote-scripts", "", 7)

	handoff := &Handoff{
		ToolPath:   script,
		ConfigPath: "/etc/maas/creds.yaml",
		WorkDir:    dir,
		Runner:     &tool.Runner{Logger: quietLogger()},
		Stdout:     io.Discard,
		Stderr:     io.Discard,
		Logger:     quietLogger(),
	}

	if err := handoff.Run(context.Background()); err == nil {
		t.Fatal("expected error for failing runner")
	}
}
