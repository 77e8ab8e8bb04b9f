// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/sfeole/maas/lib/testutil"
	"github.com/sfeole/maas/lib/tool"
)

func testReporter(t *testing.T, code int) (*Reporter, string) {
	t.Helper()

	dir := t.TempDir()
	script, capture := testutil.CaptureScript(t, dir, "maas-signal", "", code)
	reporter := &Reporter{
		ToolPath:   script,
		ConfigPath: "/etc/maas/creds.yaml",
		Runner:     &tool.Runner{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return reporter, capture
}

func TestSend_Working(t *testing.T) {
	t.Parallel()

	reporter, capture := testReporter(t, 0)
	err := reporter.Send(context.Background(), StatusWorking, "starting maas-run-remote-scripts", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invocations := testutil.Invocations(t, capture)
	if len(invocations) != 1 {
		t.Fatalf("tool invoked %d times, want 1", len(invocations))
	}
	want := []string{"--config", "/etc/maas/creds.yaml", "WORKING", "starting maas-run-remote-scripts"}
	if !slices.Equal(invocations[0], want) {
		t.Errorf("args = %v, want %v", invocations[0], want)
	}
}

func TestSend_PowerInfoFlags(t *testing.T) {
	t.Parallel()

	reporter, capture := testReporter(t, 0)
	extra := map[string]string{
		ExtraPowerType:       "ipmi",
		ExtraPowerParameters: "power_address=10.0.0.7 power_user=maas",
	}
	if err := reporter.Send(context.Background(), StatusWorking, "BMC configured", extra); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	invocations := testutil.Invocations(t, capture)
	if len(invocations) != 1 {
		t.Fatalf("tool invoked %d times, want 1", len(invocations))
	}
	want := []string{
		"--config", "/etc/maas/creds.yaml",
		"--power-type=ipmi",
		"--power-parameters=power_address=10.0.0.7 power_user=maas",
		"WORKING", "BMC configured",
	}
	if !slices.Equal(invocations[0], want) {
		t.Errorf("args = %v, want %v", invocations[0], want)
	}
}

func TestSend_DeliveryFailure(t *testing.T) {
	t.Parallel()

	reporter, _ := testReporter(t, 1)
	err := reporter.Send(context.Background(), StatusWorking, "starting", nil)

	var signalErr *Error
	if !errors.As(err, &signalErr) {
		t.Fatalf("error = %v, want *signal.Error", err)
	}
	if signalErr.Status != StatusWorking {
		t.Errorf("error status = %s, want WORKING", signalErr.Status)
	}
}

func TestSend_MissingTool(t *testing.T) {
	t.Parallel()

	reporter, _ := testReporter(t, 0)
	reporter.ToolPath = "/nonexistent/maas-signal"

	var signalErr *Error
	if err := reporter.Send(context.Background(), StatusFailed, "boom", nil); !errors.As(err, &signalErr) {
		t.Fatalf("error = %v, want *signal.Error", err)
	}
}

func TestSend_RejectsUnknownExtraKey(t *testing.T) {
	t.Parallel()

	reporter, capture := testReporter(t, 0)
	err := reporter.Send(context.Background(), StatusWorking, "x", map[string]string{"bogus": "y"})

	var signalErr *Error
	if !errors.As(err, &signalErr) {
		t.Fatalf("error = %v, want *signal.Error", err)
	}
	if got := testutil.Invocations(t, capture); got != nil {
		t.Errorf("tool invoked despite bad extra field: %v", got)
	}
}

func TestSend_RejectsInvalidStatus(t *testing.T) {
	t.Parallel()

	reporter, capture := testReporter(t, 0)
	var signalErr *Error
	if err := reporter.Send(context.Background(), Status("EXPLODED"), "x", nil); !errors.As(err, &signalErr) {
		t.Fatal("expected *signal.Error for invalid status")
	}
	if got := testutil.Invocations(t, capture); got != nil {
		t.Errorf("tool invoked despite invalid status: %v", got)
	}
}
