// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sfeole/maas/lib/bmc"
	"github.com/sfeole/maas/lib/bootstrap"
	"github.com/sfeole/maas/lib/journal"
	"github.com/sfeole/maas/lib/signal"
)

// Comments attached to the two mandated signals. The metadata service
// surfaces these verbatim in the node's event log.
const (
	startComment  = "starting maas-run-remote-scripts"
	finishComment = "BMC detected and configured"
)

// PayloadStore materializes the embedded tools. Implemented by
// payload.Manifest.
type PayloadStore interface {
	Store(destDir string) (map[string]string, error)
}

// Classifier determines the node's BMC kind. Implemented by bmc.Chain.
type Classifier interface {
	Classify(ctx context.Context) bmc.Kind
}

// Configurator produces power settings for a classified kind.
// Implemented by bmc.Configurator.
type Configurator interface {
	Configure(ctx context.Context, kind bmc.Kind) (string, error)
}

// Signaler reports progress to the metadata service. Implemented by
// signal.Reporter.
type Signaler interface {
	Send(ctx context.Context, status signal.Status, comment string, extra map[string]string) error
}

// ScriptRunner is the remote script runner handoff. Implemented by
// runner.Handoff.
type ScriptRunner interface {
	Run(ctx context.Context) error
}

// Recorder journals state transitions. Implemented by
// journal.Journal; nil disables journaling.
type Recorder interface {
	Transition(state journal.State, detail string) error
}

// Pipeline is one bootstrap run. Fields are set once by the caller and
// read-only during Run.
type Pipeline struct {
	Config bootstrap.Config

	Store        PayloadStore
	Classifier   Classifier
	Configurator Configurator
	Signaler     Signaler
	Runner       ScriptRunner

	// Journal is optional; a nil Recorder disables journaling.
	Journal Recorder

	// Logger receives run progress. Nil means slog.Default().
	Logger *slog.Logger
}

// Run executes the bootstrap to completion. A nil return means the
// remote script runner was invoked and the process should exit zero,
// including when the runner itself failed, since result interpretation
// belongs to the metadata service. A non-nil return is fatal:
// extraction or signal delivery failed.
func (p *Pipeline) Run(ctx context.Context) error {
	if _, err := p.Store.Store(p.Config.WorkDir); err != nil {
		// The signal tool is itself a payload, so this attempt will
		// usually fail too; it is still worth one try in case a
		// previous run left a usable tool behind.
		return p.abort(ctx, fmt.Errorf("extracting payloads: %w", err), true)
	}
	p.record(journal.StatePayloadsExtracted, "")

	if err := p.Signaler.Send(ctx, signal.StatusWorking, startComment, nil); err != nil {
		return p.abort(ctx, err, false)
	}
	p.record(journal.StateSignaledStart, "")

	kind, settings := p.configureBMC(ctx)

	if settings != "" {
		extra := map[string]string{
			signal.ExtraPowerType:       kind.PowerType(),
			signal.ExtraPowerParameters: settings,
		}
		if err := p.Signaler.Send(ctx, signal.StatusWorking, finishComment, extra); err != nil {
			return p.abort(ctx, err, false)
		}
		p.record(journal.StateSignaledFinish, "")
	}

	if err := p.Runner.Run(ctx); err != nil {
		p.logger().Error("remote script runner failed", "error", err)
		p.record(journal.StateRunnerInvoked, err.Error())
	} else {
		p.record(journal.StateRunnerInvoked, "ok")
	}

	p.record(journal.StateDone, "")
	return nil
}

// configureBMC runs classification and configuration, honoring the
// SkipBMCConfig branch. It never fails: every tool-level problem has
// already been folded into KindNone or empty settings by the time it
// returns.
func (p *Pipeline) configureBMC(ctx context.Context) (bmc.Kind, string) {
	if p.Config.SkipBMCConfig {
		p.logger().Info("BMC configuration skipped by configuration")
		p.record(journal.StateBMCClassified, "skipped")
		p.record(journal.StateBMCConfigured, "skipped")
		return bmc.KindNone, ""
	}

	kind := p.Classifier.Classify(ctx)
	p.record(journal.StateBMCClassified, kind.String())
	if kind == bmc.KindNone {
		p.record(journal.StateBMCConfigured, "no BMC")
		return kind, ""
	}

	settings, err := p.Configurator.Configure(ctx, kind)
	if err != nil {
		// Only an unknown kind reaches here; treat it like a tool
		// failure rather than killing the run over power management.
		p.logger().Error("BMC configuration error", "kind", kind.String(), "error", err)
		settings = ""
	}
	if settings == "" {
		p.record(journal.StateBMCConfigured, "no settings")
	} else {
		p.record(journal.StateBMCConfigured, "settings produced")
	}
	return kind, settings
}

// abort journals the fatal cause and, when the failure is not itself a
// signaling failure, makes one best-effort attempt to leave a FAILED
// trace on the metadata service before the process exits non-zero.
func (p *Pipeline) abort(ctx context.Context, cause error, signalFeasible bool) error {
	p.logger().Error("bootstrap aborted", "error", cause)
	p.record(journal.StateAborted, cause.Error())

	if signalFeasible {
		comment := fmt.Sprintf("commissioning bootstrap failed: %v", cause)
		if err := p.Signaler.Send(ctx, signal.StatusFailed, comment, nil); err != nil {
			p.logger().Warn("could not leave FAILED trace on metadata service", "error", err)
		}
	}
	return cause
}

func (p *Pipeline) record(state journal.State, detail string) {
	if p.Journal == nil {
		return
	}
	if err := p.Journal.Transition(state, detail); err != nil {
		p.logger().Warn("journal update failed", "state", string(state), "error", err)
	}
}

func (p *Pipeline) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}
