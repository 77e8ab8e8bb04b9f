// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package journal

// State is one node of the bootstrap's state machine.
type State string

const (
	// StateStart is the initial state, recorded when the journal
	// opens.
	StateStart State = "START"

	// StatePayloadsExtracted means every embedded tool is on disk
	// with its expected content and mode.
	StatePayloadsExtracted State = "PAYLOADS_EXTRACTED"

	// StateSignaledStart means the metadata service acknowledged the
	// starting signal.
	StateSignaledStart State = "SIGNALED_START"

	// StateBMCClassified means the probe chain finished; the detail
	// field carries the kind, including "none".
	StateBMCClassified State = "BMC_CLASSIFIED"

	// StateBMCConfigured means the configurator finished; the detail
	// field says whether settings were produced.
	StateBMCConfigured State = "BMC_CONFIGURED"

	// StateSignaledFinish means the metadata service acknowledged the
	// BMC power info signal. Skipped when no settings were produced.
	StateSignaledFinish State = "SIGNALED_FINISH"

	// StateRunnerInvoked means the remote script runner has been
	// started and has finished (its own result is in the detail).
	StateRunnerInvoked State = "RUNNER_INVOKED"

	// StateDone is the successful terminal state.
	StateDone State = "DONE"

	// StateAborted is the failed terminal state, reachable from any
	// non-terminal state on a fatal error.
	StateAborted State = "ABORTED"
)

// Terminal reports whether s ends the run.
func (s State) Terminal() bool {
	return s == StateDone || s == StateAborted
}

// allowed reports whether from -> to is a legal transition. The
// machine is linear with two special edges: SIGNALED_FINISH is
// optional (BMC_CONFIGURED may go straight to RUNNER_INVOKED), and
// ABORTED is reachable from every non-terminal state.
func allowed(from, to State) bool {
	if to == StateAborted {
		return !from.Terminal()
	}
	switch from {
	case StateStart:
		return to == StatePayloadsExtracted
	case StatePayloadsExtracted:
		return to == StateSignaledStart
	case StateSignaledStart:
		return to == StateBMCClassified
	case StateBMCClassified:
		return to == StateBMCConfigured
	case StateBMCConfigured:
		return to == StateSignaledFinish || to == StateRunnerInvoked
	case StateSignaledFinish:
		return to == StateRunnerInvoked
	case StateRunnerInvoked:
		return to == StateDone
	default:
		return false
	}
}
