// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package journal records the bootstrap's state machine transitions to
// an append-only CBOR file in the execution directory. When a node
// fails commissioning, the rack controller can pull the journal off
// the machine and see exactly how far the bootstrap got and what it
// observed at each step, without depending on console scrollback.
//
// Transitions are validated against the pipeline's state machine:
// a disallowed transition means a pipeline bug and is returned as an
// error. Journal I/O failures, on the other hand, must never break
// commissioning; callers log them and carry on.
package journal
