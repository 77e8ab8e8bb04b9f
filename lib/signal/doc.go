// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package signal reports commissioning progress to the metadata
// service. Delivery goes through the extracted signal tool, which owns
// the OAuth handshake with the service; this package owns the
// invocation contract: flag layout, status tokens, and the rule that
// any delivery failure is fatal to the bootstrap.
//
// A node that cannot signal is a node the operator cannot observe,
// and silently commissioning such a node hides real problems; the
// bootstrap aborts instead. Failures surface
// as [*Error] so the pipeline can tell them apart from everything
// non-fatal.
package signal
