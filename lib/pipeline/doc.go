// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package pipeline sequences a commissioning bootstrap run: extract
// the embedded tools, announce the run to the metadata service,
// classify and configure the BMC, report the resulting power settings,
// and hand off to the remote script runner.
//
// Failure semantics follow two rules. Anything that blinds the
// operator is fatal: a payload extraction failure or a signal delivery
// failure aborts the run with a non-zero exit, after a best-effort
// FAILED signal when one can still be attempted. Anything that only
// degrades the node's power management is not: probe and configuration
// tool failures fold into "no BMC" or "no settings", and the node
// still commissions.
//
// Collaborators are injected as interfaces; production wiring lives in
// cmd/maas-node-bootstrap.
package pipeline
