// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package tool provides typed subprocess access to the external
// commissioning tools (BMC probes, BMC configuration tools, the
// metadata signal tool, the remote script runner). All invocations go
// through [Runner], which captures stdout and stderr separately,
// includes stderr text in error messages, and bounds every call with a
// timeout so a wedged vendor tool cannot stall the bootstrap forever.
//
// The bootstrap never interprets tool exit codes beyond zero/non-zero:
// what a non-zero exit means (probe miss, hardware absent, fatal) is
// decided by the calling package.
package tool
