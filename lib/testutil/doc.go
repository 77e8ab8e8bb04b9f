// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for the bootstrap
// packages. The bootstrap's collaborators are almost all external
// executables (BMC probes, configuration tools, the signal tool, the
// remote script runner), so the central helpers here fabricate small
// executable shell scripts that stand in for those tools and record
// how they were invoked.
package testutil
