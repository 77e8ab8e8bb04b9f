// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the
// commissioning bootstrap binary. The version string ends up in the
// starting log line, where it lets an operator confirm which bootstrap
// build a node actually booted with.
package version
