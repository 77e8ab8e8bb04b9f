// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package runner hands the bootstrap off to the remote script runner,
// the tool that downloads and executes the actual commissioning and
// testing scripts. The bootstrap guarantees exactly one invocation,
// after BMC work finishes, with the run's credentials config and
// execution directory; the runner's retry and result-aggregation
// behavior is its own.
package runner
