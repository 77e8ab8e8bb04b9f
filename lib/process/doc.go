// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package process provides the shared binary entrypoint error handler.
package process
