// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package bootstrap defines the configuration a commissioning
// bootstrap run starts from: the credentials config delivered by the
// control plane, the execution directory, and the operator-tunable
// IPMI switches resolved from the environment.
//
// The credentials config is a small YAML document written onto the
// node at deploy time (consumer key, token pair, metadata URL). The
// bootstrap parses it only to validate that the required fields are
// present before any tool runs; the file itself is handed by path to
// the signal tool and the remote script runner, which own the OAuth
// handshake.
//
// Environment-derived options are resolved once, into typed [Config]
// fields, before the pipeline starts; nothing downstream reads the
// environment directly.
package bootstrap
