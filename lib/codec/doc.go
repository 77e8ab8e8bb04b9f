// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used for the bootstrap run
// journal. Encoding is deterministic (RFC 8949 Core Deterministic
// Encoding) so that a journal recovered from a failed node can be
// compared byte-for-byte against a reference run when diagnosing
// commissioning problems.
//
// Consumers use [Marshal]/[Unmarshal] for single records and
// [NewEncoder]/[NewDecoder] for the append-only record stream the
// journal file contains.
package codec
