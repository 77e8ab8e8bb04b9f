// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package payload materializes the embedded commissioning tools into
// the execution directory of a bootstrap run. The tools (BMC probes,
// BMC configuration helpers, the metadata signal tool, the remote
// script runner) are embedded at compile time and described by a JSONC
// manifest listing each payload's name, source file, permission bits,
// and compression.
//
// [Manifest.Store] is idempotent: a payload whose bytes and mode
// already match on disk is left untouched, so a retried bootstrap can
// re-extract safely. Integrity is checked with a keyed BLAKE3 digest
// computed over the decompressed content; the same digest drives the
// skip-if-identical decision.
//
// Extraction failures are fatal to the bootstrap: nothing downstream
// can run without its tools. They surface as [*ExtractionError] so the
// pipeline can distinguish them from tool-level failures.
package payload
