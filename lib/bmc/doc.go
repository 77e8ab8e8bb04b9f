// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

// Package bmc classifies and configures the baseboard management
// controller of a commissioning node.
//
// Classification runs an ordered [Chain] of [Prober] implementations;
// the first prober to report a kind other than [KindNone] wins and
// later probers are never invoked. A prober failure (tool missing,
// non-zero exit, unparseable output) counts as "no classification from
// this prober" and the chain moves on: a machine without a BMC is a
// legitimate commissioning outcome, not an error.
//
// Configuration dispatches on the classified [Kind] to the matching
// vendor tool and yields an opaque power parameters line understood by
// the region controller. Tool failures here are absorbed the same way:
// they fold into empty settings, and the node commissions without
// remote power control rather than not at all. Before the IPMI tool
// runs, the kernel modules it needs are loaded best-effort; a module
// already present or a platform without the corresponding bus is
// expected.
package bmc
