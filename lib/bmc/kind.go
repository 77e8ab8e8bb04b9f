// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package bmc

import "fmt"

// Kind identifies the vendor family of a node's BMC.
type Kind uint8

const (
	// KindNone means no BMC was detected. Absence is a valid outcome:
	// the node commissions without remote power control.
	KindNone Kind = iota

	// KindIPMI is a standard IPMI BMC reachable through the local
	// system interface.
	KindIPMI

	// KindMoonshot is an HP Moonshot chassis manager, addressed with
	// double-bridged IPMI requests.
	KindMoonshot

	// KindWedge is a Facebook Wedge BMC reachable over the switch's
	// internal management link.
	KindWedge
)

// String returns the wire spelling of the kind. This is both what the
// probe tools print and the power type the region controller expects.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindIPMI:
		return "ipmi"
	case KindMoonshot:
		return "moonshot"
	case KindWedge:
		return "wedge"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(k))
	}
}

// PowerType returns the power type reported to the metadata service,
// empty for KindNone.
func (k Kind) PowerType() string {
	if k == KindNone {
		return ""
	}
	return k.String()
}

// ParseKind parses a probe tool's stdout into a Kind. The empty string
// parses to KindNone (the tool ran and found nothing). Anything else
// unrecognized is an error: it means the tool is misbehaving, and the
// chain treats it like a probe failure.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "":
		return KindNone, nil
	case "ipmi":
		return KindIPMI, nil
	case "moonshot":
		return KindMoonshot, nil
	case "wedge":
		return KindWedge, nil
	default:
		return KindNone, fmt.Errorf("unrecognized BMC kind %q", s)
	}
}
