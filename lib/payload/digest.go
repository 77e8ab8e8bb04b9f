// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import "github.com/zeebo/blake3"

// toolDomainKey is the BLAKE3 key for payload content digests. Domain
// separation keeps these digests from colliding with any other hashing
// this module grows later. The byte value is the ASCII domain name,
// zero-padded to the 32 bytes keyed BLAKE3 requires; readable ASCII
// makes the key inspectable in a debugger without weakening the hash.
var toolDomainKey = [32]byte{
	'm', 'a', 'a', 's', '.', 'p', 'a', 'y', 'l', 'o', 'a', 'd', '.',
	't', 'o', 'o', 'l', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// digest computes the payload-domain keyed BLAKE3 digest of content.
// Digests are always computed on decompressed bytes so they are stable
// across compression changes in the manifest.
func digest(content []byte) [32]byte {
	hasher, err := blake3.NewKeyed(toolDomainKey[:])
	if err != nil {
		// NewKeyed fails only on a key of the wrong length; the key
		// above is a fixed 32-byte array.
		panic("payload: BLAKE3 keyed hasher initialization failed: " + err.Error())
	}
	hasher.Write(content)

	var sum [32]byte
	copy(sum[:], hasher.Sum(nil))
	return sum
}
