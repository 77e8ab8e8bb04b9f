// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression identifies how a payload's embedded content is encoded.
// Shipped tool payloads are plain text and use CompressionNone; the
// zstd and lz4 codings exist for large generated payloads where the
// transport unit's size matters.
type Compression uint8

const (
	// CompressionNone indicates content embedded verbatim.
	CompressionNone Compression = iota

	// CompressionZstd indicates a zstd frame. Best ratio for
	// text-like payloads.
	CompressionZstd

	// CompressionLZ4 indicates an LZ4 frame. Cheapest to decode when
	// the payload is large and binary.
	CompressionLZ4
)

// String returns the manifest spelling of the compression.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCompression parses the manifest spelling of a compression.
// The empty string means CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch s {
	case "", "none":
		return CompressionNone, nil
	case "zstd":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("unknown compression %q", s)
	}
}

// decode returns the decompressed payload content.
func (c Compression) decode(data []byte) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		decoder, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("opening zstd frame: %w", err)
		}
		defer decoder.Close()
		content, err := io.ReadAll(decoder)
		if err != nil {
			return nil, fmt.Errorf("decompressing zstd frame: %w", err)
		}
		return content, nil
	case CompressionLZ4:
		content, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("decompressing lz4 frame: %w", err)
		}
		return content, nil
	default:
		return nil, fmt.Errorf("unknown compression %d", uint8(c))
	}
}
