// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"strconv"
	"strings"

	"github.com/tidwall/jsonc"
)

// Canonical payload names. The execution-directory path of every tool
// is destDir/<name>, so downstream components can compute tool paths
// before extraction has happened.
const (
	// ToolIPMIDetect classifies the local BMC (prints "ipmi" or
	// "moonshot", nothing when absent).
	ToolIPMIDetect = "maas-ipmi-autodetect-tool"

	// ToolIPMIConfig configures a detected IPMI BMC and emits its
	// power parameters line.
	ToolIPMIConfig = "maas-ipmi-autodetect"

	// ToolMoonshot emits power parameters for an HP Moonshot chassis.
	ToolMoonshot = "maas-moonshot-autodetect"

	// ToolWedge probes for and reads credentials from a Facebook
	// Wedge BMC.
	ToolWedge = "maas-wedge-autodetect"

	// ToolSignal reports commissioning progress to the metadata
	// service.
	ToolSignal = "maas-signal"

	// ToolRunScripts is the remote script runner the bootstrap hands
	// off to.
	ToolRunScripts = "maas-run-remote-scripts"
)

// defaultMode is applied to payloads whose manifest entry carries no
// explicit mode: owner read and execute, nothing else. Every payload
// is a tool; none needs to be writable once extracted.
const defaultMode fs.FileMode = 0o500

//go:embed tools
var embeddedTools embed.FS

// Payload is one named tool payload: embedded content plus the
// permission bits it must carry in the execution directory. Content is
// stored as embedded (possibly compressed) and decoded during Store.
type Payload struct {
	Name        string
	Content     []byte
	Mode        fs.FileMode
	Compression Compression
}

// Manifest is an ordered set of payloads with unique names.
type Manifest struct {
	payloads []Payload
}

// manifestEntry is the JSONC shape of one manifest line.
type manifestEntry struct {
	Name        string `json:"name"`
	File        string `json:"file"`
	Mode        string `json:"mode"`
	Compression string `json:"compression"`
}

// manifestDocument is the JSONC shape of the whole manifest file.
type manifestDocument struct {
	Payloads []manifestEntry `json:"payloads"`
}

// Default returns the manifest of tools embedded in this binary.
func Default() (*Manifest, error) {
	subFS, err := fs.Sub(embeddedTools, "tools")
	if err != nil {
		return nil, fmt.Errorf("opening embedded tools: %w", err)
	}
	return Load(subFS)
}

// Load reads manifest.jsonc from fsys and resolves every entry's
// content from the same filesystem. Duplicate payload names are a
// manifest authoring bug and fail with [*ExtractionError].
func Load(fsys fs.FS) (*Manifest, error) {
	manifestBytes, err := fs.ReadFile(fsys, "manifest.jsonc")
	if err != nil {
		return nil, fmt.Errorf("reading payload manifest: %w", err)
	}

	var document manifestDocument
	if err := json.Unmarshal(jsonc.ToJSON(manifestBytes), &document); err != nil {
		return nil, fmt.Errorf("parsing payload manifest: %w", err)
	}
	if len(document.Payloads) == 0 {
		return nil, fmt.Errorf("payload manifest lists no payloads")
	}

	manifest := &Manifest{}
	seen := make(map[string]bool, len(document.Payloads))
	for _, entry := range document.Payloads {
		p, err := resolveEntry(fsys, entry)
		if err != nil {
			return nil, err
		}
		if seen[p.Name] {
			return nil, &ExtractionError{Name: p.Name, Err: fmt.Errorf("duplicate payload name")}
		}
		seen[p.Name] = true
		manifest.payloads = append(manifest.payloads, p)
	}
	return manifest, nil
}

// Names returns the payload names in manifest order.
func (m *Manifest) Names() []string {
	names := make([]string, len(m.payloads))
	for i, p := range m.payloads {
		names[i] = p.Name
	}
	return names
}

func resolveEntry(fsys fs.FS, entry manifestEntry) (Payload, error) {
	if entry.Name == "" {
		return Payload{}, fmt.Errorf("payload manifest entry with empty name")
	}
	if strings.ContainsAny(entry.Name, "/\\") || entry.Name == "." || entry.Name == ".." {
		return Payload{}, fmt.Errorf("payload name %q is not a plain filename", entry.Name)
	}

	file := entry.File
	if file == "" {
		file = entry.Name
	}
	content, err := fs.ReadFile(fsys, file)
	if err != nil {
		return Payload{}, fmt.Errorf("reading payload %s content: %w", entry.Name, err)
	}

	mode := defaultMode
	if entry.Mode != "" {
		bits, err := strconv.ParseUint(entry.Mode, 8, 32)
		if err != nil || bits&^0o777 != 0 {
			return Payload{}, fmt.Errorf("payload %s: invalid mode %q", entry.Name, entry.Mode)
		}
		mode = fs.FileMode(bits)
	}

	compression, err := ParseCompression(entry.Compression)
	if err != nil {
		return Payload{}, fmt.Errorf("payload %s: %w", entry.Name, err)
	}

	return Payload{
		Name:        entry.Name,
		Content:     content,
		Mode:        mode,
		Compression: compression,
	}, nil
}
