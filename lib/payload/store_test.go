// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func manifestFS(manifest string, files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{
		"manifest.jsonc": &fstest.MapFile{Data: []byte(manifest)},
	}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return fsys
}

func TestDefault_EmbeddedTools(t *testing.T) {
	t.Parallel()

	manifest, err := Default()
	if err != nil {
		t.Fatalf("loading embedded manifest: %v", err)
	}

	want := []string{
		ToolSignal,
		ToolIPMIDetect,
		ToolIPMIConfig,
		ToolMoonshot,
		ToolWedge,
		ToolRunScripts,
	}
	got := manifest.Names()
	if len(got) != len(want) {
		t.Fatalf("embedded manifest has %d payloads, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("payload %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDefault_IPMIProbeLoadsDriversBeforeSysfs(t *testing.T) {
	t.Parallel()

	// /sys/class/ipmi only exists once the IPMI drivers are loaded.
	// The probe tool must load them itself: the configurator's module
	// loading runs after classification, too late to help the probe.
	script, err := embeddedTools.ReadFile("tools/maas-ipmi-autodetect-tool.sh")
	if err != nil {
		t.Fatalf("reading embedded probe tool: %v", err)
	}
	load := bytes.Index(script, []byte("modprobe"))
	check := bytes.Index(script, []byte("[ -d /sys/class/ipmi ]"))
	if load < 0 {
		t.Fatal("probe tool does not load the IPMI drivers")
	}
	if check < 0 {
		t.Fatal("probe tool does not check /sys/class/ipmi")
	}
	if load > check {
		t.Error("probe tool checks /sys/class/ipmi before loading the drivers")
	}
}

func TestStore_WritesContentAndMode(t *testing.T) {
	t.Parallel()

	fsys := manifestFS(`{
		// two tools, one with explicit mode
		"payloads": [
			{"name": "probe", "file": "probe.sh"},
			{"name": "configure", "file": "configure.sh", "mode": "0700"},
		]
	}`, map[string]string{
		"probe.sh":     "#!/bin/sh\necho ipmi\n",
		"configure.sh": "#!/bin/sh\necho configured\n",
	})

	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	destDir := t.TempDir()
	paths, err := manifest.Store(destDir)
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}

	if paths["probe"] != filepath.Join(destDir, "probe") {
		t.Errorf("probe path = %q", paths["probe"])
	}

	content, err := os.ReadFile(paths["probe"])
	if err != nil {
		t.Fatalf("reading extracted payload: %v", err)
	}
	if string(content) != "#!/bin/sh\necho ipmi\n" {
		t.Errorf("probe content = %q", content)
	}

	info, err := os.Stat(paths["probe"])
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o500 {
		t.Errorf("probe mode = %o, want 0500", info.Mode().Perm())
	}

	info, err = os.Stat(paths["configure"])
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o700 {
		t.Errorf("configure mode = %o, want 0700", info.Mode().Perm())
	}
}

func TestStore_Idempotent(t *testing.T) {
	t.Parallel()

	fsys := manifestFS(`{"payloads": [{"name": "probe", "file": "probe.sh"}]}`,
		map[string]string{"probe.sh": "#!/bin/sh\necho ipmi\n"})
	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	destDir := t.TempDir()
	if _, err := manifest.Store(destDir); err != nil {
		t.Fatalf("first store failed: %v", err)
	}
	firstInfo, err := os.Stat(filepath.Join(destDir, "probe"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}

	if _, err := manifest.Store(destDir); err != nil {
		t.Fatalf("second store failed: %v", err)
	}
	secondInfo, err := os.Stat(filepath.Join(destDir, "probe"))
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}

	// The identical file must be skipped, not rewritten.
	if !secondInfo.ModTime().Equal(firstInfo.ModTime()) {
		t.Error("identical payload was rewritten on second store")
	}
	if secondInfo.Mode().Perm() != firstInfo.Mode().Perm() {
		t.Errorf("mode changed: %o -> %o", firstInfo.Mode().Perm(), secondInfo.Mode().Perm())
	}
}

func TestStore_RepairsTamperedPayload(t *testing.T) {
	t.Parallel()

	fsys := manifestFS(`{"payloads": [{"name": "probe", "file": "probe.sh"}]}`,
		map[string]string{"probe.sh": "#!/bin/sh\necho ipmi\n"})
	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	destDir := t.TempDir()
	if _, err := manifest.Store(destDir); err != nil {
		t.Fatalf("first store failed: %v", err)
	}

	path := filepath.Join(destDir, "probe")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\necho tampered\n"), 0o600); err != nil {
		t.Fatalf("tampering failed: %v", err)
	}

	if _, err := manifest.Store(destDir); err != nil {
		t.Fatalf("second store failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading repaired payload: %v", err)
	}
	if string(content) != "#!/bin/sh\necho ipmi\n" {
		t.Errorf("payload not restored, content = %q", content)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if info.Mode().Perm() != 0o500 {
		t.Errorf("mode not restored, mode = %o", info.Mode().Perm())
	}
}

func TestStore_DestinationMissing(t *testing.T) {
	t.Parallel()

	fsys := manifestFS(`{"payloads": [{"name": "probe", "file": "probe.sh"}]}`,
		map[string]string{"probe.sh": "x"})
	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_, err = manifest.Store(filepath.Join(t.TempDir(), "does-not-exist"))
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("error = %v, want *ExtractionError", err)
	}
}

func TestStore_DestinationIsFile(t *testing.T) {
	t.Parallel()

	fsys := manifestFS(`{"payloads": [{"name": "probe", "file": "probe.sh"}]}`,
		map[string]string{"probe.sh": "x"})
	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	destFile := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(destFile, []byte("x"), 0o600); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err = manifest.Store(destFile)
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("error = %v, want *ExtractionError", err)
	}
}

func TestLoad_DuplicateName(t *testing.T) {
	t.Parallel()

	fsys := manifestFS(`{
		"payloads": [
			{"name": "probe", "file": "probe.sh"},
			{"name": "probe", "file": "other.sh"},
		]
	}`, map[string]string{"probe.sh": "x", "other.sh": "y"})

	_, err := Load(fsys)
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("error = %v, want *ExtractionError", err)
	}
	if extractionErr.Name != "probe" {
		t.Errorf("error names %q, want probe", extractionErr.Name)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest string
		files    map[string]string
	}{
		{
			name:     "missing content file",
			manifest: `{"payloads": [{"name": "probe", "file": "absent.sh"}]}`,
		},
		{
			name:     "name with path separator",
			manifest: `{"payloads": [{"name": "../escape", "file": "probe.sh"}]}`,
			files:    map[string]string{"probe.sh": "x"},
		},
		{
			name:     "invalid mode",
			manifest: `{"payloads": [{"name": "probe", "file": "probe.sh", "mode": "rwx"}]}`,
			files:    map[string]string{"probe.sh": "x"},
		},
		{
			name:     "unknown compression",
			manifest: `{"payloads": [{"name": "probe", "file": "probe.sh", "compression": "brotli"}]}`,
			files:    map[string]string{"probe.sh": "x"},
		},
		{
			name:     "empty payload list",
			manifest: `{"payloads": []}`,
		},
	}

	for _, testCase := range tests {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()
			if _, err := Load(manifestFS(testCase.manifest, testCase.files)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStore_CompressedPayloads(t *testing.T) {
	t.Parallel()

	original := bytes.Repeat([]byte("#!/bin/sh\necho compressed tool body\n"), 64)

	var zstdBuffer bytes.Buffer
	zstdWriter, err := zstd.NewWriter(&zstdBuffer)
	if err != nil {
		t.Fatalf("creating zstd writer: %v", err)
	}
	if _, err := zstdWriter.Write(original); err != nil {
		t.Fatalf("zstd write: %v", err)
	}
	if err := zstdWriter.Close(); err != nil {
		t.Fatalf("zstd close: %v", err)
	}

	var lz4Buffer bytes.Buffer
	lz4Writer := lz4.NewWriter(&lz4Buffer)
	if _, err := lz4Writer.Write(original); err != nil {
		t.Fatalf("lz4 write: %v", err)
	}
	if err := lz4Writer.Close(); err != nil {
		t.Fatalf("lz4 close: %v", err)
	}

	fsys := fstest.MapFS{
		"manifest.jsonc": &fstest.MapFile{Data: []byte(`{
			"payloads": [
				{"name": "tool-zstd", "file": "tool.zst", "compression": "zstd"},
				{"name": "tool-lz4", "file": "tool.lz4", "compression": "lz4"},
			]
		}`)},
		"tool.zst": &fstest.MapFile{Data: zstdBuffer.Bytes()},
		"tool.lz4": &fstest.MapFile{Data: lz4Buffer.Bytes()},
	}

	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	destDir := t.TempDir()
	paths, err := manifest.Store(destDir)
	if err != nil {
		t.Fatalf("store failed: %v", err)
	}

	for _, name := range []string{"tool-zstd", "tool-lz4"} {
		content, err := os.ReadFile(paths[name])
		if err != nil {
			t.Fatalf("reading %s: %v", name, err)
		}
		if !bytes.Equal(content, original) {
			t.Errorf("%s content does not match original after decompression", name)
		}
	}
}

func TestStore_CorruptCompressedPayload(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"manifest.jsonc": &fstest.MapFile{Data: []byte(
			`{"payloads": [{"name": "tool", "file": "tool.zst", "compression": "zstd"}]}`)},
		"tool.zst": &fstest.MapFile{Data: []byte("not a zstd frame")},
	}
	manifest, err := Load(fsys)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	_, err = manifest.Store(t.TempDir())
	var extractionErr *ExtractionError
	if !errors.As(err, &extractionErr) {
		t.Fatalf("error = %v, want *ExtractionError", err)
	}
}
