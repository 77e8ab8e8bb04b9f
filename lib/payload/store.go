// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package payload

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// ExtractionError reports a payload that could not be materialized.
// Extraction failures are fatal to the bootstrap; the pipeline
// distinguishes them from tool failures with errors.As.
type ExtractionError struct {
	// Name is the payload involved, empty when the failure concerns
	// the destination directory as a whole.
	Name string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("payload extraction: %v", e.Err)
	}
	return fmt.Sprintf("extracting payload %s: %v", e.Name, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// Store materializes every payload into destDir and returns the
// extracted path of each payload by name. Content is written
// decompressed with the payload's permission bits.
//
// Store is idempotent: a file whose content digest and mode already
// match the payload is left in place, so re-running a bootstrap
// against a populated execution directory is safe.
func (m *Manifest) Store(destDir string) (map[string]string, error) {
	info, err := os.Stat(destDir)
	if err != nil {
		return nil, &ExtractionError{Err: fmt.Errorf("destination %s: %w", destDir, err)}
	}
	if !info.IsDir() {
		return nil, &ExtractionError{Err: fmt.Errorf("destination %s is not a directory", destDir)}
	}
	if err := unix.Access(destDir, unix.W_OK); err != nil {
		return nil, &ExtractionError{Err: fmt.Errorf("destination %s is not writable: %w", destDir, err)}
	}

	paths := make(map[string]string, len(m.payloads))
	for _, p := range m.payloads {
		path := filepath.Join(destDir, p.Name)
		if err := extract(p, path); err != nil {
			return nil, &ExtractionError{Name: p.Name, Err: err}
		}
		paths[p.Name] = path
	}
	return paths, nil
}

func extract(p Payload, path string) error {
	content, err := p.Compression.decode(p.Content)
	if err != nil {
		return err
	}

	if upToDate(path, content, p.Mode) {
		return nil
	}

	if err := os.WriteFile(path, content, p.Mode); err != nil {
		return err
	}
	// WriteFile applies the mode only when it creates the file; an
	// overwritten file keeps its old bits without this.
	if err := os.Chmod(path, p.Mode); err != nil {
		return err
	}

	// Re-read and verify. A digest mismatch here means the write was
	// torn or the filesystem is lying; the tool must not be trusted.
	written, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("verifying written payload: %w", err)
	}
	if digest(written) != digest(content) {
		return fmt.Errorf("digest mismatch after write")
	}
	return nil
}

// upToDate reports whether the file at path already holds exactly
// content with exactly mode.
func upToDate(path string, content []byte, mode fs.FileMode) bool {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() || info.Mode().Perm() != mode.Perm() {
		return false
	}
	existing, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if len(existing) != len(content) {
		return false
	}
	return digest(existing) == digest(content)
}
