// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// WriteScript writes an executable shell script named name into dir
// and returns its absolute path. Use it to fabricate stand-ins for
// external commissioning tools.
func WriteScript(t *testing.T, dir, name, body string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o700); err != nil {
		t.Fatalf("writing script %s: %v", name, err)
	}
	return path
}

// CaptureScript writes an executable script that appends its argument
// vector (one invocation per line, arguments tab-separated) to a
// capture file, prints stdout to its caller, and exits with code. It
// returns the script path and the capture file path.
func CaptureScript(t *testing.T, dir, name, stdout string, code int) (scriptPath, capturePath string) {
	t.Helper()

	capturePath = filepath.Join(dir, name+".argv")
	body := "#!/bin/sh\n" +
		"printf '%s\\t' \"$@\" >> " + shellQuote(capturePath) + "\n" +
		"printf '\\n' >> " + shellQuote(capturePath) + "\n"
	if stdout != "" {
		body += "printf '%s\\n' " + shellQuote(stdout) + "\n"
	}
	if code != 0 {
		body += "exit " + strconv.Itoa(code) + "\n"
	}
	return WriteScript(t, dir, name, body), capturePath
}

// Invocations parses a CaptureScript capture file into one argument
// slice per invocation. A missing capture file means the tool was
// never run and yields nil.
func Invocations(t *testing.T, capturePath string) [][]string {
	t.Helper()

	data, err := os.ReadFile(capturePath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		t.Fatalf("reading capture file %s: %v", capturePath, err)
	}

	var invocations [][]string
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		invocations = append(invocations, strings.Split(strings.TrimRight(line, "\t"), "\t"))
	}
	return invocations
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
