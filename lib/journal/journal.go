// Copyright 2026 The MAAS Authors
// SPDX-License-Identifier: Apache-2.0

package journal

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sfeole/maas/lib/codec"
)

// FileName is the journal's name inside the execution directory.
const FileName = "bootstrap.journal"

// Record is one journal entry: the state entered, when, and an
// optional human-readable detail (BMC kind, abort cause, runner
// result).
type Record struct {
	State  State     `cbor:"state"`
	At     time.Time `cbor:"at"`
	Detail string    `cbor:"detail,omitempty"`
}

// Journal appends state transition records to a file. It is not safe
// for concurrent use; the bootstrap is strictly sequential.
type Journal struct {
	file    *os.File
	encoder *codec.Encoder
	current State
}

// Open creates (or truncates) the journal file at path and records
// StateStart.
func Open(path string) (*Journal, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}

	j := &Journal{
		file:    file,
		encoder: codec.NewEncoder(file),
		current: StateStart,
	}
	if err := j.append(StateStart, ""); err != nil {
		file.Close()
		return nil, err
	}
	return j, nil
}

// State returns the state most recently recorded.
func (j *Journal) State() State { return j.current }

// Transition validates and records a transition to state. A
// disallowed transition is a pipeline bug: nothing is recorded and an
// error is returned.
func (j *Journal) Transition(state State, detail string) error {
	if !allowed(j.current, state) {
		return fmt.Errorf("journal: disallowed transition %s -> %s", j.current, state)
	}
	if err := j.append(state, detail); err != nil {
		return err
	}
	j.current = state
	return nil
}

// Close flushes and closes the journal file.
func (j *Journal) Close() error {
	if err := j.file.Sync(); err != nil {
		j.file.Close()
		return fmt.Errorf("syncing journal: %w", err)
	}
	return j.file.Close()
}

func (j *Journal) append(state State, detail string) error {
	record := Record{State: state, At: time.Now().UTC(), Detail: detail}
	if err := j.encoder.Encode(record); err != nil {
		return fmt.Errorf("appending journal record %s: %w", state, err)
	}
	return nil
}

// ReadFile decodes a journal file into its records. Used by rack-side
// diagnostics and by tests; a truncated trailing record is reported as
// an error after the records that did decode.
func ReadFile(path string) ([]Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal %s: %w", path, err)
	}
	defer file.Close()

	var records []Record
	decoder := codec.NewDecoder(file)
	for {
		var record Record
		if err := decoder.Decode(&record); err == io.EOF {
			return records, nil
		} else if err != nil {
			return records, fmt.Errorf("decoding journal %s: %w", path, err)
		}
		records = append(records, record)
	}
}
