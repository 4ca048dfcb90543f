// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report writes a YAML record of a renamer or bundler run.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.yaml.in/yaml/v3"
)

// Report is the document written after a run. Entries holds the
// tool-specific per-file or per-group records.
type Report struct {
	Tool       string            `yaml:"tool"`
	RunID      string            `yaml:"run_id"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Inputs     map[string]string `yaml:"inputs"`
	Entries    any               `yaml:"entries"`
	Errors     []string          `yaml:"errors,omitempty"`
	Fatal      string            `yaml:"fatal,omitempty"`
}

// New starts a report for tool with a fresh run ID.
func New(tool string, inputs map[string]string) *Report {
	return &Report{
		Tool:      tool,
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Inputs:    inputs,
	}
}

// Finish stamps the end time and records the outcome.
func (r *Report) Finish(entries any, errs []string, fatal error) {
	r.FinishedAt = time.Now().UTC()
	r.Entries = entries
	r.Errors = errs
	if fatal != nil {
		r.Fatal = fatal.Error()
	}
}

// Write marshals the report to path through a temporary file in the same
// directory, so a reader never sees a partial document.
func Write(fsys afero.Fs, r *Report, path string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(fsys, dir, ".report-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("writing report: %w", writeErr)
	}
	if closeErr != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		fsys.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Read loads a report previously written by Write. Entries decode as
// generic YAML values.
func Read(fsys afero.Fs, path string) (*Report, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	return &r, nil
}
