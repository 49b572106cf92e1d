//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package export writes rendered report tables to disk as CSV or JSON
// and records a manifest describing the run.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/retailmetrics/retail-analytics/internal/logging"
	"github.com/retailmetrics/retail-analytics/internal/reports"
	"github.com/retailmetrics/retail-analytics/pkg/version"
)

// Supported output formats.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ManifestFile is the name of the run manifest within the output
// directory.
const ManifestFile = "manifest.json"

// Manifest describes one export run.
type Manifest struct {
	RunID      string    `json:"run_id"`
	Version    string    `json:"version"`
	Format     string    `json:"format"`
	ExportedAt time.Time `json:"exported_at"`
	Files      []string  `json:"files"`
}

// ValidFormat reports whether format names a supported output format.
func ValidFormat(format string) bool {
	return format == FormatCSV || format == FormatJSON
}

// WriteAll writes every table into dir in the requested format, one
// file per table named after the table, then writes the manifest. The
// directory is created if needed.
func WriteAll(dir, format string, tables []*reports.Table) (*Manifest, error) {
	if !ValidFormat(format) {
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	m := &Manifest{
		RunID:      uuid.NewString(),
		Version:    version.Version,
		Format:     format,
		ExportedAt: time.Now().UTC(),
	}

	for _, table := range tables {
		name := table.Name + "." + format
		path := filepath.Join(dir, name)

		var err error
		switch format {
		case FormatCSV:
			err = writeCSV(path, table)
		case FormatJSON:
			err = writeJSON(path, table)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to export %s: %w", table.Name, err)
		}

		m.Files = append(m.Files, name)
		logging.Debug().Str("report", table.Name).Str("file", name).
			Int("rows", len(table.Rows)).Msg("Exported report")
	}

	if err := writeJSONValue(filepath.Join(dir, ManifestFile), m); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	logging.Info().
		Str("run_id", m.RunID).
		Str("dir", dir).
		Str("format", format).
		Int("reports", len(tables)).
		Msg("Export complete")
	return m, nil
}

func writeCSV(path string, table *reports.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return err
	}
	return f.Close()
}

func writeJSON(path string, table *reports.Table) error {
	return writeJSONValue(path, table)
}

func writeJSONValue(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return f.Close()
}

// ReadManifest loads the manifest from an output directory.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}
	return &m, nil
}
