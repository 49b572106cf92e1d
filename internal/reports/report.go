//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package reports defines the report interface and the registry the
// report families register themselves into.
package reports

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
)

// Options carries the caller-supplied parameters a report may use.
type Options struct {
	// ReferenceDate anchors recency calculations. The zero value means
	// "derive from the data": the day after the latest sale.
	ReferenceDate time.Time

	// TopN bounds per-group ranking reports.
	TopN int

	// MinPurchases is the HAVING threshold for repeat-customer reports.
	MinPurchases int

	// Targets maps region to its revenue target for KPI comparison.
	// The target list is authoritative: regions outside it are ignored.
	Targets map[string]decimal.Decimal
}

// DefaultOptions returns the standard report parameters.
func DefaultOptions() Options {
	return Options{
		TopN:         5,
		MinPurchases: 3,
	}
}

// Table is an ordered, fully rendered result set. All cells are
// strings so the same input always produces byte-identical output
// regardless of export format.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// AddRow appends a row to the table.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Report is the interface every analytical report implements.
type Report interface {
	// Name returns the report identifier.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Category groups related reports (revenue, customers, kpi).
	Category() string

	// Run computes the report over an immutable dataset. It never
	// modifies the dataset and is safe to call repeatedly.
	Run(ds *dataset.Dataset, opts Options) (*Table, error)
}

// Money renders a monetary value with two decimals.
func Money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// OptPercent renders an optional percentage with two decimals, or the
// empty string when the value is absent (a division whose denominator
// was zero or missing).
func OptPercent(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
