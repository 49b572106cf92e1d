//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package reports_test

import (
	"sort"
	"testing"

	"github.com/retailmetrics/retail-analytics/internal/reports"
	// Import report packages to trigger their init() functions which register the reports
	_ "github.com/retailmetrics/retail-analytics/internal/reports/cohort"
	_ "github.com/retailmetrics/retail-analytics/internal/reports/kpi"
	_ "github.com/retailmetrics/retail-analytics/internal/reports/revenue"
	_ "github.com/retailmetrics/retail-analytics/internal/reports/rfm"
)

var knownReports = []string{
	"monthly_revenue_trend",
	"revenue_running_total",
	"top_products_by_category",
	"sales_rollup",
	"loyal_customers",
	"cohort_retention",
	"rfm_segments",
	"rfm_segment_summary",
	"regional_kpi",
}

func TestGet(t *testing.T) {
	for _, name := range knownReports {
		t.Run(name, func(t *testing.T) {
			r, err := reports.Get(name)
			if err != nil {
				t.Fatalf("Failed to get report '%s': %v", name, err)
			}
			if r == nil {
				t.Fatalf("Get('%s') returned nil", name)
			}

			if r.Name() != name {
				t.Errorf("Report name mismatch: expected '%s', got '%s'", name, r.Name())
			}
			if r.Description() == "" {
				t.Error("Report description should not be empty")
			}
			if r.Category() == "" {
				t.Error("Report category should not be empty")
			}
		})
	}
}

func TestGetInvalidReport(t *testing.T) {
	_, err := reports.Get("nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent report, got nil")
	}
}

func TestGetEmptyName(t *testing.T) {
	_, err := reports.Get("")
	if err == nil {
		t.Error("Expected error for empty report name, got nil")
	}
}

func TestList(t *testing.T) {
	names := reports.List()
	if len(names) != len(knownReports) {
		t.Errorf("List returned %d reports, expected %d: %v", len(names), len(knownReports), names)
	}
	if !sort.StringsAreSorted(names) {
		t.Errorf("List not sorted: %v", names)
	}

	for _, expected := range knownReports {
		found := false
		for _, name := range names {
			if name == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected report '%s' not found in List()", expected)
		}
	}
}

func TestAll(t *testing.T) {
	all := reports.All()
	if len(all) != len(reports.List()) {
		t.Errorf("All returned %d reports, List returned %d", len(all), len(reports.List()))
	}

	for i := 1; i < len(all); i++ {
		if all[i-1].Name() >= all[i].Name() {
			t.Errorf("All not ordered by name: %s before %s", all[i-1].Name(), all[i].Name())
		}
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := reports.DefaultOptions()
	if opts.TopN != 5 {
		t.Errorf("TopN = %d, expected 5", opts.TopN)
	}
	if opts.MinPurchases != 3 {
		t.Errorf("MinPurchases = %d, expected 3", opts.MinPurchases)
	}
}

func BenchmarkGet(b *testing.B) {
	for i := 0; i < b.N; i++ {
		reports.Get("monthly_revenue_trend")
	}
}

func BenchmarkList(b *testing.B) {
	for i := 0; i < b.N; i++ {
		reports.List()
	}
}
