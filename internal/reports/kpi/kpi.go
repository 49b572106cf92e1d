//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package kpi compares actual regional revenue against static targets.
package kpi

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/reports"
)

// Row is one region's target-vs-actual comparison.
type Row struct {
	Region   string
	Target   decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
	// AchievementPct is actual/target as a percentage rounded to two
	// decimals, nil when the target is zero.
	AchievementPct *decimal.Decimal
}

// ActualsByRegion sums revenue per store region.
func ActualsByRegion(ds *dataset.Dataset) (map[string]decimal.Decimal, error) {
	actuals := make(map[string]decimal.Decimal)
	for i := range ds.Sales {
		t := &ds.Sales[i]
		store, err := ds.Store(t.StoreID)
		if err != nil {
			return nil, err
		}
		actuals[store.Region] = actuals[store.Region].Add(t.TotalAmount())
	}
	return actuals, nil
}

// Compare joins actuals onto the target list. The target list is
// authoritative: every target region appears in the output, with
// actual defaulting to zero, and regions without a target are
// excluded. Output is ordered by region ascending.
func Compare(targets, actuals map[string]decimal.Decimal) []Row {
	regions := make([]string, 0, len(targets))
	for region := range targets {
		regions = append(regions, region)
	}
	sort.Strings(regions)

	rows := make([]Row, 0, len(regions))
	for _, region := range regions {
		target := targets[region]
		actual := actuals[region] // zero value when the region had no sales

		row := Row{
			Region:   region,
			Target:   target,
			Actual:   actual,
			Variance: actual.Sub(target),
		}
		if !target.IsZero() {
			pct := actual.Div(target).Mul(decimal.NewFromInt(100)).Round(2)
			row.AchievementPct = &pct
		}
		rows = append(rows, row)
	}
	return rows
}

type regionalKPIReport struct{}

func (regionalKPIReport) Name() string     { return "regional_kpi" }
func (regionalKPIReport) Category() string { return "kpi" }
func (regionalKPIReport) Description() string {
	return "Regional revenue against target: variance and achievement"
}

func (regionalKPIReport) Run(ds *dataset.Dataset, opts reports.Options) (*reports.Table, error) {
	actuals, err := ActualsByRegion(ds)
	if err != nil {
		return nil, err
	}
	rows := Compare(opts.Targets, actuals)

	t := &reports.Table{
		Name:    "regional_kpi",
		Columns: []string{"region", "target", "actual", "variance", "achievement_pct"},
	}
	for _, r := range rows {
		pct := ""
		if r.AchievementPct != nil {
			pct = r.AchievementPct.StringFixed(2)
		}
		t.AddRow(r.Region, r.Target.StringFixed(2), r.Actual.StringFixed(2),
			r.Variance.StringFixed(2), pct)
	}
	return t, nil
}

func init() {
	reports.Register(regionalKPIReport{})
}
