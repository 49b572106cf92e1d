//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cohort builds the signup-month retention matrix: how many of
// each month's new customers were still transacting k months later.
package cohort

import (
	"sort"
	"strconv"
	"time"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/model"
	"github.com/retailmetrics/retail-analytics/internal/reports"
)

// PeriodIndex returns the number of whole months between a cohort
// month and an order month. Both arguments are expected to be
// month-truncated. The index is correct across year boundaries:
// cohort December 2022, order February 2023 is period 2.
func PeriodIndex(cohort, orderMonth time.Time) int {
	return (orderMonth.Year()-cohort.Year())*12 + int(orderMonth.Month()-cohort.Month())
}

// PeriodCell is one cohort's activity in one period.
type PeriodCell struct {
	Period int
	Active int
	// RetentionPct is nil when the cohort has no members.
	RetentionPct *float64
}

// Row is one cohort of the retention matrix.
type Row struct {
	Cohort  time.Time
	Size    int
	Periods []PeriodCell
}

// Retention assigns every customer to the cohort of their signup month
// and counts, per cohort and period, the distinct customers with at
// least one transaction in that period. Each cohort reports contiguous
// periods from 0 through the months between the cohort and the latest
// sale month in the dataset; sales dated before signup fall outside
// that range and are not reported.
func Retention(ds *dataset.Dataset) ([]Row, error) {
	cohortSize := make(map[time.Time]int)
	for i := range ds.Customers {
		cohortSize[model.Month(ds.Customers[i].SignupDate)]++
	}

	var latest time.Time
	active := make(map[time.Time]map[int]map[int]struct{})
	for i := range ds.Sales {
		t := &ds.Sales[i]
		c, err := ds.Customer(t.CustomerID)
		if err != nil {
			return nil, err
		}

		cohort := model.Month(c.SignupDate)
		orderMonth := model.Month(t.SaleDate)
		if orderMonth.After(latest) {
			latest = orderMonth
		}

		period := PeriodIndex(cohort, orderMonth)
		periods, ok := active[cohort]
		if !ok {
			periods = make(map[int]map[int]struct{})
			active[cohort] = periods
		}
		customers, ok := periods[period]
		if !ok {
			customers = make(map[int]struct{})
			periods[period] = customers
		}
		customers[c.ID] = struct{}{}
	}

	cohorts := make([]time.Time, 0, len(cohortSize))
	for c := range cohortSize {
		cohorts = append(cohorts, c)
	}
	sort.Slice(cohorts, func(i, j int) bool { return cohorts[i].Before(cohorts[j]) })

	rows := make([]Row, 0, len(cohorts))
	for _, cohort := range cohorts {
		size := cohortSize[cohort]

		maxPeriod := 0
		if !latest.IsZero() {
			if p := PeriodIndex(cohort, latest); p > 0 {
				maxPeriod = p
			}
		}

		row := Row{Cohort: cohort, Size: size}
		for p := 0; p <= maxPeriod; p++ {
			cell := PeriodCell{Period: p, Active: len(active[cohort][p])}
			if size > 0 {
				pct := float64(cell.Active) / float64(size) * 100
				cell.RetentionPct = &pct
			}
			row.Periods = append(row.Periods, cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

type retentionReport struct{}

func (retentionReport) Name() string     { return "cohort_retention" }
func (retentionReport) Category() string { return "customers" }
func (retentionReport) Description() string {
	return "Monthly signup cohorts with per-period retention"
}

func (retentionReport) Run(ds *dataset.Dataset, _ reports.Options) (*reports.Table, error) {
	rows, err := Retention(ds)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name:    "cohort_retention",
		Columns: []string{"cohort_month", "cohort_size", "period", "active_customers", "retention_pct"},
	}
	for _, r := range rows {
		for _, cell := range r.Periods {
			t.AddRow(
				model.MonthKey(r.Cohort),
				strconv.Itoa(r.Size),
				strconv.Itoa(cell.Period),
				strconv.Itoa(cell.Active),
				reports.OptPercent(cell.RetentionPct),
			)
		}
	}
	return t, nil
}

func init() {
	reports.Register(retentionReport{})
}
