package kpi

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/model"
	"github.com/retailmetrics/retail-analytics/internal/reports"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCompareRegionWithoutSales(t *testing.T) {
	targets := map[string]decimal.Decimal{"North": d(50000)}
	actuals := map[string]decimal.Decimal{}

	rows := Compare(targets, actuals)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}

	r := rows[0]
	if !r.Actual.IsZero() {
		t.Errorf("actual = %s, want 0", r.Actual)
	}
	if r.Variance.String() != "-50000" {
		t.Errorf("variance = %s, want -50000", r.Variance)
	}
	if r.AchievementPct == nil || r.AchievementPct.StringFixed(2) != "0.00" {
		t.Errorf("achievement_pct = %v, want 0.00", r.AchievementPct)
	}
}

func TestCompareTargetListIsAuthoritative(t *testing.T) {
	targets := map[string]decimal.Decimal{
		"North": d(1000),
		"South": d(2000),
	}
	actuals := map[string]decimal.Decimal{
		"North": d(1500),
		"East":  d(9999), // no target, must not appear
	}

	rows := Compare(targets, actuals)
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Region != "North" || rows[1].Region != "South" {
		t.Fatalf("regions = %s, %s, want North, South", rows[0].Region, rows[1].Region)
	}

	if rows[0].Variance.String() != "500" {
		t.Errorf("North variance = %s, want 500", rows[0].Variance)
	}
	if rows[0].AchievementPct.StringFixed(2) != "150.00" {
		t.Errorf("North achievement = %s, want 150.00", rows[0].AchievementPct)
	}
	if rows[1].Variance.String() != "-2000" {
		t.Errorf("South variance = %s, want -2000", rows[1].Variance)
	}
}

func TestCompareZeroTarget(t *testing.T) {
	targets := map[string]decimal.Decimal{"North": decimal.Zero}
	actuals := map[string]decimal.Decimal{"North": d(100)}

	rows := Compare(targets, actuals)
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].AchievementPct != nil {
		t.Errorf("achievement_pct = %s, want nil for zero target", rows[0].AchievementPct)
	}
	if rows[0].Variance.String() != "100" {
		t.Errorf("variance = %s, want 100", rows[0].Variance)
	}
}

func TestCompareRoundsToTwoDecimals(t *testing.T) {
	targets := map[string]decimal.Decimal{"North": d(3)}
	actuals := map[string]decimal.Decimal{"North": d(1)}

	rows := Compare(targets, actuals)
	if got := rows[0].AchievementPct.StringFixed(2); got != "33.33" {
		t.Errorf("achievement_pct = %s, want 33.33", got)
	}
}

func TestActualsByRegion(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ds, err := dataset.New(
		[]model.Customer{{ID: 1, Name: "A", SignupDate: day}},
		[]model.Store{
			{ID: 1, Name: "S1", Region: "North"},
			{ID: 2, Name: "S2", Region: "North"},
			{ID: 3, Name: "S3", Region: "South"},
		},
		[]model.Product{{ID: 1, Name: "P", Category: "Toys",
			UnitCost: d(1), UnitPrice: d(10)}},
		[]model.SaleTransaction{
			{ID: 1, CustomerID: 1, ProductID: 1, StoreID: 1, SaleDate: day, Quantity: 2, UnitPrice: d(10)},
			{ID: 2, CustomerID: 1, ProductID: 1, StoreID: 2, SaleDate: day, Quantity: 1, UnitPrice: d(10)},
			{ID: 3, CustomerID: 1, ProductID: 1, StoreID: 3, SaleDate: day, Quantity: 3, UnitPrice: d(10)},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	actuals, err := ActualsByRegion(ds)
	if err != nil {
		t.Fatal(err)
	}
	if actuals["North"].String() != "30" {
		t.Errorf("North = %s, want 30", actuals["North"])
	}
	if actuals["South"].String() != "30" {
		t.Errorf("South = %s, want 30", actuals["South"])
	}
}

func TestRegionalKPIReport(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	ds, err := dataset.New(
		[]model.Customer{{ID: 1, Name: "A", SignupDate: day}},
		[]model.Store{{ID: 1, Name: "S1", Region: "North"}},
		[]model.Product{{ID: 1, Name: "P", Category: "Toys",
			UnitCost: d(1), UnitPrice: d(10)}},
		[]model.SaleTransaction{
			{ID: 1, CustomerID: 1, ProductID: 1, StoreID: 1, SaleDate: day, Quantity: 5, UnitPrice: d(10)},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	opts := reports.DefaultOptions()
	opts.Targets = map[string]decimal.Decimal{
		"North": d(100),
		"South": d(50000),
	}

	table, err := regionalKPIReport{}.Run(ds, opts)
	if err != nil {
		t.Fatal(err)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}

	north := table.Rows[0]
	if north[0] != "North" || north[2] != "50.00" || north[3] != "-50.00" || north[4] != "50.00" {
		t.Errorf("North row = %v", north)
	}
	south := table.Rows[1]
	if south[0] != "South" || south[3] != "-50000.00" || south[4] != "0.00" {
		t.Errorf("South row = %v", south)
	}
}
