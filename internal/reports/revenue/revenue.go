//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package revenue implements the revenue report family: monthly trend
// with growth, cumulative regional revenue, per-category product
// ranking, region/store subtotals and repeat-customer analysis.
package revenue

import (
	"strconv"
	"strings"

	"github.com/retailmetrics/retail-analytics/internal/analytics"
	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/model"
	"github.com/retailmetrics/retail-analytics/internal/reports"
)

// MonthlyRow is one month of the revenue trend.
type MonthlyRow struct {
	Month     string
	Revenue   float64
	Profit    float64
	Prev      *float64
	GrowthPct *float64
}

// MonthlyTrend aggregates revenue and profit per calendar month and
// derives month-over-month growth. Growth is absent for the first
// month and for months following a zero-revenue month.
func MonthlyTrend(ds *dataset.Dataset) ([]MonthlyRow, error) {
	revenue := make(map[string]float64)
	profit := make(map[string]float64)
	for i := range ds.Sales {
		t := &ds.Sales[i]
		p, err := ds.Profit(t)
		if err != nil {
			return nil, err
		}
		m := model.MonthKey(t.SaleDate)
		revenue[m] += t.TotalAmount().InexactFloat64()
		profit[m] += p
	}

	months := analytics.SortedKeys(revenue)
	rows := make([]MonthlyRow, 0, len(months))
	for _, m := range months {
		rows = append(rows, MonthlyRow{Month: m, Revenue: revenue[m], Profit: profit[m]})
	}

	lagged := analytics.Lag(rows,
		func(MonthlyRow) int { return 0 },
		func(r MonthlyRow) string { return r.Month },
		func(r MonthlyRow) float64 { return r.Revenue },
		1)

	out := make([]MonthlyRow, 0, len(lagged))
	for _, e := range lagged {
		r := e.Row
		r.Prev = e.Prev
		r.GrowthPct = scale(analytics.Growth(e.Value, e.Prev), 100)
		out = append(out, r)
	}
	return out, nil
}

func scale(v *float64, by float64) *float64 {
	if v == nil {
		return nil
	}
	s := *v * by
	return &s
}

// RegionMonth aggregates sales to one row per region and month.
type RegionMonth struct {
	Region  string
	Month   string
	Revenue float64
}

func byRegionAndMonth(ds *dataset.Dataset) ([]RegionMonth, error) {
	sums := make(map[string]float64)
	for i := range ds.Sales {
		t := &ds.Sales[i]
		store, err := ds.Store(t.StoreID)
		if err != nil {
			return nil, err
		}
		key := store.Region + "\x00" + model.MonthKey(t.SaleDate)
		sums[key] += t.TotalAmount().InexactFloat64()
	}

	rows := make([]RegionMonth, 0, len(sums))
	for _, key := range analytics.SortedKeys(sums) {
		region, month, _ := strings.Cut(key, "\x00")
		rows = append(rows, RegionMonth{Region: region, Month: month, Revenue: sums[key]})
	}
	return rows, nil
}

// RunningTotals computes the cumulative monthly revenue per region.
func RunningTotals(ds *dataset.Dataset) ([]analytics.Entry[RegionMonth], error) {
	rows, err := byRegionAndMonth(ds)
	if err != nil {
		return nil, err
	}
	return analytics.RunningTotal(rows,
		func(r RegionMonth) string { return r.Region },
		func(r RegionMonth) string { return r.Month },
		func(r RegionMonth) float64 { return r.Revenue }), nil
}

// ProductRevenue is a product's total revenue within its category.
type ProductRevenue struct {
	Category string
	Product  string
	Brand    string
	Revenue  float64
}

// TopProducts ranks products by revenue within each category and keeps
// ranks up to topN. Ties share a rank and are all kept, so a tie at
// the boundary can return more than topN products per category.
func TopProducts(ds *dataset.Dataset, topN int) ([]analytics.RankEntry[ProductRevenue], error) {
	byProduct := make(map[int]float64)
	for i := range ds.Sales {
		t := &ds.Sales[i]
		byProduct[t.ProductID] += t.TotalAmount().InexactFloat64()
	}

	rows := make([]ProductRevenue, 0, len(byProduct))
	for _, id := range analytics.SortedKeys(byProduct) {
		p, err := ds.Product(id)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ProductRevenue{
			Category: p.Category,
			Product:  p.Name,
			Brand:    p.Brand,
			Revenue:  byProduct[id],
		})
	}

	ranked := analytics.Rank(rows,
		func(r ProductRevenue) string { return r.Category },
		func(r ProductRevenue) float64 { return r.Revenue })

	kept := ranked[:0:0]
	for _, e := range ranked {
		if e.Rank <= topN {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

// RegionStoreRollup produces revenue subtotals over the region and
// store dimensions, from per-store detail up to the grand total.
func RegionStoreRollup(ds *dataset.Dataset) ([]analytics.RollupRow, error) {
	type regionStore struct {
		region, store string
		revenue       float64
	}

	rows := make([]regionStore, 0, len(ds.Sales))
	for i := range ds.Sales {
		t := &ds.Sales[i]
		store, err := ds.Store(t.StoreID)
		if err != nil {
			return nil, err
		}
		rows = append(rows, regionStore{
			region:  store.Region,
			store:   store.Name,
			revenue: t.TotalAmount().InexactFloat64(),
		})
	}

	dims := []analytics.Dimension[regionStore]{
		{Name: "region", Key: func(r regionStore) string { return r.region }},
		{Name: "store", Key: func(r regionStore) string { return r.store }},
	}
	return analytics.Rollup(rows, dims, func(r regionStore) float64 { return r.revenue }), nil
}

// LoyalCustomer is a customer who cleared the repeat-purchase bar.
type LoyalCustomer struct {
	CustomerID int
	Name       string
	City       string
	Purchases  int
	Revenue    float64
}

// LoyalCustomers keeps customers with at least minPurchases
// transactions, ordered by revenue descending with customer id as the
// tie-break.
func LoyalCustomers(ds *dataset.Dataset, minPurchases int) ([]LoyalCustomer, error) {
	counts := analytics.GroupCount(ds.Sales, func(t model.SaleTransaction) int { return t.CustomerID })
	revenue := analytics.GroupSum(ds.Sales,
		func(t model.SaleTransaction) int { return t.CustomerID },
		func(t model.SaleTransaction) float64 { return t.TotalAmount().InexactFloat64() })

	kept := analytics.Having(counts, func(_ int, n int) bool { return n >= minPurchases })

	rows := make([]LoyalCustomer, 0, len(kept))
	for _, id := range analytics.SortedKeys(kept) {
		c, err := ds.Customer(id)
		if err != nil {
			return nil, err
		}
		rows = append(rows, LoyalCustomer{
			CustomerID: id,
			Name:       c.Name,
			City:       c.City,
			Purchases:  kept[id],
			Revenue:    revenue[id],
		})
	}

	ranked := analytics.Rank(rows,
		func(LoyalCustomer) int { return 0 },
		func(r LoyalCustomer) float64 { return r.Revenue })

	out := make([]LoyalCustomer, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, e.Row)
	}
	return out, nil
}

type monthlyTrendReport struct{}

func (monthlyTrendReport) Name() string     { return "monthly_revenue_trend" }
func (monthlyTrendReport) Category() string { return "revenue" }
func (monthlyTrendReport) Description() string {
	return "Revenue and profit per month with month-over-month growth"
}

func (monthlyTrendReport) Run(ds *dataset.Dataset, _ reports.Options) (*reports.Table, error) {
	rows, err := MonthlyTrend(ds)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name:    "monthly_revenue_trend",
		Columns: []string{"month", "revenue", "profit", "prev_revenue", "growth_pct"},
	}
	for _, r := range rows {
		prev := ""
		if r.Prev != nil {
			prev = reports.Money(*r.Prev)
		}
		t.AddRow(r.Month, reports.Money(r.Revenue), reports.Money(r.Profit),
			prev, reports.OptPercent(r.GrowthPct))
	}
	return t, nil
}

type runningTotalReport struct{}

func (runningTotalReport) Name() string     { return "revenue_running_total" }
func (runningTotalReport) Category() string { return "revenue" }
func (runningTotalReport) Description() string {
	return "Cumulative monthly revenue per region"
}

func (runningTotalReport) Run(ds *dataset.Dataset, _ reports.Options) (*reports.Table, error) {
	entries, err := RunningTotals(ds)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name:    "revenue_running_total",
		Columns: []string{"region", "month", "revenue", "cumulative_revenue"},
	}
	for _, e := range entries {
		t.AddRow(e.Row.Region, e.Row.Month, reports.Money(e.Row.Revenue), reports.Money(e.Value))
	}
	return t, nil
}

type topProductsReport struct{}

func (topProductsReport) Name() string     { return "top_products_by_category" }
func (topProductsReport) Category() string { return "revenue" }
func (topProductsReport) Description() string {
	return "Top selling products per category, ranked by revenue"
}

func (topProductsReport) Run(ds *dataset.Dataset, opts reports.Options) (*reports.Table, error) {
	entries, err := TopProducts(ds, opts.TopN)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name:    "top_products_by_category",
		Columns: []string{"category", "rank", "product", "brand", "revenue"},
	}
	for _, e := range entries {
		t.AddRow(e.Row.Category, strconv.Itoa(e.Rank), e.Row.Product, e.Row.Brand,
			reports.Money(e.Row.Revenue))
	}
	return t, nil
}

type rollupReport struct{}

func (rollupReport) Name() string     { return "sales_rollup" }
func (rollupReport) Category() string { return "revenue" }
func (rollupReport) Description() string {
	return "Revenue subtotals by region and store, down to the grand total"
}

func (rollupReport) Run(ds *dataset.Dataset, _ reports.Options) (*reports.Table, error) {
	rows, err := RegionStoreRollup(ds)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name:    "sales_rollup",
		Columns: []string{"region", "store", "revenue"},
	}
	for _, r := range rows {
		t.AddRow(r.Keys[0], r.Keys[1], reports.Money(r.Total))
	}
	return t, nil
}

type loyalCustomersReport struct{}

func (loyalCustomersReport) Name() string     { return "loyal_customers" }
func (loyalCustomersReport) Category() string { return "revenue" }
func (loyalCustomersReport) Description() string {
	return "Customers with repeated purchases and their total spend"
}

func (loyalCustomersReport) Run(ds *dataset.Dataset, opts reports.Options) (*reports.Table, error) {
	rows, err := LoyalCustomers(ds, opts.MinPurchases)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name:    "loyal_customers",
		Columns: []string{"customer_id", "customer", "city", "purchases", "revenue"},
	}
	for _, r := range rows {
		t.AddRow(strconv.Itoa(r.CustomerID), r.Name, r.City,
			strconv.Itoa(r.Purchases), reports.Money(r.Revenue))
	}
	return t, nil
}

func init() {
	reports.Register(monthlyTrendReport{})
	reports.Register(runningTotalReport{})
	reports.Register(topProductsReport{})
	reports.Register(rollupReport{})
	reports.Register(loyalCustomersReport{})
}
