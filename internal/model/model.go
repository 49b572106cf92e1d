//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package model defines the in-memory star schema: three dimension row
// types plus the sales fact. Rows are loaded once per analysis run and
// treated as read-only afterwards; derived monetary values are computed,
// never stored.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer is a row of the customer dimension.
type Customer struct {
	ID         int
	Name       string
	Email      string
	City       string
	SignupDate time.Time
}

// Store is a row of the store dimension.
type Store struct {
	ID      int
	Name    string
	City    string
	Region  string
	Manager string
}

// Product is a row of the product dimension.
// UnitCost and UnitPrice must both be non-negative.
type Product struct {
	ID       int
	Name     string
	Category string
	Brand    string
	UnitCost decimal.Decimal
	UnitPrice decimal.Decimal
}

// SaleTransaction is a row of the sales fact table.
//
// UnitPrice is the price charged at the time of sale, which may differ
// from the product's current list price. PromotionID is nil when the
// sale was not tied to a promotion.
type SaleTransaction struct {
	ID          int
	CustomerID  int
	ProductID   int
	StoreID     int
	SaleDate    time.Time
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
	PromotionID *int
}

// TotalAmount returns quantity x unit price at sale. The discount is not
// applied here; it is a separate deduction in the profit calculation.
func (s *SaleTransaction) TotalAmount() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity)))
}

// Profit returns the margin on this sale against the given product:
// total amount minus quantity x unit cost, minus the discount.
func (s *SaleTransaction) Profit(p *Product) decimal.Decimal {
	cost := p.UnitCost.Mul(decimal.NewFromInt(int64(s.Quantity)))
	return s.TotalAmount().Sub(cost).Sub(s.Discount)
}

// Month truncates a timestamp to the first day of its month in UTC.
// Cohort assignment and monthly bucketing both rely on this.
func Month(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthKey formats a timestamp as its YYYY-MM bucket.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}
