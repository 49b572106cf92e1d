//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package rfm scores customers on recency, frequency and monetary
// value and maps the scores to marketing segments.
package rfm

import (
	"strconv"
	"time"

	"github.com/retailmetrics/retail-analytics/internal/analytics"
	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/reports"
)

// Score is one customer's RFM profile. Only customers with at least
// one transaction are scored; without a sale there is no recency.
type Score struct {
	CustomerID  int
	Name        string
	RecencyDays int
	Frequency   int
	Monetary    float64
	R, F, M     int
	Segment     string
}

// segmentRules is evaluated in order; the first match wins.
var segmentRules = []struct {
	Name  string
	Match func(r, f, m int) bool
}{
	{"Champion", func(r, f, m int) bool { return r >= 4 && f >= 4 && m >= 4 }},
	{"Loyal", func(r, f, m int) bool { return r >= 3 && f >= 3 && m >= 3 }},
	{"New", func(r, f, m int) bool { return r >= 4 && f <= 2 && m <= 2 }},
	{"At Risk", func(r, f, m int) bool { return r <= 2 && f >= 3 && m >= 3 }},
}

// SegmentNames lists the segments in rule order, "Others" last.
func SegmentNames() []string {
	names := make([]string, 0, len(segmentRules)+1)
	for _, rule := range segmentRules {
		names = append(names, rule.Name)
	}
	return append(names, "Others")
}

// Classify maps an RFM score triple to its segment.
func Classify(r, f, m int) string {
	for _, rule := range segmentRules {
		if rule.Match(r, f, m) {
			return rule.Name
		}
	}
	return "Others"
}

// ReferenceDate returns the day after the latest sale, the natural
// anchor for recency when the caller does not supply one.
func ReferenceDate(ds *dataset.Dataset) time.Time {
	var latest time.Time
	for i := range ds.Sales {
		if d := ds.Sales[i].SaleDate; d.After(latest) {
			latest = d
		}
	}
	return latest.AddDate(0, 0, 1)
}

// Scores computes RFM scores for every transacting customer. Each
// metric is bucketed independently with ntile(5): recency descending,
// so the most recent buyers score 5, and frequency and monetary
// ascending, so the heaviest buyers and spenders score 5.
func Scores(ds *dataset.Dataset, reference time.Time) ([]Score, error) {
	if reference.IsZero() {
		reference = ReferenceDate(ds)
	}

	last := make(map[int]time.Time)
	frequency := make(map[int]int)
	monetary := make(map[int]float64)
	for i := range ds.Sales {
		t := &ds.Sales[i]
		if t.SaleDate.After(last[t.CustomerID]) {
			last[t.CustomerID] = t.SaleDate
		}
		frequency[t.CustomerID]++
		monetary[t.CustomerID] += t.TotalAmount().InexactFloat64()
	}

	ids := analytics.SortedKeys(frequency)
	scores := make(map[int]*Score, len(ids))
	for _, id := range ids {
		c, err := ds.Customer(id)
		if err != nil {
			return nil, err
		}
		scores[id] = &Score{
			CustomerID:  id,
			Name:        c.Name,
			RecencyDays: int(reference.Sub(last[id]).Hours() / 24),
			Frequency:   frequency[id],
			Monetary:    monetary[id],
		}
	}

	one := func(int) int { return 0 }
	for _, e := range analytics.Ntile(ids, one,
		func(id int) int { return -scores[id].RecencyDays }, 5) {
		scores[e.Row].R = e.Bucket
	}
	for _, e := range analytics.Ntile(ids, one,
		func(id int) int { return scores[id].Frequency }, 5) {
		scores[e.Row].F = e.Bucket
	}
	for _, e := range analytics.Ntile(ids, one,
		func(id int) float64 { return scores[id].Monetary }, 5) {
		scores[e.Row].M = e.Bucket
	}

	out := make([]Score, 0, len(ids))
	for _, id := range ids {
		s := scores[id]
		s.Segment = Classify(s.R, s.F, s.M)
		out = append(out, *s)
	}
	return out, nil
}

type segmentsReport struct{}

func (segmentsReport) Name() string     { return "rfm_segments" }
func (segmentsReport) Category() string { return "customers" }
func (segmentsReport) Description() string {
	return "Per-customer recency/frequency/monetary scores and segment"
}

func (segmentsReport) Run(ds *dataset.Dataset, opts reports.Options) (*reports.Table, error) {
	scores, err := Scores(ds, opts.ReferenceDate)
	if err != nil {
		return nil, err
	}

	t := &reports.Table{
		Name: "rfm_segments",
		Columns: []string{"customer_id", "customer", "recency_days", "frequency",
			"monetary", "r", "f", "m", "segment"},
	}
	for _, s := range scores {
		t.AddRow(
			strconv.Itoa(s.CustomerID), s.Name,
			strconv.Itoa(s.RecencyDays), strconv.Itoa(s.Frequency),
			reports.Money(s.Monetary),
			strconv.Itoa(s.R), strconv.Itoa(s.F), strconv.Itoa(s.M),
			s.Segment,
		)
	}
	return t, nil
}

type segmentSummaryReport struct{}

func (segmentSummaryReport) Name() string     { return "rfm_segment_summary" }
func (segmentSummaryReport) Category() string { return "customers" }
func (segmentSummaryReport) Description() string {
	return "Customer count and revenue per RFM segment"
}

func (segmentSummaryReport) Run(ds *dataset.Dataset, opts reports.Options) (*reports.Table, error) {
	scores, err := Scores(ds, opts.ReferenceDate)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	revenue := make(map[string]float64)
	for _, s := range scores {
		counts[s.Segment]++
		revenue[s.Segment] += s.Monetary
	}

	t := &reports.Table{
		Name:    "rfm_segment_summary",
		Columns: []string{"segment", "customers", "revenue"},
	}
	for _, name := range SegmentNames() {
		if counts[name] == 0 {
			continue
		}
		t.AddRow(name, strconv.Itoa(counts[name]), reports.Money(revenue[name]))
	}
	return t, nil
}

func init() {
	reports.Register(segmentsReport{})
	reports.Register(segmentSummaryReport{})
}
