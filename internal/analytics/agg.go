//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package analytics implements the grouping and window primitives the
// report catalogue is built on. Grouping and ordering criteria are
// explicit key functions on every primitive; nothing is inferred from
// the row type. All functions are pure: they never modify their input
// and the same input always produces the same output, in the same order.
package analytics

import (
	"cmp"
	"math/bits"
	"slices"
	"strings"
)

// GroupSum groups rows by key and sums a numeric projection per group.
// Empty input yields an empty map.
func GroupSum[T any, K cmp.Ordered](rows []T, key func(T) K, value func(T) float64) map[K]float64 {
	sums := make(map[K]float64, len(rows))
	for _, r := range rows {
		sums[key(r)] += value(r)
	}
	return sums
}

// GroupCount groups rows by key and counts rows per group.
func GroupCount[T any, K cmp.Ordered](rows []T, key func(T) K) map[K]int {
	counts := make(map[K]int, len(rows))
	for _, r := range rows {
		counts[key(r)]++
	}
	return counts
}

// GroupAvg groups rows by key and averages a numeric projection per
// group. Groups always have at least one row, so no division guard is
// needed here.
func GroupAvg[T any, K cmp.Ordered](rows []T, key func(T) K, value func(T) float64) map[K]float64 {
	sums := make(map[K]float64, len(rows))
	counts := make(map[K]int, len(rows))
	for _, r := range rows {
		k := key(r)
		sums[k] += value(r)
		counts[k]++
	}
	avgs := make(map[K]float64, len(sums))
	for k, s := range sums {
		avgs[k] = s / float64(counts[k])
	}
	return avgs
}

// Having filters groups after aggregation, keeping only the groups the
// predicate accepts.
func Having[K comparable, V any](groups map[K]V, keep func(K, V) bool) map[K]V {
	kept := make(map[K]V, len(groups))
	for k, v := range groups {
		if keep(k, v) {
			kept[k] = v
		}
	}
	return kept
}

// SortedKeys returns the keys of a map in ascending order. Report code
// uses it to turn group maps into deterministic row sequences.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Dimension names a rollup dimension and projects its key from a row.
type Dimension[T any] struct {
	Name string
	Key  func(T) string
}

// RollupRow is one subtotal row produced by Rollup. Keys holds one
// value per dimension, with collapsed dimensions carrying their
// "ALL <dim>" marker. Level is the number of collapsed dimensions:
// 0 is full detail, len(dims) is the grand total.
type RollupRow struct {
	Keys  []string
	Level int
	Total float64
}

// AllMarker returns the sentinel used for a collapsed dimension.
func AllMarker(dim string) string {
	return "ALL " + dim
}

// IsAllMarker reports whether a rollup key value is a collapse sentinel.
func IsAllMarker(v string) bool {
	return strings.HasPrefix(v, "ALL ")
}

// Rollup aggregates rows at every combination of the given dimensions,
// from full detail down to the single grand-total row. For N dimensions
// it emits N+1 grouping levels, finest first: level k collapses every
// choice of k dimensions to its ALL marker, so two dimensions with
// 3x2 distinct value pairs produce 6 detail rows, 3+2 single-dimension
// subtotals and 1 grand total. Within a level rows sort ascending by
// their key values with markers ordered last. Empty input yields no
// rows, including no grand total.
func Rollup[T any](rows []T, dims []Dimension[T], value func(T) float64) []RollupRow {
	if len(rows) == 0 || len(dims) == 0 {
		return nil
	}

	n := len(dims)

	type groupRow struct {
		keys  []string
		mask  uint // set bits mark collapsed dimensions
		total float64
	}

	// One grouping pass per collapse mask.
	var grouped []groupRow
	for mask := uint(0); mask < 1<<n; mask++ {
		byKey := make(map[string]*groupRow)
		var order []string
		for _, r := range rows {
			keys := make([]string, n)
			for i, d := range dims {
				if mask&(1<<i) != 0 {
					keys[i] = AllMarker(d.Name)
				} else {
					keys[i] = d.Key(r)
				}
			}
			joined := strings.Join(keys, "\x00")
			g, ok := byKey[joined]
			if !ok {
				g = &groupRow{keys: keys, mask: mask}
				byKey[joined] = g
				order = append(order, joined)
			}
			g.total += value(r)
		}
		for _, k := range order {
			grouped = append(grouped, *byKey[k])
		}
	}

	slices.SortStableFunc(grouped, func(a, b groupRow) int {
		if la, lb := bits.OnesCount(a.mask), bits.OnesCount(b.mask); la != lb {
			return cmp.Compare(la, lb)
		}
		for i := range a.keys {
			aAll := a.mask&(1<<i) != 0
			bAll := b.mask&(1<<i) != 0
			if aAll != bAll {
				// Collapsed dimension sorts after concrete values.
				if aAll {
					return 1
				}
				return -1
			}
			if c := cmp.Compare(a.keys[i], b.keys[i]); c != 0 {
				return c
			}
		}
		return 0
	})

	out := make([]RollupRow, len(grouped))
	for i, g := range grouped {
		out[i] = RollupRow{
			Keys:  g.keys,
			Level: bits.OnesCount(g.mask),
			Total: g.total,
		}
	}
	return out
}
