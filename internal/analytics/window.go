//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package analytics

import (
	"cmp"
	"slices"
)

// Entry pairs an input row with a computed window value.
type Entry[T any] struct {
	Row   T
	Value float64
}

// LagEntry pairs an input row with its value and the value from n rows
// earlier in the same ordered partition. Prev is nil for the first n
// rows of each partition.
type LagEntry[T any] struct {
	Row   T
	Value float64
	Prev  *float64
}

// RankEntry pairs an input row with its rank within its partition.
type RankEntry[T any] struct {
	Row  T
	Rank int
}

// BucketEntry pairs an input row with its 1-based ntile bucket.
type BucketEntry[T any] struct {
	Row    T
	Bucket int
}

// partitioned splits rows by partition key and orders each partition by
// the order key, with input order breaking ties. Partition keys come
// back ascending so output order is deterministic.
func partitioned[T any, P cmp.Ordered, O cmp.Ordered](rows []T, partition func(T) P, order func(T) O) ([]P, map[P][]T) {
	groups := make(map[P][]T)
	for _, r := range rows {
		p := partition(r)
		groups[p] = append(groups[p], r)
	}
	keys := make([]P, 0, len(groups))
	for p := range groups {
		keys = append(keys, p)
	}
	slices.Sort(keys)
	for _, p := range keys {
		part := groups[p]
		slices.SortStableFunc(part, func(a, b T) int {
			return cmp.Compare(order(a), order(b))
		})
	}
	return keys, groups
}

// RunningTotal emits, per row in order-key order within each partition,
// the cumulative sum of the value projection over all earlier rows of
// the partition plus the current row (unbounded preceding).
func RunningTotal[T any, P cmp.Ordered, O cmp.Ordered](rows []T, partition func(T) P, order func(T) O, value func(T) float64) []Entry[T] {
	keys, groups := partitioned(rows, partition, order)

	out := make([]Entry[T], 0, len(rows))
	for _, p := range keys {
		var sum float64
		for _, r := range groups[p] {
			sum += value(r)
			out = append(out, Entry[T]{Row: r, Value: sum})
		}
	}
	return out
}

// Lag emits each row's value alongside the value n rows earlier in the
// same ordered partition. n must be at least 1.
func Lag[T any, P cmp.Ordered, O cmp.Ordered](rows []T, partition func(T) P, order func(T) O, value func(T) float64, n int) []LagEntry[T] {
	keys, groups := partitioned(rows, partition, order)

	out := make([]LagEntry[T], 0, len(rows))
	for _, p := range keys {
		part := groups[p]
		values := make([]float64, len(part))
		for i, r := range part {
			values[i] = value(r)
		}
		for i, r := range part {
			e := LagEntry[T]{Row: r, Value: values[i]}
			if i >= n {
				prev := values[i-n]
				e.Prev = &prev
			}
			out = append(out, e)
		}
	}
	return out
}

// Growth returns the relative change (current-prev)/prev, or nil when
// prev is absent or zero. Division by zero never escapes.
func Growth(current float64, prev *float64) *float64 {
	if prev == nil || *prev == 0 {
		return nil
	}
	g := (current - *prev) / *prev
	return &g
}

// Rank assigns competitive ranks within each partition, descending by
// value: tied values share a rank and the next distinct value's rank
// jumps by the size of the tie, matching SQL RANK(). Ties keep input
// order in the output.
func Rank[T any, P cmp.Ordered](rows []T, partition func(T) P, value func(T) float64) []RankEntry[T] {
	groups := make(map[P][]T)
	for _, r := range rows {
		p := partition(r)
		groups[p] = append(groups[p], r)
	}
	keys := make([]P, 0, len(groups))
	for p := range groups {
		keys = append(keys, p)
	}
	slices.Sort(keys)

	out := make([]RankEntry[T], 0, len(rows))
	for _, p := range keys {
		part := groups[p]
		slices.SortStableFunc(part, func(a, b T) int {
			return cmp.Compare(value(b), value(a))
		})
		rank := 1
		for i, r := range part {
			if i > 0 && value(r) != value(part[i-1]) {
				rank = i + 1
			}
			out = append(out, RankEntry[T]{Row: r, Rank: rank})
		}
	}
	return out
}

// Ntile deals each partition's ordered rows into n buckets of
// as-equal-as-possible size. When the row count is not divisible by n
// the earlier buckets take the extra rows, so sizes differ by at most
// one with larger buckets first, matching SQL NTILE. n below 1 yields
// no rows.
func Ntile[T any, P cmp.Ordered, O cmp.Ordered](rows []T, partition func(T) P, order func(T) O, n int) []BucketEntry[T] {
	if n < 1 {
		return nil
	}
	keys, groups := partitioned(rows, partition, order)

	out := make([]BucketEntry[T], 0, len(rows))
	for _, p := range keys {
		part := groups[p]
		base := len(part) / n
		extra := len(part) % n

		i := 0
		for bucket := 1; bucket <= n && i < len(part); bucket++ {
			size := base
			if bucket <= extra {
				size++
			}
			for j := 0; j < size; j++ {
				out = append(out, BucketEntry[T]{Row: part[i], Bucket: bucket})
				i++
			}
		}
	}
	return out
}
