package analytics

import (
	"reflect"
	"testing"
)

type sale struct {
	region string
	store  string
	amount float64
}

func TestGroupSum(t *testing.T) {
	rows := []sale{
		{"North", "S1", 10},
		{"North", "S2", 5},
		{"South", "S3", 7.5},
	}

	sums := GroupSum(rows, func(s sale) string { return s.region }, func(s sale) float64 { return s.amount })

	want := map[string]float64{"North": 15, "South": 7.5}
	if !reflect.DeepEqual(sums, want) {
		t.Errorf("GroupSum = %v, want %v", sums, want)
	}
}

func TestGroupSumEmpty(t *testing.T) {
	sums := GroupSum([]sale{}, func(s sale) string { return s.region }, func(s sale) float64 { return s.amount })
	if len(sums) != 0 {
		t.Errorf("GroupSum of empty input should be empty, got %v", sums)
	}
}

func TestGroupAvg(t *testing.T) {
	rows := []sale{
		{"North", "S1", 10},
		{"North", "S2", 20},
		{"South", "S3", 7},
	}

	avgs := GroupAvg(rows, func(s sale) string { return s.region }, func(s sale) float64 { return s.amount })

	if avgs["North"] != 15 {
		t.Errorf("North avg = %f, want 15", avgs["North"])
	}
	if avgs["South"] != 7 {
		t.Errorf("South avg = %f, want 7", avgs["South"])
	}
}

func TestHaving(t *testing.T) {
	counts := map[string]int{"a": 5, "b": 2, "c": 3}

	kept := Having(counts, func(_ string, n int) bool { return n >= 3 })

	want := map[string]int{"a": 5, "c": 3}
	if !reflect.DeepEqual(kept, want) {
		t.Errorf("Having = %v, want %v", kept, want)
	}
}

func TestSortedKeys(t *testing.T) {
	m := map[string]int{"b": 1, "a": 2, "c": 3}
	if got := SortedKeys(m); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("SortedKeys = %v", got)
	}
}

func rollupDims() []Dimension[sale] {
	return []Dimension[sale]{
		{Name: "region", Key: func(s sale) string { return s.region }},
		{Name: "store", Key: func(s sale) string { return s.store }},
	}
}

func TestRollupRowCount(t *testing.T) {
	// 3 regions x 2 stores each: 6 detail combinations.
	var rows []sale
	for _, region := range []string{"East", "North", "South"} {
		for _, store := range []string{"S1", "S2"} {
			rows = append(rows, sale{region, store, 1})
		}
	}

	out := Rollup(rows, rollupDims(), func(s sale) float64 { return s.amount })

	// 6 detail + 3 region subtotals + 2 store subtotals + 1 grand total.
	if len(out) != 12 {
		t.Fatalf("Rollup produced %d rows, want 12", len(out))
	}

	byLevel := map[int]int{}
	for _, r := range out {
		byLevel[r.Level]++
	}
	if byLevel[0] != 6 || byLevel[1] != 5 || byLevel[2] != 1 {
		t.Errorf("rows per level = %v, want map[0:6 1:5 2:1]", byLevel)
	}
}

func TestRollupOrderingAndTotals(t *testing.T) {
	rows := []sale{
		{"North", "S2", 3},
		{"North", "S1", 1},
		{"South", "S1", 10},
	}

	out := Rollup(rows, rollupDims(), func(s sale) float64 { return s.amount })

	want := []RollupRow{
		{Keys: []string{"North", "S1"}, Level: 0, Total: 1},
		{Keys: []string{"North", "S2"}, Level: 0, Total: 3},
		{Keys: []string{"South", "S1"}, Level: 0, Total: 10},
		{Keys: []string{"North", "ALL store"}, Level: 1, Total: 4},
		{Keys: []string{"South", "ALL store"}, Level: 1, Total: 10},
		{Keys: []string{"ALL region", "S1"}, Level: 1, Total: 11},
		{Keys: []string{"ALL region", "S2"}, Level: 1, Total: 3},
		{Keys: []string{"ALL region", "ALL store"}, Level: 2, Total: 14},
	}

	if !reflect.DeepEqual(out, want) {
		t.Errorf("Rollup =\n%v\nwant\n%v", out, want)
	}
}

func TestRollupEmpty(t *testing.T) {
	out := Rollup(nil, rollupDims(), func(s sale) float64 { return s.amount })
	if len(out) != 0 {
		t.Errorf("Rollup of empty input should yield no rows, got %v", out)
	}
}

func TestRollupGrandTotalMatchesSum(t *testing.T) {
	rows := []sale{
		{"North", "S1", 2.5},
		{"South", "S2", 4},
		{"West", "S1", 3.5},
	}

	out := Rollup(rows, rollupDims(), func(s sale) float64 { return s.amount })

	grand := out[len(out)-1]
	if grand.Level != 2 {
		t.Fatalf("last row should be the grand total, got level %d", grand.Level)
	}
	if grand.Total != 10 {
		t.Errorf("grand total = %f, want 10", grand.Total)
	}
	if !IsAllMarker(grand.Keys[0]) || !IsAllMarker(grand.Keys[1]) {
		t.Errorf("grand total keys should both be ALL markers, got %v", grand.Keys)
	}
}
