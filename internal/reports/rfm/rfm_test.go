package rfm

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		r, f, m int
		want    string
	}{
		{5, 5, 5, "Champion"},
		{4, 4, 4, "Champion"},
		{3, 3, 3, "Loyal"},
		{4, 3, 3, "Loyal"}, // misses Champion on f/m, matches Loyal before New
		{5, 1, 2, "New"},
		{4, 2, 2, "New"},
		{1, 4, 4, "At Risk"},
		{2, 3, 3, "At Risk"},
		{1, 1, 1, "Others"},
		{3, 2, 5, "Others"},
	}

	for _, tt := range tests {
		if got := Classify(tt.r, tt.f, tt.m); got != tt.want {
			t.Errorf("Classify(%d, %d, %d) = %q, want %q", tt.r, tt.f, tt.m, got, tt.want)
		}
	}
}

// buildDataset creates n customers where customer i+1 made i+1 purchases
// of increasing value, with the last purchase i days before the
// reference date: higher ids are better on all three metrics.
func buildDataset(t *testing.T, n int, reference time.Time) *dataset.Dataset {
	t.Helper()

	var customers []model.Customer
	stores := []model.Store{{ID: 1, Name: "S", Region: "North"}}
	products := []model.Product{{ID: 1, Name: "P", Category: "Toys",
		UnitCost: decimal.New(1, 0), UnitPrice: decimal.New(10, 0)}}

	var sales []model.SaleTransaction
	txID := 1
	for i := 1; i <= n; i++ {
		customers = append(customers, model.Customer{
			ID: i, Name: "C", SignupDate: reference.AddDate(-1, 0, 0),
		})
		last := reference.AddDate(0, 0, -(n - i + 1))
		for k := 0; k < i; k++ {
			sales = append(sales, model.SaleTransaction{
				ID: txID, CustomerID: i, ProductID: 1, StoreID: 1,
				SaleDate: last.AddDate(0, 0, -k), Quantity: i,
				UnitPrice: decimal.New(10, 0),
			})
			txID++
		}
	}

	ds, err := dataset.New(customers, stores, products, sales)
	if err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestScores(t *testing.T) {
	reference := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := buildDataset(t, 10, reference)

	scores, err := Scores(ds, reference)
	if err != nil {
		t.Fatal(err)
	}
	if len(scores) != 10 {
		t.Fatalf("got %d scores, want 10", len(scores))
	}

	best := scores[9]
	if best.R != 5 || best.F != 5 || best.M != 5 {
		t.Errorf("best customer scored r=%d f=%d m=%d, want 5/5/5", best.R, best.F, best.M)
	}
	if best.Segment != "Champion" {
		t.Errorf("best customer segment = %q, want Champion", best.Segment)
	}

	worst := scores[0]
	if worst.R != 1 || worst.F != 1 || worst.M != 1 {
		t.Errorf("worst customer scored r=%d f=%d m=%d, want 1/1/1", worst.R, worst.F, worst.M)
	}
	if worst.Segment != "Others" {
		t.Errorf("worst customer segment = %q, want Others", worst.Segment)
	}

	if worst.RecencyDays != 10 {
		t.Errorf("worst recency = %d days, want 10", worst.RecencyDays)
	}
	if best.Frequency != 10 || worst.Frequency != 1 {
		t.Errorf("frequencies = %d/%d, want 10/1", best.Frequency, worst.Frequency)
	}
}

func TestScoresExcludesNonBuyers(t *testing.T) {
	reference := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := buildDataset(t, 5, reference)

	// Append a customer with no transactions via a rebuilt dataset.
	customers := append([]model.Customer{}, ds.Customers...)
	customers = append(customers, model.Customer{ID: 99, Name: "Quiet", SignupDate: reference})
	rebuilt, err := dataset.New(customers, ds.Stores, ds.Products, ds.Sales)
	if err != nil {
		t.Fatal(err)
	}

	scores, err := Scores(rebuilt, reference)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range scores {
		if s.CustomerID == 99 {
			t.Error("customer with no transactions should not be scored")
		}
	}
}

func TestScoresDerivedReference(t *testing.T) {
	reference := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ds := buildDataset(t, 5, reference)

	// Zero reference date derives day-after-latest-sale.
	scores, err := Scores(ds, time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range scores {
		if s.RecencyDays < 1 {
			t.Errorf("customer %d recency %d with derived reference, want >= 1",
				s.CustomerID, s.RecencyDays)
		}
	}
}

func TestSegmentNamesOrder(t *testing.T) {
	want := []string{"Champion", "Loyal", "New", "At Risk", "Others"}
	got := SegmentNames()
	if len(got) != len(want) {
		t.Fatalf("SegmentNames = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SegmentNames = %v, want %v", got, want)
		}
	}
}
