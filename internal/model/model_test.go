package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestTotalAmount(t *testing.T) {
	sale := &SaleTransaction{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("19.99"),
	}

	want := decimal.RequireFromString("59.97")
	if got := sale.TotalAmount(); !got.Equal(want) {
		t.Errorf("TotalAmount = %s, want %s", got, want)
	}
}

func TestProfit(t *testing.T) {
	product := &Product{
		UnitCost:  decimal.RequireFromString("12.00"),
		UnitPrice: decimal.RequireFromString("20.00"),
	}

	tests := []struct {
		name     string
		quantity int
		price    string
		discount string
		want     string
	}{
		{"no discount", 2, "20.00", "0", "16.00"},
		{"with discount", 2, "20.00", "5.00", "11.00"},
		{"discounted below cost", 1, "20.00", "10.00", "-2.00"},
		{"marked down price", 2, "15.00", "0", "6.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale := &SaleTransaction{
				Quantity:  tt.quantity,
				UnitPrice: decimal.RequireFromString(tt.price),
				Discount:  decimal.RequireFromString(tt.discount),
			}
			want := decimal.RequireFromString(tt.want)
			if got := sale.Profit(product); !got.Equal(want) {
				t.Errorf("Profit = %s, want %s", got, want)
			}
		})
	}
}

func TestMonth(t *testing.T) {
	ts := time.Date(2023, 11, 28, 17, 45, 3, 0, time.UTC)
	want := time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC)
	if got := Month(ts); !got.Equal(want) {
		t.Errorf("Month = %v, want %v", got, want)
	}
}

func TestMonthKey(t *testing.T) {
	ts := time.Date(2024, 2, 9, 0, 0, 0, 0, time.UTC)
	if got := MonthKey(ts); got != "2024-02" {
		t.Errorf("MonthKey = %q, want %q", got, "2024-02")
	}
}
