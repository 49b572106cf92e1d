package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/model"
)

func validFixture() ([]model.Customer, []model.Store, []model.Product, []model.SaleTransaction) {
	customers := []model.Customer{
		{ID: 1, Name: "Ada Smith", Email: "ada@example.com", City: "Chicago",
			SignupDate: time.Date(2022, 11, 3, 0, 0, 0, 0, time.UTC)},
	}
	stores := []model.Store{
		{ID: 1, Name: "Chicago Store 1", City: "Chicago", Region: "North", Manager: "Bo Lee"},
	}
	products := []model.Product{
		{ID: 1, Name: "Widget", Category: "Toys", Brand: "Brand 1",
			UnitCost: decimal.RequireFromString("6.00"), UnitPrice: decimal.RequireFromString("10.00")},
	}
	sales := []model.SaleTransaction{
		{ID: 100000, CustomerID: 1, ProductID: 1, StoreID: 1,
			SaleDate: time.Date(2023, 2, 14, 0, 0, 0, 0, time.UTC),
			Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
	}
	return customers, stores, products, sales
}

func TestNewValid(t *testing.T) {
	customers, stores, products, sales := validFixture()

	ds, err := New(customers, stores, products, sales)
	if err != nil {
		t.Fatalf("New failed on valid input: %v", err)
	}

	profit, err := ds.Profit(&ds.Sales[0])
	if err != nil {
		t.Fatalf("Profit: %v", err)
	}
	if profit != 8 {
		t.Errorf("profit = %f, want 8 (2x10 - 2x6)", profit)
	}
}

func TestNewRejectsViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction)
		errPart string
	}{
		{
			name: "unknown customer",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				(*s)[0].CustomerID = 99
			},
			errPart: "unknown customer",
		},
		{
			name: "unknown product",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				(*s)[0].ProductID = 99
			},
			errPart: "unknown product",
		},
		{
			name: "unknown store",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				(*s)[0].StoreID = 99
			},
			errPart: "unknown store",
		},
		{
			name: "zero quantity",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				(*s)[0].Quantity = 0
			},
			errPart: "quantity",
		},
		{
			name: "negative discount",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				(*s)[0].Discount = decimal.RequireFromString("-1")
			},
			errPart: "negative discount",
		},
		{
			name: "negative product cost",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				(*p)[0].UnitCost = decimal.RequireFromString("-5")
			},
			errPart: "negative unit cost",
		},
		{
			name: "duplicate customer id",
			mutate: func(c *[]model.Customer, p *[]model.Product, s *[]model.SaleTransaction) {
				*c = append(*c, (*c)[0])
			},
			errPart: "duplicate id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customers, stores, products, sales := validFixture()
			tt.mutate(&customers, &products, &sales)

			_, err := New(customers, stores, products, sales)
			if err == nil {
				t.Fatal("New should reject the dataset, got nil error")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q should mention %q", err, tt.errPart)
			}
		})
	}
}

func TestLookupMissingIsError(t *testing.T) {
	customers, stores, products, sales := validFixture()
	ds, err := New(customers, stores, products, sales)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := ds.Customer(42); err == nil {
		t.Error("missing customer lookup should be a data integrity error")
	}
	if _, err := ds.Store(42); err == nil {
		t.Error("missing store lookup should be a data integrity error")
	}
	if _, err := ds.Product(42); err == nil {
		t.Error("missing product lookup should be a data integrity error")
	}
}

func TestNewEmptyIsValid(t *testing.T) {
	ds, err := New(nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("empty dataset should load cleanly: %v", err)
	}
	if len(ds.Sales) != 0 {
		t.Error("empty dataset should have no sales")
	}
}
