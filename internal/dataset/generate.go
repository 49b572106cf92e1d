//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/datagen"
	"github.com/retailmetrics/retail-analytics/internal/logging"
	"github.com/retailmetrics/retail-analytics/internal/model"
)

// Reference data for the synthetic dataset.
var (
	cities     = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix"}
	regions    = []string{"North", "South", "East", "West"}
	categories = []string{"Electronics", "Clothing", "Home & Garden", "Books", "Toys", "Sports"}
)

// Sales window for the synthetic dataset.
var (
	salesStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	salesEnd   = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
)

// GenerateConfig controls the size and reproducibility of a synthetic
// dataset.
type GenerateConfig struct {
	Customers int
	Products  int
	Stores    int
	Sales     int

	// Seed makes generation reproducible; 0 seeds from the clock.
	Seed uint64
}

// DefaultGenerateConfig returns the canonical dataset dimensions.
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		Customers: 500,
		Products:  200,
		Stores:    10,
		Sales:     10000,
	}
}

// Validate checks that all row counts are positive.
func (c GenerateConfig) Validate() error {
	if c.Customers < 1 || c.Products < 1 || c.Stores < 1 || c.Sales < 1 {
		return fmt.Errorf("all row counts must be at least 1")
	}
	return nil
}

// Generate produces a validated synthetic dataset. Customers sign up
// during the year before the sales window; sales in November and
// December carry larger quantities to give the trend reports a visible
// Q4 season. Unit cost is 60% of the list price.
func Generate(cfg GenerateConfig) (*Dataset, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var faker *datagen.Faker
	if cfg.Seed != 0 {
		faker = datagen.NewFakerWithSeed(cfg.Seed)
	} else {
		faker = datagen.NewFaker()
	}

	customers := make([]model.Customer, 0, cfg.Customers)
	for i := 1; i <= cfg.Customers; i++ {
		signup := salesStart.AddDate(0, 0, -faker.Int(0, 365))
		customers = append(customers, model.Customer{
			ID:         i,
			Name:       faker.FirstName() + " " + faker.LastName(),
			Email:      faker.Email(),
			City:       datagen.Choose(faker, cities),
			SignupDate: signup,
		})
	}

	stores := make([]model.Store, 0, cfg.Stores)
	for i := 1; i <= cfg.Stores; i++ {
		stores = append(stores, model.Store{
			ID:      i,
			Name:    fmt.Sprintf("%s Store %d", datagen.Choose(faker, cities), i),
			City:    datagen.Choose(faker, cities),
			Region:  datagen.Choose(faker, regions),
			Manager: faker.FirstName() + " " + faker.LastName(),
		})
	}

	products := make([]model.Product, 0, cfg.Products)
	for i := 1; i <= cfg.Products; i++ {
		category := datagen.Choose(faker, categories)
		price := faker.Price(5.00, 200.00)
		// Category price skew: electronics run high, clothing varies wide.
		switch category {
		case "Electronics":
			price *= faker.Float64(1.2, 2.0)
		case "Clothing":
			price *= faker.Float64(0.5, 1.5)
		}
		unitPrice := decimal.NewFromFloat(price).Round(2)
		unitCost := unitPrice.Mul(decimal.NewFromFloat(0.6)).Round(2)

		products = append(products, model.Product{
			ID:        i,
			Name:      faker.ProductName(),
			Category:  category,
			Brand:     fmt.Sprintf("Brand %d", faker.Int(1, 20)),
			UnitCost:  unitCost,
			UnitPrice: unitPrice,
		})
	}

	windowDays := int(salesEnd.Sub(salesStart).Hours() / 24)
	sales := make([]model.SaleTransaction, 0, cfg.Sales)
	for i := 0; i < cfg.Sales; i++ {
		saleDate := salesStart.AddDate(0, 0, faker.Int(0, windowDays))

		// Q4 seasonality.
		var quantity int
		if saleDate.Month() == time.November || saleDate.Month() == time.December {
			quantity = faker.Int(1, 5)
		} else {
			quantity = faker.Int(1, 3)
		}

		product := &products[faker.Int(0, len(products)-1)]
		sale := model.SaleTransaction{
			ID:         100000 + i,
			CustomerID: faker.Int(1, cfg.Customers),
			ProductID:  product.ID,
			StoreID:    faker.Int(1, cfg.Stores),
			SaleDate:   saleDate,
			Quantity:   quantity,
			UnitPrice:  product.UnitPrice,
			Discount:   decimal.Zero,
		}

		// Roughly one sale in ten is promotional: 5-20% off the total.
		if faker.Int(1, 10) == 1 {
			promo := faker.Int(1, 30)
			sale.PromotionID = &promo
			pct := decimal.NewFromFloat(faker.Float64(0.05, 0.20))
			sale.Discount = sale.TotalAmount().Mul(pct).Round(2)
		}

		sales = append(sales, sale)
	}

	ds, err := New(customers, stores, products, sales)
	if err != nil {
		return nil, fmt.Errorf("generated dataset failed validation: %w", err)
	}

	logging.Info().
		Int("customers", cfg.Customers).
		Int("stores", cfg.Stores).
		Int("products", cfg.Products).
		Int("sales", cfg.Sales).
		Uint64("seed", cfg.Seed).
		Msg("Generated synthetic dataset")

	return ds, nil
}
