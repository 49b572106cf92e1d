//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/logging"
	"github.com/retailmetrics/retail-analytics/internal/model"
)

// LoadDataset reads the star schema back into memory. The stored
// total_amount column is ignored; it is re-derived from quantity and
// unit price like every other source.
func LoadDataset(ctx context.Context, pool *pgxpool.Pool) (*dataset.Dataset, error) {
	customers, err := loadCustomers(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to load dim_customer: %w", err)
	}
	stores, err := loadStores(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to load dim_store: %w", err)
	}
	products, err := loadProducts(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to load dim_product: %w", err)
	}
	sales, err := loadSales(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to load sales_fact: %w", err)
	}

	ds, err := dataset.New(customers, stores, products, sales)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Int("customers", len(customers)).
		Int("stores", len(stores)).
		Int("products", len(products)).
		Int("transactions", len(sales)).
		Msg("Dataset loaded from database")

	return ds, nil
}

func loadCustomers(ctx context.Context, pool *pgxpool.Pool) ([]model.Customer, error) {
	rows, err := pool.Query(ctx, `
        SELECT customer_id, name, email, city, signup_date
        FROM dim_customer ORDER BY customer_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.City, &c.SignupDate); err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func loadStores(ctx context.Context, pool *pgxpool.Pool) ([]model.Store, error) {
	rows, err := pool.Query(ctx, `
        SELECT store_id, name, city, region, manager
        FROM dim_store ORDER BY store_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stores []model.Store
	for rows.Next() {
		var s model.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.City, &s.Region, &s.Manager); err != nil {
			return nil, err
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

func loadProducts(ctx context.Context, pool *pgxpool.Pool) ([]model.Product, error) {
	rows, err := pool.Query(ctx, `
        SELECT product_id, name, category, brand, unit_cost, unit_price
        FROM dim_product ORDER BY product_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		var cost, price decimal.Decimal
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Brand, &cost, &price); err != nil {
			return nil, err
		}
		p.UnitCost = cost
		p.UnitPrice = price
		products = append(products, p)
	}
	return products, rows.Err()
}

func loadSales(ctx context.Context, pool *pgxpool.Pool) ([]model.SaleTransaction, error) {
	rows, err := pool.Query(ctx, `
        SELECT transaction_id, customer_id, product_id, store_id, sale_date,
               quantity, unit_price, discount_amount, promotion_id
        FROM sales_fact ORDER BY transaction_id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []model.SaleTransaction
	for rows.Next() {
		var t model.SaleTransaction
		var price, discount decimal.Decimal
		if err := rows.Scan(&t.ID, &t.CustomerID, &t.ProductID, &t.StoreID, &t.SaleDate,
			&t.Quantity, &price, &discount, &t.PromotionID); err != nil {
			return nil, err
		}
		t.UnitPrice = price
		t.Discount = discount
		sales = append(sales, t)
	}
	return sales, rows.Err()
}
