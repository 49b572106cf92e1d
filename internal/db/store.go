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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/logging"
)

// InsertDataset bulk-loads a dataset into the star schema with COPY,
// dimensions first so the fact table's references resolve. Returns
// the row count per table.
func InsertDataset(ctx context.Context, pool *pgxpool.Pool, ds *dataset.Dataset) (map[string]int, error) {
	counts := make(map[string]int)

	n, err := pool.CopyFrom(ctx,
		pgx.Identifier{"dim_customer"},
		[]string{"customer_id", "name", "email", "city", "signup_date"},
		pgx.CopyFromSlice(len(ds.Customers), func(i int) ([]any, error) {
			c := &ds.Customers[i]
			return []any{c.ID, c.Name, c.Email, c.City, c.SignupDate}, nil
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to load dim_customer: %w", err)
	}
	counts["dim_customer"] = int(n)

	n, err = pool.CopyFrom(ctx,
		pgx.Identifier{"dim_store"},
		[]string{"store_id", "name", "city", "region", "manager"},
		pgx.CopyFromSlice(len(ds.Stores), func(i int) ([]any, error) {
			s := &ds.Stores[i]
			return []any{s.ID, s.Name, s.City, s.Region, s.Manager}, nil
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to load dim_store: %w", err)
	}
	counts["dim_store"] = int(n)

	n, err = pool.CopyFrom(ctx,
		pgx.Identifier{"dim_product"},
		[]string{"product_id", "name", "category", "brand", "unit_cost", "unit_price"},
		pgx.CopyFromSlice(len(ds.Products), func(i int) ([]any, error) {
			p := &ds.Products[i]
			return []any{p.ID, p.Name, p.Category, p.Brand, p.UnitCost, p.UnitPrice}, nil
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to load dim_product: %w", err)
	}
	counts["dim_product"] = int(n)

	n, err = pool.CopyFrom(ctx,
		pgx.Identifier{"sales_fact"},
		[]string{"transaction_id", "customer_id", "product_id", "store_id", "sale_date",
			"quantity", "unit_price", "discount_amount", "total_amount", "promotion_id"},
		pgx.CopyFromSlice(len(ds.Sales), func(i int) ([]any, error) {
			t := &ds.Sales[i]
			return []any{t.ID, t.CustomerID, t.ProductID, t.StoreID, t.SaleDate,
				t.Quantity, t.UnitPrice, t.Discount, t.TotalAmount(), t.PromotionID}, nil
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to load sales_fact: %w", err)
	}
	counts["sales_fact"] = int(n)

	logging.Info().
		Int("customers", counts["dim_customer"]).
		Int("stores", counts["dim_store"]).
		Int("products", counts["dim_product"]).
		Int("transactions", counts["sales_fact"]).
		Msg("Dataset loaded into database")

	return counts, nil
}
