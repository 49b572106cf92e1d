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

	"github.com/jackc/pgx/v5/pgxpool"
)

// Star schema: three dimensions and one fact table. total_amount is
// stored denormalized so SQL consumers do not have to re-derive it.
const createSchemaSQL = `
-- Customer Dimension
CREATE TABLE IF NOT EXISTS dim_customer (
    customer_id  INTEGER PRIMARY KEY,
    name         VARCHAR(100) NOT NULL,
    email        VARCHAR(100),
    city         VARCHAR(50),
    signup_date  DATE NOT NULL
);

-- Store Dimension
CREATE TABLE IF NOT EXISTS dim_store (
    store_id  INTEGER PRIMARY KEY,
    name      VARCHAR(100) NOT NULL,
    city      VARCHAR(50),
    region    VARCHAR(20) NOT NULL,
    manager   VARCHAR(100)
);

-- Product Dimension
CREATE TABLE IF NOT EXISTS dim_product (
    product_id  INTEGER PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    category    VARCHAR(50) NOT NULL,
    brand       VARCHAR(50),
    unit_cost   NUMERIC(10,2) NOT NULL CHECK (unit_cost >= 0),
    unit_price  NUMERIC(10,2) NOT NULL CHECK (unit_price >= 0)
);

-- Sales Fact
CREATE TABLE IF NOT EXISTS sales_fact (
    transaction_id   INTEGER PRIMARY KEY,
    customer_id      INTEGER NOT NULL REFERENCES dim_customer(customer_id),
    product_id       INTEGER NOT NULL REFERENCES dim_product(product_id),
    store_id         INTEGER NOT NULL REFERENCES dim_store(store_id),
    sale_date        DATE NOT NULL,
    quantity         INTEGER NOT NULL CHECK (quantity > 0),
    unit_price       NUMERIC(10,2) NOT NULL,
    discount_amount  NUMERIC(10,2) NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
    total_amount     NUMERIC(12,2) NOT NULL,
    promotion_id     INTEGER
);

CREATE INDEX IF NOT EXISTS idx_sales_fact_customer ON sales_fact(customer_id);
CREATE INDEX IF NOT EXISTS idx_sales_fact_product  ON sales_fact(product_id);
CREATE INDEX IF NOT EXISTS idx_sales_fact_store    ON sales_fact(store_id);
CREATE INDEX IF NOT EXISTS idx_sales_fact_date     ON sales_fact(sale_date);
`

const dropSchemaSQL = `
DROP TABLE IF EXISTS sales_fact CASCADE;
DROP TABLE IF EXISTS dim_product CASCADE;
DROP TABLE IF EXISTS dim_store CASCADE;
DROP TABLE IF EXISTS dim_customer CASCADE;
`

// CreateSchema creates the star schema tables and indexes.
func CreateSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, createSchemaSQL)
	return err
}

// DropSchema drops the star schema tables.
func DropSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, dropSchemaSQL)
	return err
}

// SchemaExists checks whether the fact table is present.
func SchemaExists(ctx context.Context, pool *pgxpool.Pool) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
        SELECT EXISTS (
            SELECT FROM information_schema.tables
            WHERE table_name = 'sales_fact'
        )
    `).Scan(&exists)
	return exists, err
}
