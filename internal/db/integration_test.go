//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

//go:build integration
// +build integration

// Integration tests for the star schema round trip.
// Run with: go test -tags=integration ./internal/db/...
// Requires PostgreSQL to be available.
// Set RETAIL_TEST_CONN environment variable to override connection string.

package db_test

import (
	"context"
	"testing"
	"time"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/db"
	"github.com/retailmetrics/retail-analytics/internal/testutil"
)

func TestSchemaRoundTrip(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr, "schema")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(testConnStr))
	defer cleanup.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, testConnStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	cleanup.SetPool(pool)

	if err := db.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	exists, err := db.SchemaExists(ctx, pool)
	if err != nil {
		t.Fatalf("Failed to check schema: %v", err)
	}
	if !exists {
		t.Fatal("Schema should exist after CreateSchema")
	}

	cfg := dataset.DefaultGenerateConfig()
	cfg.Customers = 50
	cfg.Products = 20
	cfg.Stores = 5
	cfg.Sales = 500
	cfg.Seed = 42

	generated, err := dataset.Generate(cfg)
	if err != nil {
		t.Fatalf("Failed to generate dataset: %v", err)
	}

	counts, err := db.InsertDataset(ctx, pool, generated)
	if err != nil {
		t.Fatalf("Failed to insert dataset: %v", err)
	}
	if counts["sales_fact"] != 500 {
		t.Errorf("Inserted %d fact rows, expected 500", counts["sales_fact"])
	}

	if err := db.SaveMetadata(ctx, pool, cfg.Seed, counts); err != nil {
		t.Fatalf("Failed to save metadata: %v", err)
	}
	seed, err := db.GetMetadataValue(ctx, pool, "seed")
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	if seed != "42" {
		t.Errorf("Metadata seed = %q, expected 42", seed)
	}

	loaded, err := db.LoadDataset(ctx, pool)
	if err != nil {
		t.Fatalf("Failed to load dataset: %v", err)
	}

	if len(loaded.Customers) != len(generated.Customers) {
		t.Errorf("Loaded %d customers, expected %d", len(loaded.Customers), len(generated.Customers))
	}
	if len(loaded.Sales) != len(generated.Sales) {
		t.Errorf("Loaded %d transactions, expected %d", len(loaded.Sales), len(generated.Sales))
	}

	// Spot-check the first transaction survived the round trip intact.
	want := generated.Sales[0]
	got := loaded.Sales[0]
	if got.ID != want.ID || got.Quantity != want.Quantity ||
		!got.UnitPrice.Equal(want.UnitPrice) || !got.Discount.Equal(want.Discount) {
		t.Errorf("Transaction mismatch: got %+v, want %+v", got, want)
	}

	if err := db.DropSchema(ctx, pool); err != nil {
		t.Fatalf("Failed to drop schema: %v", err)
	}
	exists, err = db.SchemaExists(ctx, pool)
	if err != nil {
		t.Fatalf("Failed to check schema: %v", err)
	}
	if exists {
		t.Error("Schema should not exist after DropSchema")
	}
}

func TestInsertRejectsReferentialViolation(t *testing.T) {
	baseConnStr := testutil.SkipIfNoPostgres(t)

	testConnStr := testutil.CreateTestDB(t, baseConnStr, "fkviol")
	cleanup := testutil.NewTestCleanup(t, baseConnStr, testutil.GetDBNameFromConnStr(testConnStr))
	defer cleanup.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := db.Connect(ctx, testConnStr)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	cleanup.SetPool(pool)

	if err := db.CreateSchema(ctx, pool); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	// A fact row pointing at a customer that was never loaded must be
	// rejected by the foreign key.
	_, err = pool.Exec(ctx, `
        INSERT INTO sales_fact (transaction_id, customer_id, product_id, store_id,
                                sale_date, quantity, unit_price, total_amount)
        VALUES (1, 999, 999, 999, '2024-01-01', 1, 10.00, 10.00)
    `)
	if err == nil {
		t.Error("Expected foreign key violation, got nil")
	}
}
