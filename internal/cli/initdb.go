//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/db"
	"github.com/retailmetrics/retail-analytics/internal/logging"
)

var (
	initCustomers    int
	initProducts     int
	initStores       int
	initSales        int
	initSeed         uint64
	initDropExisting bool
)

var initDBCmd = &cobra.Command{
	Use:   "initdb",
	Short: "Initialize a PostgreSQL database with the star schema and data",
	Long: `Create the retail star schema in a PostgreSQL database and load it
with a freshly generated synthetic dataset. Refuses to touch a
database that already holds an initialized schema unless
--drop-existing is given.

Example:
  retail-analytics initdb --connection "postgres://..." --sales 50000 --seed 42`,
	RunE: runInitDB,
}

func init() {
	initDBCmd.Flags().IntVar(&initCustomers, "customers", 0,
		"number of customers (default: 500)")
	initDBCmd.Flags().IntVar(&initProducts, "products", 0,
		"number of products (default: 200)")
	initDBCmd.Flags().IntVar(&initStores, "stores", 0,
		"number of stores (default: 10)")
	initDBCmd.Flags().IntVar(&initSales, "sales", 0,
		"number of sales transactions (default: 10000)")
	initDBCmd.Flags().Uint64Var(&initSeed, "seed", 0,
		"random seed for reproducible datasets (0 = seed from the clock)")
	initDBCmd.Flags().BoolVar(&initDropExisting, "drop-existing", false,
		"drop existing schema before initialization")
}

func runInitDB(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if initCustomers > 0 {
		cfg.Generate.Customers = initCustomers
	}
	if initProducts > 0 {
		cfg.Generate.Products = initProducts
	}
	if initStores > 0 {
		cfg.Generate.Stores = initStores
	}
	if initSales > 0 {
		cfg.Generate.Sales = initSales
	}
	if initSeed != 0 {
		cfg.Generate.Seed = initSeed
	}
	if initDropExisting {
		cfg.InitDB.DropExisting = true
	}

	if err := cfg.ValidateInitDB(); err != nil {
		return err
	}
	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.Connection)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	// Check for a previous initialization
	exists, err := db.SchemaExists(ctx, pool)
	if err != nil {
		return fmt.Errorf("failed to inspect database: %w", err)
	}
	if exists {
		if !cfg.InitDB.DropExisting {
			return fmt.Errorf(
				"database already holds an initialized schema; use --drop-existing to reinitialize")
		}
		logging.Warn().Msg("Dropping existing schema")
		if err := db.DropSchema(ctx, pool); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, pool); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().Msg("Creating schema")
	if err := db.CreateSchema(ctx, pool); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	genCfg := dataset.GenerateConfig{
		Customers: cfg.Generate.Customers,
		Products:  cfg.Generate.Products,
		Stores:    cfg.Generate.Stores,
		Sales:     cfg.Generate.Sales,
		Seed:      cfg.Generate.Seed,
	}

	ds, err := dataset.Generate(genCfg)
	if err != nil {
		return fmt.Errorf("failed to generate dataset: %w", err)
	}

	counts, err := db.InsertDataset(ctx, pool, ds)
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	if err := db.SaveMetadata(ctx, pool, genCfg.Seed, counts); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Int("transactions", counts["sales_fact"]).
		Msg("Database initialization complete")

	return nil
}
