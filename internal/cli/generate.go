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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/logging"
)

var (
	genCustomers int
	genProducts  int
	genStores    int
	genSales     int
	genSeed      uint64
	genOutputDir string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic retail dataset as CSV files",
	Long: `Generate a synthetic retail dataset and write it to a directory of
CSV files: customers, stores, products and sales transactions. The
same seed always produces the same dataset.

Example:
  retail-analytics generate --sales 50000 --seed 42 --output-dir data`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&genCustomers, "customers", 0,
		"number of customers (default: 500)")
	generateCmd.Flags().IntVar(&genProducts, "products", 0,
		"number of products (default: 200)")
	generateCmd.Flags().IntVar(&genStores, "stores", 0,
		"number of stores (default: 10)")
	generateCmd.Flags().IntVar(&genSales, "sales", 0,
		"number of sales transactions (default: 10000)")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed for reproducible datasets (0 = seed from the clock)")
	generateCmd.Flags().StringVar(&genOutputDir, "output-dir", "",
		"directory to write the CSV files to (default: data)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genCustomers > 0 {
		cfg.Generate.Customers = genCustomers
	}
	if genProducts > 0 {
		cfg.Generate.Products = genProducts
	}
	if genStores > 0 {
		cfg.Generate.Stores = genStores
	}
	if genSales > 0 {
		cfg.Generate.Sales = genSales
	}
	if genSeed != 0 {
		cfg.Generate.Seed = genSeed
	}
	if genOutputDir != "" {
		cfg.Generate.OutputDir = genOutputDir
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
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

	if err := dataset.WriteDir(cfg.Generate.OutputDir, ds); err != nil {
		return fmt.Errorf("failed to write dataset: %w", err)
	}

	logging.Info().
		Str("dir", cfg.Generate.OutputDir).
		Int("transactions", len(ds.Sales)).
		Msg("Dataset generation complete")

	return nil
}
