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
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/retailmetrics/retail-analytics/internal/config"
	"github.com/retailmetrics/retail-analytics/internal/dataset"
	"github.com/retailmetrics/retail-analytics/internal/db"
	"github.com/retailmetrics/retail-analytics/internal/export"
	"github.com/retailmetrics/retail-analytics/internal/logging"
	"github.com/retailmetrics/retail-analytics/internal/reports"
)

var (
	runReferenceDate string
	runTopN          int
	runMinPurchases  int
	runReports       []string
	runOutputDir     string
	runFormat        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run analytical reports over a dataset",
	Long: `Load the dataset from the configured source and run the analytical
reports over it, writing one output file per report plus a manifest
describing the run.

Example:
  retail-analytics run --data-dir data --output-dir reports
  retail-analytics run --source postgres --connection "postgres://..." --format json
  retail-analytics run --reports monthly_revenue_trend,regional_kpi`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runReferenceDate, "reference-date", "",
		"reference date for recency calculations (YYYY-MM-DD, default: derived from data)")
	runCmd.Flags().IntVar(&runTopN, "top-n", 0,
		"number of top products per category (default: 5)")
	runCmd.Flags().IntVar(&runMinPurchases, "min-purchases", 0,
		"repeat-customer threshold (default: 3)")
	runCmd.Flags().StringSliceVar(&runReports, "reports", nil,
		"comma-separated report names to run (default: all)")
	runCmd.Flags().StringVar(&runOutputDir, "output-dir", "",
		"directory to write report files to (default: reports)")
	runCmd.Flags().StringVar(&runFormat, "format", "",
		"export format: csv or json (default: csv)")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runReferenceDate != "" {
		cfg.Analyze.ReferenceDate = runReferenceDate
	}
	if runTopN > 0 {
		cfg.Analyze.TopN = runTopN
	}
	if runMinPurchases > 0 {
		cfg.Analyze.MinPurchases = runMinPurchases
	}
	if len(runReports) > 0 {
		cfg.Analyze.Reports = runReports
	}
	if runOutputDir != "" {
		cfg.Analyze.OutputDir = runOutputDir
	}
	if runFormat != "" {
		cfg.Analyze.Format = runFormat
	}

	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ds, err := loadDataset()
	if err != nil {
		return err
	}

	opts, err := buildOptions()
	if err != nil {
		return err
	}

	selected, err := selectReports()
	if err != nil {
		return err
	}

	tables := make([]*reports.Table, 0, len(selected))
	for _, r := range selected {
		start := time.Now()
		table, err := r.Run(ds, opts)
		if err != nil {
			return fmt.Errorf("report %s failed: %w", r.Name(), err)
		}
		logging.Info().
			Str("report", r.Name()).
			Int("rows", len(table.Rows)).
			Dur("elapsed", time.Since(start)).
			Msg("Report complete")
		tables = append(tables, table)
	}

	manifest, err := export.WriteAll(cfg.Analyze.OutputDir, cfg.Analyze.Format, tables)
	if err != nil {
		return err
	}

	logging.Info().
		Str("run_id", manifest.RunID).
		Str("dir", cfg.Analyze.OutputDir).
		Msg("Analysis complete")

	return nil
}

func loadDataset() (*dataset.Dataset, error) {
	switch cfg.Source {
	case config.SourcePostgres:
		ctx := context.Background()
		pool, err := db.Connect(ctx, cfg.Connection)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pool.Close()
		return db.LoadDataset(ctx, pool)
	default:
		return dataset.ReadDir(cfg.DataDir)
	}
}

func buildOptions() (reports.Options, error) {
	ref, err := cfg.ReferenceDate()
	if err != nil {
		return reports.Options{}, err
	}

	opts := reports.Options{
		ReferenceDate: ref,
		TopN:          cfg.Analyze.TopN,
		MinPurchases:  cfg.Analyze.MinPurchases,
		Targets:       make(map[string]decimal.Decimal, len(cfg.Analyze.Targets)),
	}
	for region, target := range cfg.Analyze.Targets {
		opts.Targets[region] = decimal.NewFromFloat(target)
	}
	return opts, nil
}

func selectReports() ([]reports.Report, error) {
	if len(cfg.Analyze.Reports) == 0 {
		return reports.All(), nil
	}

	selected := make([]reports.Report, 0, len(cfg.Analyze.Reports))
	for _, name := range cfg.Analyze.Reports {
		r, err := reports.Get(name)
		if err != nil {
			return nil, err
		}
		selected = append(selected, r)
	}
	return selected, nil
}
