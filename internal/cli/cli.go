//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-analytics.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retailmetrics/retail-analytics/internal/config"
	"github.com/retailmetrics/retail-analytics/internal/logging"
	"github.com/retailmetrics/retail-analytics/internal/reports"
	"github.com/retailmetrics/retail-analytics/pkg/version"
)

var (
	// Global flags
	cfgFile    string
	source     string
	dataDir    string
	connection string
	logLevel   string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-analytics",
		Short: "Analytical query layer for a retail star schema",
		Long: `retail-analytics generates synthetic retail datasets, loads them into
a PostgreSQL star schema or CSV files, and runs a portable set of
analytical reports over them: revenue trends, window-function style
running totals and rankings, cohort retention, RFM segmentation and
KPI comparison.

The reports are computed in-process so the same numbers come out
whether the dataset lives in PostgreSQL or a directory of CSV files.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-analytics.yaml)")
	rootCmd.PersistentFlags().StringVar(&source, "source", "",
		"dataset source (csv, postgres)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "",
		"directory holding the CSV dataset")
	rootCmd.PersistentFlags().StringVar(&connection, "connection", "",
		"PostgreSQL connection string")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(initDBCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(reportsCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if source != "" {
		cfg.Source = source
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if connection != "" {
		cfg.Connection = connection
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List available reports",
	Long: `List all registered analytical reports. Each report can be run
individually with 'run --reports <name>' or as part of the full set.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available reports:")
		cmd.Println()
		for _, r := range reports.All() {
			cmd.Println(fmt.Sprintf("  %-26s [%s] %s", r.Name(), r.Category(), r.Description()))
		}
	},
}
