//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-analytics.
// Configuration is loaded from config files and CLI flags (no environment variables).
// CLI flags take precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/retailmetrics/retail-analytics/internal/export"
)

// Source names for the analyze pipeline.
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config holds all configuration for retail-analytics.
type Config struct {
	// Source is where the dataset is read from: "csv" or "postgres".
	Source string `mapstructure:"source"`

	// DataDir is the directory holding the CSV dataset.
	DataDir string `mapstructure:"data_dir"`

	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`

	// InitDB holds configuration for the initdb subcommand.
	InitDB InitDBConfig `mapstructure:"initdb"`

	// Analyze holds configuration for the run subcommand.
	Analyze AnalyzeConfig `mapstructure:"analyze"`
}

// GenerateConfig holds configuration for synthetic dataset generation.
type GenerateConfig struct {
	// Customers is the number of customers to generate.
	Customers int `mapstructure:"customers"`

	// Products is the number of products to generate.
	Products int `mapstructure:"products"`

	// Stores is the number of stores to generate.
	Stores int `mapstructure:"stores"`

	// Sales is the number of sales transactions to generate.
	Sales int `mapstructure:"sales"`

	// Seed makes generation reproducible; 0 seeds from the clock.
	Seed uint64 `mapstructure:"seed"`

	// OutputDir is where the generated CSV files are written.
	OutputDir string `mapstructure:"output_dir"`
}

// InitDBConfig holds configuration for database initialization.
type InitDBConfig struct {
	// DropExisting drops existing schema before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// AnalyzeConfig holds configuration for report runs.
type AnalyzeConfig struct {
	// ReferenceDate anchors recency calculations (YYYY-MM-DD). Empty
	// means derive from the data.
	ReferenceDate string `mapstructure:"reference_date"`

	// TopN bounds per-group ranking reports.
	TopN int `mapstructure:"top_n"`

	// MinPurchases is the repeat-customer threshold.
	MinPurchases int `mapstructure:"min_purchases"`

	// Reports selects which reports to run; empty means all.
	Reports []string `mapstructure:"reports"`

	// OutputDir is where report files are written.
	OutputDir string `mapstructure:"output_dir"`

	// Format is the export format: "csv" or "json".
	Format string `mapstructure:"format"`

	// Targets maps region to its revenue target for KPI comparison.
	Targets map[string]float64 `mapstructure:"targets"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Source:   SourceCSV,
		DataDir:  "data",
		LogLevel: "info",
		Generate: GenerateConfig{
			Customers: 500,
			Products:  200,
			Stores:    10,
			Sales:     10000,
			OutputDir: "data",
		},
		Analyze: AnalyzeConfig{
			TopN:         5,
			MinPurchases: 3,
			OutputDir:    "reports",
			Format:       export.FormatCSV,
			Targets: map[string]float64{
				"North": 500000,
				"South": 500000,
				"East":  500000,
				"West":  500000,
			},
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-analytics.yaml
// 3. ~/.config/retail-analytics/config.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retail-analytics")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-analytics"))
	}

	// Use specific config file if provided
	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceCSV:
		if c.DataDir == "" {
			return fmt.Errorf("data_dir is required for the csv source")
		}
	case SourcePostgres:
		if c.Connection == "" {
			return fmt.Errorf("connection string is required for the postgres source")
		}
	default:
		return fmt.Errorf("source must be 'csv' or 'postgres'")
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if c.Generate.OutputDir == "" {
		return fmt.Errorf("output directory is required for generate")
	}
	if c.Generate.Customers < 1 {
		return fmt.Errorf("customers must be at least 1")
	}
	if c.Generate.Products < 1 {
		return fmt.Errorf("products must be at least 1")
	}
	if c.Generate.Stores < 1 {
		return fmt.Errorf("stores must be at least 1")
	}
	if c.Generate.Sales < 1 {
		return fmt.Errorf("sales must be at least 1")
	}
	return nil
}

// ValidateInitDB checks configuration required for the initdb command.
func (c *Config) ValidateInitDB() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required for initdb")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Analyze.TopN < 1 {
		return fmt.Errorf("top_n must be at least 1")
	}
	if c.Analyze.MinPurchases < 1 {
		return fmt.Errorf("min_purchases must be at least 1")
	}
	if !export.ValidFormat(c.Analyze.Format) {
		return fmt.Errorf("format must be 'csv' or 'json'")
	}
	if c.Analyze.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if _, err := c.ReferenceDate(); err != nil {
		return err
	}
	return nil
}

// ReferenceDate parses the configured reference date. The zero time
// means "derive from the data".
func (c *Config) ReferenceDate() (time.Time, error) {
	if c.Analyze.ReferenceDate == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", c.Analyze.ReferenceDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid reference_date: %w", err)
	}
	return t, nil
}
