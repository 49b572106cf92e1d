// Package main is the entry point for retail-analytics.
package main

import (
	"fmt"
	"os"

	"github.com/retailmetrics/retail-analytics/internal/cli"

	// Register reports
	_ "github.com/retailmetrics/retail-analytics/internal/reports/cohort"
	_ "github.com/retailmetrics/retail-analytics/internal/reports/kpi"
	_ "github.com/retailmetrics/retail-analytics/internal/reports/revenue"
	_ "github.com/retailmetrics/retail-analytics/internal/reports/rfm"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
