package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ausgaben/internal/analytics"
	"ausgaben/internal/cli"
	"ausgaben/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to a CSV or JSON file",
		Long: `Write expenses of a period to a file. With no --output the file
lands in the configured outputs directory under a generated name; an
--output pointing at a directory gets the generated name inside it.

Examples:
  ausgaben export --start 2025-01-01 --end 2025-03-31
  ausgaben export --format json --include-analytics --output q1.json`,
		RunE: runExport,
	}

	addRangeFlags(cmd)
	cmd.Flags().String("format", "csv", "export format (csv, json)")
	cmd.Flags().String("output", "", "output file or directory")
	cmd.Flags().Bool("include-analytics", false, "embed statistics and category breakdown (JSON only)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	format := strings.ToLower(getString(cmd, "format"))
	if format != "csv" && format != "json" {
		return fmt.Errorf("unsupported export format %q (expected csv or json)", format)
	}

	store, cfg, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	outPath, err := report.ResolveOutputPath(getString(cmd, "output"), report.ExportFilename(rng, format), cfg.OutputsDir)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		err = report.ExportCSV(outPath, expenses)
	case "json":
		var extras *report.Analytics
		if include, _ := cmd.Flags().GetBool("include-analytics"); include {
			stats := analytics.ComputeStatistics(expenses, rng)
			extras = &report.Analytics{
				Statistics:        &stats,
				CategoryBreakdown: analytics.CategoryBreakdown(expenses),
			}
		}
		err = report.ExportJSON(outPath, rng, expenses, extras)
	}
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d expenses to %s", len(expenses), outPath)))
	return nil
}

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate an HTML spending report",
		Long: `Render a self-contained HTML report with summary statistics, the
category breakdown, and the monthly spending trend for a period.`,
		RunE: runReport,
	}

	addRangeFlags(cmd)
	cmd.Flags().String("output", "", "output file or directory")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	store, cfg, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	outPath, err := report.ResolveOutputPath(getString(cmd, "output"), report.ReportFilename(rng), cfg.ReportsDir)
	if err != nil {
		return err
	}

	data := report.HTMLReportData{
		Range:      rng,
		Statistics: analytics.ComputeStatistics(expenses, rng),
		Categories: analytics.CategoryBreakdown(expenses),
		MonthTrend: analytics.BucketBy(expenses, analytics.ByMonth),
	}
	if err := report.WriteHTMLReport(outPath, data); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess("Report written to " + outPath))
	return nil
}
