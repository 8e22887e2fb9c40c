package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ausgaben/internal/analytics"
	"ausgaben/internal/cli"
	"ausgaben/internal/dates"
	"ausgaben/internal/model"
)

func summarizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Total, count, and average for a period",
		RunE:  runSummarize,
	}

	addRangeFlags(cmd)
	cmd.Flags().String("category", "", "restrict to one category")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	totals := analytics.Totals(analytics.FilterCategory(expenses, getString(cmd, "category")))

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(totals)
	}

	fmt.Println(cli.FormatTitle("Summary " + rng.Label()))
	fmt.Printf("  Total:   %s\n", cli.AmountStyle.Render(fmt.Sprintf("%.2f", totals.Total)))
	fmt.Printf("  Count:   %d\n", totals.Count)
	fmt.Printf("  Average: %.2f\n", totals.Average)
	return nil
}

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Per-category breakdown with percentages",
		RunE:  runCategories,
	}

	addRangeFlags(cmd)
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runCategories(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	breakdown := analytics.CategoryBreakdown(expenses)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(breakdown)
	}

	if len(breakdown) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses found."))
		return nil
	}

	fmt.Println(cli.FormatTitle("Spending by Category " + rng.Label()))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer flushTable(w)

	fmt.Fprintln(w, "Category\tTotal\tCount\tAverage\tMin\tMax\tShare")
	for _, c := range breakdown {
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%.2f\t%.2f\t%.2f\t%.1f%%\n",
			c.Category, c.Total, c.Count, c.Average, c.Min, c.Max, c.Percentage)
	}
	return nil
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Detailed statistics for a period",
		RunE:  runStats,
	}

	addRangeFlags(cmd)
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	stats := analytics.ComputeStatistics(expenses, rng)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(stats)
	}

	fmt.Println(cli.FormatTitle("Statistics " + rng.Label()))
	fmt.Printf("  Expenses:       %d\n", stats.Count)
	fmt.Printf("  Total spent:    %.2f\n", stats.Total)
	fmt.Printf("  Average:        %.2f\n", stats.Average)
	fmt.Printf("  Min / Max:      %.2f / %.2f\n", stats.Min, stats.Max)
	fmt.Printf("  Daily average:  %.2f\n", stats.DailyAverage)
	if stats.TopCategory.Category != "" {
		fmt.Printf("  Top category:   %s (%.2f)\n", stats.TopCategory.Category, stats.TopCategory.Total)
	}
	if stats.MostExpensiveDay.Date != "" {
		fmt.Printf("  Costliest day:  %s (%.2f)\n", stats.MostExpensiveDay.Date, stats.MostExpensiveDay.Total)
	}
	return nil
}

func trendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Spending bucketed by day, week, or month",
		RunE:  runTrends,
	}

	addRangeFlags(cmd)
	cmd.Flags().String("group-by", "month", "bucket granularity (day, week, month)")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runTrends(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	granularity := analytics.Granularity(getString(cmd, "group-by"))
	if !granularity.Valid() {
		return fmt.Errorf("invalid --group-by %q: must be day, week, or month", granularity)
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, rng)
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	buckets := analytics.BucketBy(expenses, granularity)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(buckets)
	}

	if len(buckets) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses found."))
		return nil
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Spending by %s %s", granularity, rng.Label())))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer flushTable(w)

	fmt.Fprintln(w, "Period\tTotal\tCount\tAverage")
	for _, b := range buckets {
		fmt.Fprintf(w, "%s\t%.2f\t%d\t%.2f\n", b.Period, b.Total, b.Count, b.Average)
	}
	return nil
}

func compareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <month1> <month2>",
		Short: "Compare spending between two months",
		Long: `Compare total spending of two YYYY-MM months, optionally within
one category.

Example:
  ausgaben compare 2025-01 2025-02 --category food`,
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}

	cmd.Flags().String("category", "", "restrict to one category")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	rng1, err := dates.MonthRange(args[0])
	if err != nil {
		return err
	}
	rng2, err := dates.MonthRange(args[1])
	if err != nil {
		return err
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	records1, err := store.ListExpenses(ctx, rng1)
	if err != nil {
		return fmt.Errorf("failed to list expenses for %s: %w", args[0], err)
	}
	records2, err := store.ListExpenses(ctx, rng2)
	if err != nil {
		return fmt.Errorf("failed to list expenses for %s: %w", args[1], err)
	}

	comparison := analytics.CompareMonths(records1, records2, args[0], args[1], getString(cmd, "category"))

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(comparison)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s vs %s", comparison.Month1, comparison.Month2)))
	if comparison.Category != "" {
		fmt.Printf("  Category:   %s\n", comparison.Category)
	}
	fmt.Printf("  %s:    %.2f\n", comparison.Month1, comparison.Total1)
	fmt.Printf("  %s:    %.2f\n", comparison.Month2, comparison.Total2)
	fmt.Printf("  Difference: %+.2f\n", comparison.Difference)
	if comparison.PercentChangeUndefined {
		fmt.Println("  Change:     n/a (no spending in first month)")
	} else {
		fmt.Printf("  Change:     %+.1f%%\n", comparison.PercentChange)
	}
	return nil
}

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Project future spending from a moving average",
		Long: `Project spending for upcoming months from the average of recent
complete months. The projection is flat per category, not a trend.`,
		RunE: runForecast,
	}

	cmd.Flags().Int("months-ahead", 3, "months to project")
	cmd.Flags().Int("based-on", 6, "complete past months to average over")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	monthsAhead, _ := cmd.Flags().GetInt("months-ahead")
	basedOn, _ := cmd.Flags().GetInt("based-on")
	if monthsAhead <= 0 || basedOn <= 0 {
		return fmt.Errorf("--months-ahead and --based-on must be positive")
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.ListExpenses(ctx, dates.Range{})
	if err != nil {
		return fmt.Errorf("failed to list expenses: %w", err)
	}

	forecast := analytics.ForecastExpenses(expenses, dates.Today(), monthsAhead, basedOn)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(forecast)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Forecast (based on %d months, %s to %s)",
		forecast.BasedOnMonths, forecast.WindowStart, forecast.WindowEnd)))
	fmt.Printf("  Monthly average: %.2f\n\n", forecast.MonthlyAverage)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer flushTable(w)

	fmt.Fprintln(w, "Month\tProjected")
	for _, p := range forecast.Projections {
		fmt.Fprintf(w, "%s\t%.2f\n", p.Month, p.Projected)
	}
	return nil
}

func taxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tax <year>",
		Short: "Tax-deductible expenses grouped into German tax buckets",
		Args:  cobra.ExactArgs(1),
		RunE:  runTax,
	}

	cmd.Flags().String("category", "", "restrict to one category")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runTax(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1900 || year > 9999 {
		return fmt.Errorf("invalid year %q", args[0])
	}

	store, cfg, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expenses, err := store.TaxDeductibleExpenses(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to list deductible expenses: %w", err)
	}

	summary := analytics.TaxSummary(expenses, year, getString(cmd, "category"), cfg.TaxMapping)

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(summary)
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("Tax-deductible expenses %d", summary.Year)))
	if summary.Count == 0 {
		fmt.Println(cli.SubtleStyle.Render("No deductible expenses recorded."))
		return nil
	}

	for _, bucket := range summary.Buckets {
		fmt.Printf("\n%s  %.2f (%d expenses)\n", cli.AmountStyle.Render(bucket.Bucket), bucket.Total, bucket.Count)
		for i := range bucket.Expenses {
			e := &bucket.Expenses[i]
			fmt.Printf("  %s  %8.2f  %s\n", e.DateString(), e.Amount, expenseLabel(e))
		}
	}
	fmt.Printf("\nGrand total: %s (%d expenses)\n",
		cli.AmountStyle.Render(fmt.Sprintf("%.2f", summary.GrandTotal)), summary.Count)
	return nil
}

func expenseLabel(e *model.Expense) string {
	if e.Note != "" {
		return fmt.Sprintf("%s (%s)", e.Category, e.Note)
	}
	return e.Category
}

func flushTable(w *tabwriter.Writer) {
	if err := w.Flush(); err != nil {
		slog.Error("failed to flush table writer", "error", err)
	}
}
