package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ausgaben/internal/cli"
	"ausgaben/internal/common"
	"ausgaben/internal/dates"
	"ausgaben/internal/model"
	"ausgaben/internal/storage"
)

func addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a single expense",
		Long: `Record one expense. Date defaults to today when omitted.

Examples:
  ausgaben add --amount 12.50 --category food --note "lunch"
  ausgaben add --date 2025-01-10 --amount 49.99 --category subscriptions --tax-deductible`,
		RunE: runAdd,
	}

	cmd.Flags().String("date", "", "expense date (YYYY-MM-DD, default today)")
	cmd.Flags().Float64("amount", 0, "expense amount")
	cmd.Flags().String("category", "", "expense category")
	cmd.Flags().String("subcategory", "", "expense subcategory")
	cmd.Flags().String("note", "", "free-form note")
	cmd.Flags().String("currency", "", "currency code (default from config)")
	cmd.Flags().String("payment-method", "", "payment method")
	cmd.Flags().Bool("tax-deductible", false, "mark as tax deductible")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")

	return cmd
}

func runAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, cfg, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expense := model.Expense{Category: getString(cmd, "category")}
	expense.Amount, _ = cmd.Flags().GetFloat64("amount")
	expense.Subcategory = getString(cmd, "subcategory")
	expense.Note = getString(cmd, "note")
	expense.PaymentMethod = getString(cmd, "payment-method")
	expense.TaxDeductible, _ = cmd.Flags().GetBool("tax-deductible")

	expense.Currency = getString(cmd, "currency")
	if expense.Currency == "" {
		expense.Currency = cfg.DefaultCurrency
	}

	if raw := getString(cmd, "date"); raw != "" {
		if expense.Date, err = dates.ParseDate(raw); err != nil {
			return err
		}
	} else {
		expense.Date = dates.Today()
	}

	if err := store.CreateExpense(ctx, &expense); err != nil {
		return fmt.Errorf("failed to add expense: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added expense #%d: %.2f %s (%s) on %s",
		expense.ID, expense.Amount, expense.Currency, expense.Category, expense.DateString())))
	return nil
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses in a date range",
		RunE:  runList,
	}

	addRangeFlags(cmd)
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
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

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(expenses)
	}

	if len(expenses) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No expenses found."))
		return nil
	}

	printExpenseTable(expenses)
	return nil
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search expenses with flexible filters",
		Long: `Search expenses by category, note text, amount bounds, and
tax-deductible flag, with paginated results.`,
		RunE: runSearch,
	}

	addRangeFlags(cmd)
	cmd.Flags().String("category", "", "filter by exact category")
	cmd.Flags().String("note", "", "filter by note substring")
	cmd.Flags().Float64("min-amount", 0, "minimum amount")
	cmd.Flags().Float64("max-amount", 0, "maximum amount")
	cmd.Flags().Bool("tax-deductible", false, "filter by tax-deductible flag")
	cmd.Flags().Int("limit", 0, "maximum results per page")
	cmd.Flags().Int("offset", 0, "results to skip")
	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runSearch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	rng, err := rangeFromFlags(cmd)
	if err != nil {
		return err
	}

	query := storage.SearchQuery{Range: rng}
	query.Category = getString(cmd, "category")
	query.NoteContains = getString(cmd, "note")
	query.Limit, _ = cmd.Flags().GetInt("limit")
	query.Offset, _ = cmd.Flags().GetInt("offset")

	if cmd.Flags().Changed("min-amount") {
		v, _ := cmd.Flags().GetFloat64("min-amount")
		query.MinAmount = &v
	}
	if cmd.Flags().Changed("max-amount") {
		v, _ := cmd.Flags().GetFloat64("max-amount")
		query.MaxAmount = &v
	}
	if cmd.Flags().Changed("tax-deductible") {
		v, _ := cmd.Flags().GetBool("tax-deductible")
		query.TaxDeductible = &v
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	result, err := store.SearchExpenses(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to search expenses: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(result)
	}

	if len(result.Expenses) == 0 {
		fmt.Println(cli.SubtleStyle.Render("No matching expenses."))
		return nil
	}

	printExpenseTable(result.Expenses)
	fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("Showing %d of %d matching expenses",
		len(result.Expenses), result.TotalCount)))
	return nil
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one expense",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}

	cmd.Flags().Bool("json", false, "output as JSON")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	expense, err := store.GetExpense(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.NewUserError(fmt.Sprintf("no expense with id %d", id), err)
		}
		return fmt.Errorf("failed to load expense %d: %w", id, err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(expense)
	}

	printExpenseTable([]model.Expense{*expense})
	return nil
}

func editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit fields of an existing expense",
		Long: `Change individual fields of an expense. Only flags that are set
are applied; everything else keeps its current value.`,
		Args: cobra.ExactArgs(1),
		RunE: runEdit,
	}

	cmd.Flags().String("date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().Float64("amount", 0, "new amount")
	cmd.Flags().String("category", "", "new category")
	cmd.Flags().String("subcategory", "", "new subcategory")
	cmd.Flags().String("note", "", "new note")
	cmd.Flags().String("currency", "", "new currency code")
	cmd.Flags().String("payment-method", "", "new payment method")
	cmd.Flags().Bool("tax-deductible", false, "new tax-deductible flag")

	return cmd
}

func runEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	var params storage.UpdateExpenseParams
	if cmd.Flags().Changed("date") {
		d, err := dates.ParseDate(getString(cmd, "date"))
		if err != nil {
			return err
		}
		params.Date = &d
	}
	if cmd.Flags().Changed("amount") {
		v, _ := cmd.Flags().GetFloat64("amount")
		params.Amount = &v
	}
	if cmd.Flags().Changed("category") {
		v := getString(cmd, "category")
		params.Category = &v
	}
	if cmd.Flags().Changed("subcategory") {
		v := getString(cmd, "subcategory")
		params.Subcategory = &v
	}
	if cmd.Flags().Changed("note") {
		v := getString(cmd, "note")
		params.Note = &v
	}
	if cmd.Flags().Changed("currency") {
		v := getString(cmd, "currency")
		params.Currency = &v
	}
	if cmd.Flags().Changed("payment-method") {
		v := getString(cmd, "payment-method")
		params.PaymentMethod = &v
	}
	if cmd.Flags().Changed("tax-deductible") {
		v, _ := cmd.Flags().GetBool("tax-deductible")
		params.TaxDeductible = &v
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	updated, err := store.UpdateExpense(ctx, id, params)
	if err != nil {
		return fmt.Errorf("failed to edit expense %d: %w", id, err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Updated expense #%d", updated.ID)))
	printExpenseTable([]model.Expense{*updated})
	return nil
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE:  runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	store, _, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	if err := store.DeleteExpense(ctx, id); err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Deleted expense #%d", id)))
	return nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

func getString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

func printExpenseTable(expenses []model.Expense) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer flushTable(w)

	fmt.Fprintln(w, "ID\tDate\tAmount\tCategory\tSubcategory\tNote\tTax")
	for i := range expenses {
		e := &expenses[i]
		tax := ""
		if e.TaxDeductible {
			tax = cli.SuccessIcon
		}
		fmt.Fprintf(w, "%d\t%s\t%.2f %s\t%s\t%s\t%s\t%s\n",
			e.ID, e.DateString(), e.Amount, e.Currency, e.Category, e.Subcategory, e.Note, tax)
	}
}
