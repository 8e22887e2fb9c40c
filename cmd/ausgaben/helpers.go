package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"ausgaben/internal/config"
	"ausgaben/internal/dates"
	"ausgaben/internal/storage"
)

// initStorage loads the configuration and opens the migrated database.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, cfg, nil
}

// addRangeFlags registers the shared --start/--end date flags.
func addRangeFlags(cmd *cobra.Command) {
	cmd.Flags().String("start", "", "start date (YYYY-MM-DD, inclusive)")
	cmd.Flags().String("end", "", "end date (YYYY-MM-DD, inclusive)")
}

// rangeFromFlags reads --start/--end and normalizes them into a date range.
func rangeFromFlags(cmd *cobra.Command) (dates.Range, error) {
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	return dates.Normalize(start, end)
}

// parseID parses a positive expense id from a command argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid expense id %q", arg)
	}
	return id, nil
}

// printJSON renders v as indented JSON on stdout, for scripting consumers.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
