package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"ausgaben/internal/cli"
	"ausgaben/internal/importer"
	"ausgaben/internal/storage"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import expenses from CSV, JSON, or OFX files",
		Long: `Import expense records from exported files. Each file is imported
as one atomic batch: either all of its valid rows land or none do. Rows
that cannot be parsed are reported and skipped; they never abort the file.

The format is inferred from the file extension and can be forced with
--format.

Examples:
  ausgaben import ~/Downloads/expenses.csv
  ausgaben import --format ofx ~/Downloads/bank_*.qfx
  ausgaben import --dry-run january.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("format", "", "file format (csv, json, ofx); inferred from extension when empty")
	cmd.Flags().BoolP("dry-run", "d", false, "parse and report without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format := strings.ToLower(getString(cmd, "format"))
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandFileArgs(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	store, cfg, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer closeStorage(store)

	parser := importer.NewParser(cfg.HeaderSynonyms, cfg.DefaultCurrency)

	var bar *progressbar.ProgressBar
	if len(files) > 1 {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Importing files..."),
		)
	}

	var imported, failed, filesFailed int
	for _, file := range files {
		result, err := importFile(ctx, store, parser, file, format, dryRun)
		if err != nil {
			slog.Error("failed to import file", "file", file, "error", err)
			filesFailed++
		} else {
			imported += result.Imported
			failed += result.Failed
			reportRowErrors(file, result)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		fmt.Fprintln(os.Stderr)
	}

	if dryRun {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Dry run: %d expenses parsed, %d rows skipped, nothing saved", imported, failed)))
	} else {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d expenses (%d rows skipped)", imported, failed)))
	}
	if filesFailed > 0 {
		return fmt.Errorf("%d of %d files could not be imported", filesFailed, len(files))
	}
	return nil
}

func importFile(ctx context.Context, store *storage.SQLiteStorage, parser *importer.Parser, path, format string, dryRun bool) (*importer.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	fileFormat := format
	if fileFormat == "" {
		fileFormat = formatFromExtension(path)
	}

	var result *importer.Result
	switch fileFormat {
	case "csv":
		result, err = parser.ParseCSV(f)
	case "json":
		result, err = parser.ParseJSON(f)
	case "ofx":
		result, err = parser.ParseOFX(f)
	default:
		return nil, fmt.Errorf("unsupported format %q for %s (expected csv, json, or ofx)", fileFormat, path)
	}
	if err != nil {
		return nil, err
	}

	if !dryRun && len(result.Records) > 0 {
		if err := store.CreateExpenses(ctx, result.Records); err != nil {
			return nil, fmt.Errorf("failed to save batch from %s: %w", path, err)
		}
	}
	return result, nil
}

func formatFromExtension(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return "csv"
	case ".json":
		return "json"
	case ".ofx", ".qfx":
		return "ofx"
	}
	return ""
}

// expandFileArgs resolves glob patterns, keeping literal paths that exist.
func expandFileArgs(args []string) ([]string, error) {
	var files []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}

func reportRowErrors(file string, result *importer.Result) {
	for _, rowErr := range result.Errors {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%s: %v", file, rowErr.Error())))
	}
}
