// Package report writes expense data to files: raw CSV/JSON exports and
// a self-contained HTML summary report.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"ausgaben/internal/config"
	"ausgaben/internal/dates"
)

// ResolveOutputPath turns a user-supplied path into a concrete file path.
// An empty path lands in defaultDir under defaultName, a directory gets
// defaultName inside it, anything else is taken as the target file.
// Parent directories are created.
func ResolveOutputPath(path, defaultName, defaultDir string) (string, error) {
	var out string
	switch {
	case path == "":
		out = filepath.Join(defaultDir, defaultName)
	default:
		expanded, err := filepath.Abs(config.ExpandPath(path))
		if err != nil {
			return "", fmt.Errorf("failed to resolve output path %q: %w", path, err)
		}
		if info, err := os.Stat(expanded); err == nil && info.IsDir() {
			out = filepath.Join(expanded, defaultName)
		} else {
			out = expanded
		}
	}

	if dir := filepath.Dir(out); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	return out, nil
}

// ExportFilename suggests a filename for an export over the given range,
// like "expenses_2025-01-01_to_2025-03-31.csv".
func ExportFilename(rng dates.Range, ext string) string {
	return fmt.Sprintf("expenses_%s.%s", rng.Label(), ext)
}

// ReportFilename suggests a filename for an HTML report over the given range.
func ReportFilename(rng dates.Range) string {
	return fmt.Sprintf("expense_report_%s.html", rng.Label())
}
