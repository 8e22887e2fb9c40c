// Package config loads the application configuration: file locations, the
// default currency, and the lookup tables driving import and tax bucketing.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"ausgaben/internal/analytics"
	"ausgaben/internal/common"
	"ausgaben/internal/importer"
)

// Config carries everything the commands need: file locations, the default
// currency stamped onto imported records, and the lookup tables for header
// synonyms and tax buckets. Loaded once at startup and passed down.
type Config struct {
	DatabasePath    string
	OutputsDir      string
	ReportsDir      string
	DefaultCurrency string
	HeaderSynonyms  importer.HeaderSynonyms
	TaxMapping      analytics.TaxMapping
}

// Load builds the configuration from Viper with code defaults. The
// header-synonym and tax-mapping tables start from the built-in defaults;
// config entries extend or override individual rows, they never replace the
// whole table.
func Load() (*Config, error) {
	dataDir, err := defaultDataDir()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabasePath:    filepath.Join(dataDir, "expenses.db"),
		OutputsDir:      filepath.Join(dataDir, "outputs"),
		ReportsDir:      filepath.Join(dataDir, "reports"),
		DefaultCurrency: "EUR",
		HeaderSynonyms:  importer.DefaultHeaderSynonyms(),
		TaxMapping:      analytics.DefaultTaxMapping(),
	}

	if v := viper.GetString("database.path"); v != "" {
		cfg.DatabasePath = ExpandPath(v)
	}
	if v := viper.GetString("outputs.dir"); v != "" {
		cfg.OutputsDir = ExpandPath(v)
	}
	if v := viper.GetString("reports.dir"); v != "" {
		cfg.ReportsDir = ExpandPath(v)
	}
	if v := viper.GetString("import.default_currency"); v != "" {
		cfg.DefaultCurrency = strings.ToUpper(strings.TrimSpace(v))
	}

	for synonym, canonical := range viper.GetStringMapString("import.header_synonyms") {
		canonical = strings.ToLower(strings.TrimSpace(canonical))
		if !importer.ValidField(canonical) {
			return nil, fmt.Errorf("%w: header synonym %q maps to unknown field %q", common.ErrInvalidConfig, synonym, canonical)
		}
		cfg.HeaderSynonyms[canonical] = append(cfg.HeaderSynonyms[canonical], synonym)
	}

	for category, bucket := range viper.GetStringMapString("tax.category_buckets") {
		if !analytics.ValidTaxBucket(bucket) {
			return nil, fmt.Errorf("%w: unknown tax bucket %q for category %q", common.ErrInvalidConfig, bucket, category)
		}
		cfg.TaxMapping.CategoryBuckets[strings.ToLower(category)] = bucket
	}

	return cfg, nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", "ausgaben"), nil
}

// ExpandPath expands a leading ~ and $VAR environment references in a path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
