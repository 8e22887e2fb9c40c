package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"ausgaben/internal/dates"
	"ausgaben/internal/model"
)

// exportColumns is the fixed CSV column order. The export side mirrors the
// canonical import fields so an exported file re-imports cleanly.
var exportColumns = []string{
	"id",
	"date",
	"amount",
	"category",
	"subcategory",
	"note",
	"tax_deductible",
	"currency",
	"payment_method",
}

// ExportCSV writes expenses to path as CSV with a fixed header row.
func ExportCSV(path string, expenses []model.Expense) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)
	if err := w.Write(exportColumns); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range expenses {
		e := &expenses[i]
		taxFlag := "0"
		if e.TaxDeductible {
			taxFlag = "1"
		}
		row := []string{
			strconv.FormatInt(e.ID, 10),
			e.DateString(),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			e.Category,
			e.Subcategory,
			e.Note,
			taxFlag,
			e.Currency,
			e.PaymentMethod,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return f.Close()
}

// Analytics is the optional analytics block embedded in a JSON export.
type Analytics struct {
	Statistics        *model.Statistics     `json:"statistics,omitempty"`
	CategoryBreakdown []model.CategoryTotal `json:"category_breakdown,omitempty"`
}

// jsonExport is the on-disk shape of a JSON export.
type jsonExport struct {
	Period    periodJSON      `json:"period"`
	Analytics *Analytics      `json:"analytics,omitempty"`
	Expenses  []model.Expense `json:"expenses"`
}

type periodJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ExportJSON writes expenses to path as indented JSON, with the period and
// optionally an analytics block alongside the raw records.
func ExportJSON(path string, rng dates.Range, expenses []model.Expense, analytics *Analytics) error {
	if expenses == nil {
		expenses = []model.Expense{}
	}
	payload := jsonExport{
		Period:    periodJSON{Start: rng.StartString(), End: rng.EndString()},
		Analytics: analytics,
		Expenses:  expenses,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal export: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write export file %s: %w", path, err)
	}
	return nil
}
