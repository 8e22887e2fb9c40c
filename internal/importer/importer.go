// Package importer converts externally produced expense files into validated
// expense records.
//
// The parser is tolerant by design: header naming, date delimiters, and
// decimal separators vary between bank exports, so rows are resolved through
// a configurable synonym table and normalized field by field. A bad row never
// aborts the batch; it is recorded as a row-level error and parsing
// continues. Only structurally unreadable input (empty file, missing header,
// malformed JSON) fails the whole batch.
//
// The importer does not de-duplicate. Re-importing the same file produces
// duplicate records; avoiding that is the caller's responsibility.
package importer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"ausgaben/internal/model"
)

// Canonical field names produced by header resolution.
const (
	fieldDate          = "date"
	fieldAmount        = "amount"
	fieldCategory      = "category"
	fieldSubcategory   = "subcategory"
	fieldNote          = "note"
	fieldTaxDeductible = "tax_deductible"
	fieldCurrency      = "currency"
	fieldPaymentMethod = "payment_method"
)

// HeaderSynonyms maps a canonical field name to the set of raw header names
// accepted for it. Matching is case- and whitespace-insensitive.
type HeaderSynonyms map[string][]string

// ValidField reports whether name is a canonical expense field that header
// synonyms may resolve to.
func ValidField(name string) bool {
	switch name {
	case fieldDate, fieldAmount, fieldCategory, fieldSubcategory,
		fieldNote, fieldTaxDeductible, fieldCurrency, fieldPaymentMethod:
		return true
	}
	return false
}

// DefaultHeaderSynonyms returns the compiled-in synonym table. Deployments
// can extend it through configuration to support new bank-export formats
// without code changes.
func DefaultHeaderSynonyms() HeaderSynonyms {
	return HeaderSynonyms{
		fieldDate:          {"date", "booking_date", "transaction_date"},
		fieldAmount:        {"amount", "value", "price"},
		fieldCategory:      {"category", "cat"},
		fieldSubcategory:   {"subcategory", "sub_category"},
		fieldNote:          {"note", "description"},
		fieldTaxDeductible: {"tax_deductible", "tax"},
		fieldCurrency:      {"currency"},
		fieldPaymentMethod: {"payment_method", "payment"},
	}
}

// Parser turns raw rows of unknown shape into expense records.
type Parser struct {
	synonyms        map[string]string
	defaultCurrency string
}

// NewParser creates a parser using the given synonym table and default
// currency tag for rows that carry none.
func NewParser(synonyms HeaderSynonyms, defaultCurrency string) *Parser {
	resolved := make(map[string]string)
	for canonical, raws := range synonyms {
		resolved[normalizeHeader(canonical)] = canonical
		for _, raw := range raws {
			resolved[normalizeHeader(raw)] = canonical
		}
	}
	return &Parser{
		synonyms:        resolved,
		defaultCurrency: defaultCurrency,
	}
}

// normalizeHeader lowercases, trims, and collapses inner whitespace so that
// " Booking Date " and "booking_date" resolve identically.
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.Join(strings.Fields(strings.ReplaceAll(h, "_", " ")), "_")
}

// resolveHeader maps a raw header to its canonical field name. Unrecognized
// headers resolve to "" and are ignored by the row parser.
func (p *Parser) resolveHeader(raw string) string {
	return p.synonyms[normalizeHeader(raw)]
}

// Result is the outcome of parsing one batch.
type Result struct {
	Records  []model.Expense
	Errors   []RowError
	Imported int
	Failed   int
}

// addError records a failed row.
func (r *Result) addError(row int, err error) {
	r.Errors = append(r.Errors, RowError{Row: row, Err: err})
	r.Failed++
}

// parseRow validates one resolved row (canonical field -> raw value) into an
// expense record. row is the 1-based data row index used in errors.
func (p *Parser) parseRow(row int, fields map[string]string) (model.Expense, error) {
	dateRaw := strings.TrimSpace(fields[fieldDate])
	if dateRaw == "" {
		return model.Expense{}, &MissingFieldError{Row: row, Field: fieldDate}
	}
	category := strings.TrimSpace(fields[fieldCategory])
	if category == "" {
		return model.Expense{}, &MissingFieldError{Row: row, Field: fieldCategory}
	}
	amountRaw := strings.TrimSpace(fields[fieldAmount])
	if amountRaw == "" {
		return model.Expense{}, &MissingFieldError{Row: row, Field: fieldAmount}
	}

	date, err := parseRowDate(dateRaw)
	if err != nil {
		return model.Expense{}, &InvalidDateError{Row: row, Value: dateRaw}
	}

	amount, err := ParseAmount(amountRaw)
	if err != nil {
		return model.Expense{}, &InvalidAmountError{Row: row, Value: amountRaw}
	}

	currency := strings.TrimSpace(fields[fieldCurrency])
	if currency == "" {
		currency = p.defaultCurrency
	}

	return model.Expense{
		Date:          date,
		Amount:        amount,
		Category:      category,
		Subcategory:   strings.TrimSpace(fields[fieldSubcategory]),
		Note:          strings.TrimSpace(fields[fieldNote]),
		TaxDeductible: parseBool(fields[fieldTaxDeductible]),
		Currency:      currency,
		PaymentMethod: strings.TrimSpace(fields[fieldPaymentMethod]),
	}, nil
}

// rowDateFormats are the date layouts the importer accepts, tried in order.
var rowDateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"02.01.2006",
}

func parseRowDate(s string) (time.Time, error) {
	for _, layout := range rowDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// ParseAmount normalizes a decimal string to a float64. A comma is accepted
// as decimal separator only when it is the sole separator in the value
// ("12,34" means 12.34); values mixing separators or carrying non-numeric
// residue are rejected.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	if strings.Contains(s, ",") {
		if strings.Count(s, ",") > 1 || strings.Contains(s, ".") {
			return 0, fmt.Errorf("ambiguous decimal separators in %q", s)
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("amount %q is not finite", s)
	}
	return v, nil
}

// parseBool normalizes the tax_deductible column. Empty and unrecognized
// values mean false.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "t":
		return true
	default:
		return false
	}
}
