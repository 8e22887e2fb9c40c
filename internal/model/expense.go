// Package model defines the core domain types shared across the application.
package model

import (
	"encoding/json"
	"strings"
	"time"
)

// DateFormat is the canonical date rendering used throughout the application.
const DateFormat = "2006-01-02"

// Expense represents a single expense record.
//
// Records are created by the importer or the add command, mutated only by an
// explicit edit, and deleted only by an explicit delete. The analytics engine
// treats them as read-only input.
type Expense struct {
	Date          time.Time
	Category      string
	Subcategory   string
	Note          string
	PaymentMethod string
	Currency      string
	ID            int64
	Amount        float64
	TaxDeductible bool
}

// DateString renders the expense date as YYYY-MM-DD.
func (e *Expense) DateString() string {
	return e.Date.Format(DateFormat)
}

// MarshalJSON renders the expense with snake_case keys and the date as
// YYYY-MM-DD, matching the storage representation and the export formats.
func (e Expense) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date          string  `json:"date"`
		Category      string  `json:"category"`
		Subcategory   string  `json:"subcategory"`
		Note          string  `json:"note"`
		Currency      string  `json:"currency"`
		PaymentMethod string  `json:"payment_method"`
		ID            int64   `json:"id"`
		Amount        float64 `json:"amount"`
		TaxDeductible bool    `json:"tax_deductible"`
	}{
		ID:            e.ID,
		Date:          e.DateString(),
		Amount:        e.Amount,
		Category:      e.Category,
		Subcategory:   e.Subcategory,
		Note:          e.Note,
		TaxDeductible: e.TaxDeductible,
		Currency:      e.Currency,
		PaymentMethod: e.PaymentMethod,
	})
}

// Validate checks the invariants that every persisted expense must satisfy.
func (e *Expense) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}
