package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"ausgaben/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = errors.New("context cannot be nil")
	ErrEmptyString   = errors.New("string parameter cannot be empty")
	ErrInvalidID     = errors.New("id must be positive")
	ErrInvalidAmount = errors.New("amount must be finite")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a record id is usable.
func validateID(id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidID, id)
	}
	return nil
}

// validateExpense checks record invariants before a write.
func validateExpense(e *model.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidAmount, e.Amount)
	}
	return nil
}
