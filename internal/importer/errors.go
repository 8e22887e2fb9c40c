package importer

import "fmt"

// RowError ties a row-level failure to its 1-based data row index. Row
// errors are accumulated in the batch result, never raised individually.
type RowError struct {
	Err error
	Row int
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error {
	return e.Err
}

// MissingFieldError reports a row that lacks a required field after header
// resolution.
type MissingFieldError struct {
	Field string
	Row   int
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("row %d: missing required field %q", e.Row, e.Field)
}

// InvalidAmountError reports an amount value that could not be normalized.
type InvalidAmountError struct {
	Value string
	Row   int
}

func (e *InvalidAmountError) Error() string {
	return fmt.Sprintf("row %d: invalid amount %q", e.Row, e.Value)
}

// InvalidDateError reports a date value no accepted layout could parse.
type InvalidDateError struct {
	Value string
	Row   int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("row %d: invalid date %q", e.Row, e.Value)
}
