package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ausgaben/internal/common"
	"ausgaben/internal/dates"
	"ausgaben/internal/model"
)

const expenseColumns = "id, date, amount, category, subcategory, note, tax_deductible, currency, payment_method"

// CreateExpense inserts one expense and assigns its id.
func (s *SQLiteStorage) CreateExpense(ctx context.Context, e *model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateExpense(e); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO expenses (date, amount, category, subcategory, note, tax_deductible, currency, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.DateString(), e.Amount, e.Category, e.Subcategory, e.Note, boolToInt(e.TaxDeductible), e.Currency, e.PaymentMethod)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read inserted id: %w", err)
	}
	e.ID = id
	return nil
}

// CreateExpenses inserts a batch of expenses in a single transaction,
// assigning ids in place. Used by the import flow so a batch either lands
// completely or not at all.
func (s *SQLiteStorage) CreateExpenses(ctx context.Context, expenses []model.Expense) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(expenses) == 0 {
		return nil
	}
	for i := range expenses {
		if err := validateExpense(&expenses[i]); err != nil {
			return fmt.Errorf("expense at index %d: %w", i, err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (date, amount, category, subcategory, note, tax_deductible, currency, payment_method)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range expenses {
		e := &expenses[i]
		res, err := stmt.ExecContext(ctx, e.DateString(), e.Amount, e.Category, e.Subcategory, e.Note,
			boolToInt(e.TaxDeductible), e.Currency, e.PaymentMethod)
		if err != nil {
			return fmt.Errorf("failed to insert expense at index %d: %w", i, err)
		}
		if e.ID, err = res.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read inserted id at index %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// GetExpense fetches one expense by id.
func (s *SQLiteStorage) GetExpense(ctx context.Context, id int64) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+expenseColumns+" FROM expenses WHERE id = ?", id)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get expense %d: %w", id, err)
	}
	return e, nil
}

// UpdateExpenseParams carries a partial update: nil fields are left
// unchanged.
type UpdateExpenseParams struct {
	Date          *time.Time
	Amount        *float64
	Category      *string
	Subcategory   *string
	Note          *string
	TaxDeductible *bool
	Currency      *string
	PaymentMethod *string
}

// UpdateExpense applies a partial update to an existing expense and returns
// the updated record. A missing id yields common.ErrNotFound; a params value
// with no fields set is rejected.
func (s *SQLiteStorage) UpdateExpense(ctx context.Context, id int64, params UpdateExpenseParams) (*model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateID(id); err != nil {
		return nil, err
	}

	var sets []string
	var args []any

	if params.Date != nil {
		sets = append(sets, "date = ?")
		args = append(args, params.Date.Format(model.DateFormat))
	}
	if params.Amount != nil {
		sets = append(sets, "amount = ?")
		args = append(args, *params.Amount)
	}
	if params.Category != nil {
		if err := validateString(*params.Category, "category"); err != nil {
			return nil, err
		}
		sets = append(sets, "category = ?")
		args = append(args, *params.Category)
	}
	if params.Subcategory != nil {
		sets = append(sets, "subcategory = ?")
		args = append(args, *params.Subcategory)
	}
	if params.Note != nil {
		sets = append(sets, "note = ?")
		args = append(args, *params.Note)
	}
	if params.TaxDeductible != nil {
		sets = append(sets, "tax_deductible = ?")
		args = append(args, boolToInt(*params.TaxDeductible))
	}
	if params.Currency != nil {
		sets = append(sets, "currency = ?")
		args = append(args, *params.Currency)
	}
	if params.PaymentMethod != nil {
		sets = append(sets, "payment_method = ?")
		args = append(args, *params.PaymentMethod)
	}

	if len(sets) == 0 {
		return nil, common.ErrNoFieldsToEdit
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, "UPDATE expenses SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}

	return s.GetExpense(ctx, id)
}

// DeleteExpense removes one expense by id; a missing id yields
// common.ErrNotFound.
func (s *SQLiteStorage) DeleteExpense(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", id, common.ErrNotFound)
	}
	return nil
}

// ListExpenses returns all expenses inside the inclusive range, ordered by
// date then id. Open range bounds are supported on either side.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, rng dates.Range) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + expenseColumns + " FROM expenses"
	var conds []string
	var args []any

	if rng.Start != nil {
		conds = append(conds, "date >= ?")
		args = append(args, rng.StartString())
	}
	if rng.End != nil {
		conds = append(conds, "date <= ?")
		args = append(args, rng.EndString())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY date ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// TaxDeductibleExpenses returns the deductible records of one calendar year,
// ordered by date, as input for the tax bucketer.
func (s *SQLiteStorage) TaxDeductibleExpenses(ctx context.Context, year int) ([]model.Expense, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rng := dates.YearRange(year)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE date BETWEEN ? AND ? AND tax_deductible = 1
		ORDER BY date ASC, id ASC
	`, rng.StartString(), rng.EndString())
	if err != nil {
		return nil, fmt.Errorf("failed to query tax-deductible expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return collectExpenses(rows)
}

// SearchQuery describes a flexible expense filter. Zero values mean "no
// constraint"; amount bounds and the tax flag use pointers so zero and
// "unset" stay distinct.
type SearchQuery struct {
	Range         dates.Range
	Category      string
	NoteContains  string
	MinAmount     *float64
	MaxAmount     *float64
	TaxDeductible *bool
	Limit         int
	Offset        int
}

// SearchResult is one page of search matches plus the total match count.
type SearchResult struct {
	Expenses   []model.Expense
	TotalCount int
	Limit      int
	Offset     int
}

// defaultSearchLimit caps unpaginated searches.
const defaultSearchLimit = 100

// SearchExpenses runs a filtered, paginated query over all expenses.
func (s *SQLiteStorage) SearchExpenses(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}

	var conds []string
	var args []any

	if q.Range.Start != nil {
		conds = append(conds, "date >= ?")
		args = append(args, q.Range.StartString())
	}
	if q.Range.End != nil {
		conds = append(conds, "date <= ?")
		args = append(args, q.Range.EndString())
	}
	if q.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, q.Category)
	}
	if q.MinAmount != nil {
		conds = append(conds, "amount >= ?")
		args = append(args, *q.MinAmount)
	}
	if q.MaxAmount != nil {
		conds = append(conds, "amount <= ?")
		args = append(args, *q.MaxAmount)
	}
	if q.NoteContains != "" {
		conds = append(conds, "note LIKE ?")
		args = append(args, "%"+q.NoteContains+"%")
	}
	if q.TaxDeductible != nil {
		conds = append(conds, "tax_deductible = ?")
		args = append(args, boolToInt(*q.TaxDeductible))
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count search matches: %w", err)
	}

	query := "SELECT " + expenseColumns + " FROM expenses" + where +
		" ORDER BY date DESC, id DESC LIMIT ? OFFSET ?"
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to search expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	expenses, err := collectExpenses(rows)
	if err != nil {
		return nil, err
	}

	return &SearchResult{
		Expenses:   expenses,
		TotalCount: total,
		Limit:      q.Limit,
		Offset:     q.Offset,
	}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*model.Expense, error) {
	var e model.Expense
	var dateStr string
	var taxInt int

	err := row.Scan(&e.ID, &dateStr, &e.Amount, &e.Category, &e.Subcategory, &e.Note, &taxInt, &e.Currency, &e.PaymentMethod)
	if err != nil {
		return nil, err
	}

	e.Date, err = time.Parse(model.DateFormat, dateStr)
	if err != nil {
		return nil, fmt.Errorf("stored date %q is not valid: %w", dateStr, err)
	}
	e.TaxDeductible = taxInt != 0
	return &e, nil
}

func collectExpenses(rows *sql.Rows) ([]model.Expense, error) {
	var expenses []model.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
