package importer

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ausgaben/internal/common"
	"ausgaben/internal/model"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	return NewParser(DefaultHeaderSynonyms(), "EUR")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantErr bool
	}{
		{name: "dot decimal", input: "12.34", want: 12.34},
		{name: "comma decimal", input: "12,34", want: 12.34},
		{name: "integer", input: "42", want: 42},
		{name: "surrounding whitespace", input: "  7.50 ", want: 7.5},
		{name: "negative refund", input: "-3.20", want: -3.2},
		{name: "multiple dots", input: "12.34.56", wantErr: true},
		{name: "comma and dot mixed", input: "1,234.56", wantErr: true},
		{name: "multiple commas", input: "1,234,56", wantErr: true},
		{name: "residue text", input: "12.34 EUR", wantErr: true},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestParseCSV_HeaderSynonyms(t *testing.T) {
	// Equivalent data under two header vocabularies must produce identical
	// records.
	withBookingDate := "booking_date,category,amount\n2025-01-10,food,12.50\n"
	withDate := "date,category,amount\n2025-01-10,food,12.50\n"

	p := newTestParser(t)

	r1, err := p.ParseCSV(strings.NewReader(withBookingDate))
	require.NoError(t, err)
	r2, err := p.ParseCSV(strings.NewReader(withDate))
	require.NoError(t, err)

	require.Len(t, r1.Records, 1)
	assert.Equal(t, r1.Records, r2.Records)
}

func TestParseCSV_HeaderCaseAndWhitespace(t *testing.T) {
	input := " Booking Date , CATEGORY ,Amount\n2025-01-10,food,5\n"

	p := newTestParser(t)
	result, err := p.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	require.Equal(t, 1, result.Imported)
	assert.Equal(t, "food", result.Records[0].Category)
	assert.Equal(t, "2025-01-10", result.Records[0].DateString())
}

func TestParseCSV_RowResilience(t *testing.T) {
	// Row 2 misses its amount; rows 1 and 3 must survive.
	input := strings.Join([]string{
		"date,category,amount",
		"2025-01-10,food,12.50",
		"2025-01-11,food,",
		"2025-01-12,transport,20.00",
	}, "\n") + "\n"

	p := newTestParser(t)
	result, err := p.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "2025-01-10", result.Records[0].DateString())
	assert.Equal(t, "2025-01-12", result.Records[1].DateString())

	require.Len(t, result.Errors, 1)
	assert.Equal(t, 2, result.Errors[0].Row)
	var missing *MissingFieldError
	require.ErrorAs(t, result.Errors[0], &missing)
	assert.Equal(t, "amount", missing.Field)
	assert.Equal(t, 2, missing.Row)
}

func TestParseCSV_RowErrors(t *testing.T) {
	tests := []struct {
		name     string
		row      string
		wantType any
	}{
		{name: "missing category", row: "2025-01-10,,12.50", wantType: &MissingFieldError{}},
		{name: "missing date", row: ",food,12.50", wantType: &MissingFieldError{}},
		{name: "bad amount", row: "2025-01-10,food,12.34.56", wantType: &InvalidAmountError{}},
		{name: "bad date", row: "10th of January,food,12.50", wantType: &InvalidDateError{}},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "date,category,amount\n" + tt.row + "\n"
			result, err := p.ParseCSV(strings.NewReader(input))
			require.NoError(t, err)

			assert.Equal(t, 0, result.Imported)
			require.Len(t, result.Errors, 1)

			switch tt.wantType.(type) {
			case *MissingFieldError:
				var target *MissingFieldError
				assert.ErrorAs(t, result.Errors[0], &target)
			case *InvalidAmountError:
				var target *InvalidAmountError
				assert.ErrorAs(t, result.Errors[0], &target)
			case *InvalidDateError:
				var target *InvalidDateError
				assert.ErrorAs(t, result.Errors[0], &target)
			}
		})
	}
}

func TestParseCSV_DateFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "iso", value: "2025-03-01"},
		{name: "slash delimited", value: "2025/03/01"},
		{name: "german dotted", value: "01.03.2025"},
	}

	p := newTestParser(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := "date,category,amount\n" + tt.value + ",food,1\n"
			result, err := p.ParseCSV(strings.NewReader(input))
			require.NoError(t, err)
			require.Equal(t, 1, result.Imported)
			assert.Equal(t, "2025-03-01", result.Records[0].DateString())
		})
	}
}

func TestParseCSV_FullRow(t *testing.T) {
	input := "date,category,amount,sub_category,description,tax,currency,payment\n" +
		"2025-02-28,health,49.90,dentist,checkup copay,1,CHF,card\n"

	p := newTestParser(t)
	result, err := p.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	got := result.Records[0]
	want := model.Expense{
		Date:          time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Amount:        49.90,
		Category:      "health",
		Subcategory:   "dentist",
		Note:          "checkup copay",
		TaxDeductible: true,
		Currency:      "CHF",
		PaymentMethod: "card",
	}
	assert.Equal(t, want, got)
}

func TestParseCSV_UnknownColumnsIgnored(t *testing.T) {
	input := "date,category,amount,iban,balance_after\n2025-01-10,food,3.50,DE00123,991.10\n"

	p := newTestParser(t)
	result, err := p.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)
}

func TestParseCSV_DefaultsApplied(t *testing.T) {
	input := "date,category,amount\n2025-01-10,food,3.50\n"

	p := newTestParser(t)
	result, err := p.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 1, result.Imported)

	got := result.Records[0]
	assert.Equal(t, "EUR", got.Currency)
	assert.False(t, got.TaxDeductible)
	assert.Empty(t, got.Subcategory)
	assert.Empty(t, got.Note)
	assert.Empty(t, got.PaymentMethod)
}

func TestParseCSV_BOMHeader(t *testing.T) {
	input := "\uFEFFdate,category,amount\n2025-01-10,food,3.50\n"

	p := newTestParser(t)
	result, err := p.ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
}

func TestParseCSV_EmptyInput(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseCSV(strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBatchFormat)
}

func TestParseBool(t *testing.T) {
	trueValues := []string{"1", "true", "TRUE", "True", "yes", "y", "t"}
	for _, v := range trueValues {
		assert.True(t, parseBool(v), "value %q", v)
	}
	falseValues := []string{"", "0", "false", "no", "maybe"}
	for _, v := range falseValues {
		assert.False(t, parseBool(v), "value %q", v)
	}
}

func TestParseJSON(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		input := `[
			{"date": "2025-01-10", "category": "food", "amount": 12.5},
			{"date": "2025-01-11", "category": "transport", "amount": "4,30", "tax_deductible": true}
		]`

		p := newTestParser(t)
		result, err := p.ParseJSON(strings.NewReader(input))
		require.NoError(t, err)

		require.Equal(t, 2, result.Imported)
		assert.InDelta(t, 12.5, result.Records[0].Amount, 1e-9)
		assert.InDelta(t, 4.30, result.Records[1].Amount, 1e-9)
		assert.True(t, result.Records[1].TaxDeductible)
	})

	t.Run("expenses wrapper", func(t *testing.T) {
		input := `{"expenses": [{"date": "2025-01-10", "category": "food", "amount": 1}]}`

		p := newTestParser(t)
		result, err := p.ParseJSON(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 1, result.Imported)
	})

	t.Run("synonym keys", func(t *testing.T) {
		input := `[{"booking_date": "2025-01-10", "cat": "food", "value": 2.5, "description": "lunch"}]`

		p := newTestParser(t)
		result, err := p.ParseJSON(strings.NewReader(input))
		require.NoError(t, err)
		require.Equal(t, 1, result.Imported)
		assert.Equal(t, "lunch", result.Records[0].Note)
	})

	t.Run("row errors accumulate", func(t *testing.T) {
		input := `[
			{"date": "2025-01-10", "category": "food", "amount": 1},
			{"date": "2025-01-11", "category": "food"},
			{"date": "2025-01-12", "category": "food", "amount": 2}
		]`

		p := newTestParser(t)
		result, err := p.ParseJSON(strings.NewReader(input))
		require.NoError(t, err)
		assert.Equal(t, 2, result.Imported)
		assert.Equal(t, 1, result.Failed)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, 2, result.Errors[0].Row)
	})

	t.Run("not an array", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.ParseJSON(strings.NewReader(`{"foo": "bar"}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrBatchFormat)
	})

	t.Run("empty input", func(t *testing.T) {
		p := newTestParser(t)
		_, err := p.ParseJSON(strings.NewReader(""))
		require.Error(t, err)
		assert.ErrorIs(t, err, common.ErrBatchFormat)
	})
}

func TestParseOFX_EmptyInput(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseOFX(strings.NewReader(""))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBatchFormat)
}

func TestParseOFX_Garbage(t *testing.T) {
	p := newTestParser(t)
	_, err := p.ParseOFX(strings.NewReader("definitely not an OFX file"))
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrBatchFormat)
}
