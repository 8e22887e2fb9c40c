package model

import "errors"

// Validation errors for expense records.
var (
	ErrZeroDate      = errors.New("expense date cannot be zero")
	ErrEmptyCategory = errors.New("expense category cannot be empty")
)

// The types below are transient computed views. They carry no identity and
// are recomputed on every call; nothing here is persisted.

// Totals summarizes a record set.
type Totals struct {
	Total   float64 `json:"total"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// CategoryTotal is one row of a per-category breakdown.
type CategoryTotal struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Average    float64 `json:"average"`
	Min        float64 `json:"min_amount"`
	Max        float64 `json:"max_amount"`
	Percentage float64 `json:"percentage"`
}

// CategoryAmount names a category together with its summed amount.
type CategoryAmount struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// DayAmount names a calendar day together with its summed amount.
type DayAmount struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

// Statistics is the scalar summary returned by the stats operation.
type Statistics struct {
	StartDate        string         `json:"start_date"`
	EndDate          string         `json:"end_date"`
	Count            int            `json:"total_expenses"`
	Total            float64        `json:"total_spent"`
	Average          float64        `json:"average_expense"`
	Min              float64        `json:"min_expense"`
	Max              float64        `json:"max_expense"`
	DailyAverage     float64        `json:"daily_average"`
	TopCategory      CategoryAmount `json:"top_category"`
	MostExpensiveDay DayAmount      `json:"most_expensive_day"`
}

// PeriodBucket is one time bucket of a trend breakdown. Buckets are sparse:
// periods without records are simply absent, so consumers must not assume
// contiguous labels.
type PeriodBucket struct {
	Period  string  `json:"period"`
	Count   int     `json:"expense_count"`
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Min     float64 `json:"min_amount"`
	Max     float64 `json:"max_amount"`
}

// Comparison holds the delta between two months of spending.
//
// PercentChangeUndefined is set when month1 had no spending but month2 did;
// the ratio has no meaningful numeric value in that case and PercentChange
// is left at zero rather than producing a divide-by-zero artifact.
type Comparison struct {
	Month1                 string  `json:"month1"`
	Month2                 string  `json:"month2"`
	Category               string  `json:"category,omitempty"`
	Total1                 float64 `json:"total1"`
	Total2                 float64 `json:"total2"`
	Difference             float64 `json:"difference"`
	PercentChange          float64 `json:"percent_change"`
	PercentChangeUndefined bool    `json:"percent_change_undefined,omitempty"`
}

// ForecastPoint is one projected future month.
type ForecastPoint struct {
	Month     string  `json:"month"`
	Projected float64 `json:"projected_amount"`
}

// CategoryForecast carries the per-category moving average and its
// projections.
type CategoryForecast struct {
	Category       string          `json:"category"`
	MonthlyAverage float64         `json:"historical_avg_monthly"`
	Projections    []ForecastPoint `json:"projections"`
}

// Forecast is the result of the moving-average projection.
type Forecast struct {
	WindowStart    string             `json:"window_start"`
	WindowEnd      string             `json:"window_end"`
	BasedOnMonths  int                `json:"based_on_months"`
	ForecastMonths int                `json:"forecast_months"`
	MonthlyAverage float64            `json:"monthly_average"`
	Projections    []ForecastPoint    `json:"projections"`
	Categories     []CategoryForecast `json:"category_forecasts"`
}

// TaxBucketTotal is one tax bucket with its member expenses.
type TaxBucketTotal struct {
	Bucket   string    `json:"tax_category"`
	Total    float64   `json:"total"`
	Count    int       `json:"count"`
	Expenses []Expense `json:"expenses"`
}

// TaxSummary rolls deductible expenses of one year into fixed buckets.
type TaxSummary struct {
	Year       int              `json:"year"`
	Category   string           `json:"filter_category,omitempty"`
	GrandTotal float64          `json:"grand_total"`
	Count      int              `json:"total_count"`
	Buckets    []TaxBucketTotal `json:"summary"`
}
