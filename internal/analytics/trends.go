package analytics

import (
	"fmt"
	"sort"

	"ausgaben/internal/model"
)

// Granularity selects the bucket size for trend analysis.
type Granularity string

// Supported trend granularities.
const (
	ByDay   Granularity = "day"
	ByWeek  Granularity = "week"
	ByMonth Granularity = "month"
)

// Valid reports whether g is a supported granularity.
func (g Granularity) Valid() bool {
	switch g {
	case ByDay, ByWeek, ByMonth:
		return true
	}
	return false
}

// periodLabel renders the bucket label for one expense. Weeks use ISO week
// numbering, so early January can land in the previous ISO year.
func (g Granularity) periodLabel(e *model.Expense) string {
	switch g {
	case ByDay:
		return e.DateString()
	case ByWeek:
		year, week := e.Date.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", year, week)
	default:
		return e.Date.Format("2006-01")
	}
}

// BucketBy groups records into calendar buckets of the given granularity,
// returned in chronological order. Output is sparse: periods without records
// produce no bucket, so consumers must not assume contiguous labels.
func BucketBy(records []model.Expense, granularity Granularity) []model.PeriodBucket {
	buckets := make(map[string]*model.PeriodBucket)

	for i := range records {
		e := &records[i]
		label := granularity.periodLabel(e)
		b, ok := buckets[label]
		if !ok {
			b = &model.PeriodBucket{Period: label, Min: e.Amount, Max: e.Amount}
			buckets[label] = b
		}
		b.Total += e.Amount
		b.Count++
		if e.Amount < b.Min {
			b.Min = e.Amount
		}
		if e.Amount > b.Max {
			b.Max = e.Amount
		}
	}

	out := make([]model.PeriodBucket, 0, len(buckets))
	for _, b := range buckets {
		b.Average = b.Total / float64(b.Count)
		out = append(out, *b)
	}

	// Day, ISO-week, and month labels are all zero-padded, so
	// lexicographic order is chronological order.
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })

	return out
}

// CompareMonths computes the spending delta between two months whose record
// sets have already been resolved by the storage layer. The optional
// category narrows both sides before summing. Zero-denominator handling
// follows the PercentChange policy.
func CompareMonths(month1Records, month2Records []model.Expense, month1, month2, category string) model.Comparison {
	total1 := Totals(FilterCategory(month1Records, category)).Total
	total2 := Totals(FilterCategory(month2Records, category)).Total

	pct, defined := PercentChange(total1, total2)

	return model.Comparison{
		Month1:                 month1,
		Month2:                 month2,
		Category:               category,
		Total1:                 total1,
		Total2:                 total2,
		Difference:             total2 - total1,
		PercentChange:          pct,
		PercentChangeUndefined: !defined,
	}
}
