package analytics

import (
	"sort"

	"ausgaben/internal/dates"
	"ausgaben/internal/model"
)

// FilterCategory returns the records matching category, or the input
// unchanged when category is empty.
func FilterCategory(records []model.Expense, category string) []model.Expense {
	if category == "" {
		return records
	}
	filtered := make([]model.Expense, 0, len(records))
	for _, e := range records {
		if e.Category == category {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// Totals sums a record set. An empty set yields zeroes, including a zero
// average.
func Totals(records []model.Expense) model.Totals {
	var t model.Totals
	for _, e := range records {
		t.Total += e.Amount
		t.Count++
	}
	if t.Count > 0 {
		t.Average = t.Total / float64(t.Count)
	}
	return t
}

// CategoryBreakdown groups records by category with per-group totals,
// counts, min/max, and percentage share of the grand total. Rows are ordered
// by total descending; equal totals order lexicographically so output is
// deterministic.
func CategoryBreakdown(records []model.Expense) []model.CategoryTotal {
	groups := make(map[string]*model.CategoryTotal)
	var grand float64

	for _, e := range records {
		g, ok := groups[e.Category]
		if !ok {
			g = &model.CategoryTotal{Category: e.Category, Min: e.Amount, Max: e.Amount}
			groups[e.Category] = g
		}
		g.Total += e.Amount
		g.Count++
		if e.Amount < g.Min {
			g.Min = e.Amount
		}
		if e.Amount > g.Max {
			g.Max = e.Amount
		}
		grand += e.Amount
	}

	breakdown := make([]model.CategoryTotal, 0, len(groups))
	for _, g := range groups {
		g.Average = g.Total / float64(g.Count)
		g.Percentage = PercentageShare(g.Total, grand)
		breakdown = append(breakdown, *g)
	}

	sort.Slice(breakdown, func(i, j int) bool {
		if breakdown[i].Total != breakdown[j].Total {
			return breakdown[i].Total > breakdown[j].Total
		}
		return breakdown[i].Category < breakdown[j].Category
	})

	return breakdown
}

// ComputeStatistics derives the scalar summary for a record set within rng.
// The range is only used to label the result and compute the daily average;
// open bounds fall back to the earliest and latest record dates.
//
// Ties for top category and most expensive day resolve to the
// lexicographically smaller key, keeping results reproducible.
func ComputeStatistics(records []model.Expense, rng dates.Range) model.Statistics {
	stats := model.Statistics{
		StartDate: rng.StartString(),
		EndDate:   rng.EndString(),
	}
	if len(records) == 0 {
		return stats
	}

	byDay := make(map[string]float64)
	byCategory := make(map[string]float64)

	stats.Min = records[0].Amount
	stats.Max = records[0].Amount
	earliest, latest := records[0].Date, records[0].Date

	for _, e := range records {
		stats.Total += e.Amount
		stats.Count++
		if e.Amount < stats.Min {
			stats.Min = e.Amount
		}
		if e.Amount > stats.Max {
			stats.Max = e.Amount
		}
		if e.Date.Before(earliest) {
			earliest = e.Date
		}
		if e.Date.After(latest) {
			latest = e.Date
		}
		byDay[e.DateString()] += e.Amount
		byCategory[e.Category] += e.Amount
	}

	stats.Average = stats.Total / float64(stats.Count)

	spanStart, spanEnd := earliest, latest
	if rng.Start != nil {
		spanStart = *rng.Start
	}
	if rng.End != nil {
		spanEnd = *rng.End
	}
	days := int(spanEnd.Sub(spanStart).Hours()/24) + 1
	if days > 0 {
		stats.DailyAverage = stats.Total / float64(days)
	}

	topCat, topCatTotal := maxByKey(byCategory)
	stats.TopCategory = model.CategoryAmount{Category: topCat, Total: topCatTotal}

	topDay, topDayTotal := maxByKey(byDay)
	stats.MostExpensiveDay = model.DayAmount{Date: topDay, Total: topDayTotal}

	return stats
}

// maxByKey returns the key with the highest summed value. Iteration is over
// sorted keys with a strict comparison, so equal sums resolve to the
// lexicographically smaller key.
func maxByKey(sums map[string]float64) (string, float64) {
	keys := make([]string, 0, len(sums))
	for k := range sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var bestKey string
	var bestTotal float64
	for i, k := range keys {
		if i == 0 || sums[k] > bestTotal {
			bestKey = k
			bestTotal = sums[k]
		}
	}
	return bestKey, bestTotal
}
