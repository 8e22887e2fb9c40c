package analytics

import (
	"fmt"
	"sort"
	"time"

	"ausgaben/internal/dates"
	"ausgaben/internal/model"
)

// ForecastExpenses projects near-future spending with a simple moving
// average: the arithmetic mean of historical monthly totals, per category
// and overall, repeated flat for each of the next monthsAhead months. This
// is deliberately a constant projection, not a trend extrapolation or
// regression.
//
// History is the trailing basedOnLastMonths complete calendar months before
// asOf's month; records outside that window are ignored. When fewer months
// of history exist the mean uses whatever months are present, and the
// result reports the window actually used. Zero history yields all-zero
// projections, never an error.
func ForecastExpenses(records []model.Expense, asOf time.Time, monthsAhead, basedOnLastMonths int) model.Forecast {
	if monthsAhead < 1 {
		monthsAhead = 1
	}
	if basedOnLastMonths < 1 {
		basedOnLastMonths = 1
	}

	currentMonthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
	windowStart := currentMonthStart.AddDate(0, -basedOnLastMonths, 0)
	windowEnd := currentMonthStart.AddDate(0, 0, -1)
	window := dates.Range{Start: &windowStart, End: &windowEnd}

	// Monthly totals per category, keyed by category then YYYY-MM.
	monthly := make(map[string]map[string]float64)
	for _, e := range records {
		if !window.Contains(e.Date) {
			continue
		}
		month := e.Date.Format("2006-01")
		if monthly[e.Category] == nil {
			monthly[e.Category] = make(map[string]float64)
		}
		monthly[e.Category][month] += e.Amount
	}

	futureMonths := make([]string, monthsAhead)
	for i := 0; i < monthsAhead; i++ {
		y, m := dates.AddMonths(asOf.Year(), asOf.Month(), i+1)
		futureMonths[i] = fmt.Sprintf("%04d-%02d", y, m)
	}

	categories := make([]string, 0, len(monthly))
	for c := range monthly {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	forecast := model.Forecast{
		WindowStart:    windowStart.Format(model.DateFormat),
		WindowEnd:      windowEnd.Format(model.DateFormat),
		BasedOnMonths:  basedOnLastMonths,
		ForecastMonths: monthsAhead,
	}

	var overallAvg float64
	for _, category := range categories {
		months := monthly[category]

		var total float64
		for _, t := range months {
			total += t
		}
		avg := total / float64(len(months))
		overallAvg += avg

		cf := model.CategoryForecast{Category: category, MonthlyAverage: avg}
		for _, month := range futureMonths {
			cf.Projections = append(cf.Projections, model.ForecastPoint{Month: month, Projected: avg})
		}
		forecast.Categories = append(forecast.Categories, cf)
	}

	forecast.MonthlyAverage = overallAvg
	for _, month := range futureMonths {
		forecast.Projections = append(forecast.Projections, model.ForecastPoint{Month: month, Projected: overallAvg})
	}

	return forecast
}
