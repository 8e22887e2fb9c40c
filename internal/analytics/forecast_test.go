package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ausgaben/internal/model"
)

func TestForecastExpenses(t *testing.T) {
	asOf := time.Date(2025, time.July, 15, 0, 0, 0, 0, time.UTC)

	t.Run("flat moving average", func(t *testing.T) {
		// Three months of food history: 90, 110, 100 -> mean 100.
		records := []model.Expense{
			expense("2025-04-10", 90, "food"),
			expense("2025-05-10", 110, "food"),
			expense("2025-06-10", 100, "food"),
		}

		got := ForecastExpenses(records, asOf, 3, 6)

		require.Len(t, got.Categories, 1)
		assert.Equal(t, "food", got.Categories[0].Category)
		assert.InDelta(t, 100, got.Categories[0].MonthlyAverage, tolerance)

		require.Len(t, got.Projections, 3)
		assert.Equal(t, "2025-08", got.Projections[0].Month)
		assert.Equal(t, "2025-09", got.Projections[1].Month)
		assert.Equal(t, "2025-10", got.Projections[2].Month)
		for _, p := range got.Projections {
			assert.InDelta(t, 100, p.Projected, tolerance)
		}

		assert.Equal(t, "2025-01-01", got.WindowStart)
		assert.Equal(t, "2025-06-30", got.WindowEnd)
	})

	t.Run("overall is sum of category means", func(t *testing.T) {
		records := []model.Expense{
			expense("2025-05-10", 100, "food"),
			expense("2025-06-10", 100, "food"),
			expense("2025-06-15", 50, "transport"),
		}

		got := ForecastExpenses(records, asOf, 1, 6)
		assert.InDelta(t, 150, got.MonthlyAverage, tolerance)
		require.Len(t, got.Projections, 1)
		assert.InDelta(t, 150, got.Projections[0].Projected, tolerance)
	})

	t.Run("current month is excluded", func(t *testing.T) {
		// Only complete months count; spending in asOf's own month must not
		// skew the mean.
		records := []model.Expense{
			expense("2025-06-10", 100, "food"),
			expense("2025-07-01", 900, "food"),
		}

		got := ForecastExpenses(records, asOf, 1, 6)
		require.Len(t, got.Categories, 1)
		assert.InDelta(t, 100, got.Categories[0].MonthlyAverage, tolerance)
	})

	t.Run("history outside window is excluded", func(t *testing.T) {
		records := []model.Expense{
			expense("2024-01-10", 500, "food"),
			expense("2025-06-10", 100, "food"),
		}

		got := ForecastExpenses(records, asOf, 1, 6)
		require.Len(t, got.Categories, 1)
		assert.InDelta(t, 100, got.Categories[0].MonthlyAverage, tolerance)
	})

	t.Run("zero history yields zero projections", func(t *testing.T) {
		got := ForecastExpenses(nil, asOf, 4, 6)

		assert.Empty(t, got.Categories)
		assert.Zero(t, got.MonthlyAverage)
		require.Len(t, got.Projections, 4)
		for _, p := range got.Projections {
			assert.Zero(t, p.Projected)
		}
	})

	t.Run("year rollover in projections", func(t *testing.T) {
		nov := time.Date(2025, time.November, 3, 0, 0, 0, 0, time.UTC)
		records := []model.Expense{expense("2025-10-01", 10, "food")}

		got := ForecastExpenses(records, nov, 3, 6)
		require.Len(t, got.Projections, 3)
		assert.Equal(t, "2025-12", got.Projections[0].Month)
		assert.Equal(t, "2026-01", got.Projections[1].Month)
		assert.Equal(t, "2026-02", got.Projections[2].Month)
	})

	t.Run("deterministic category order", func(t *testing.T) {
		records := []model.Expense{
			expense("2025-06-01", 10, "zoo"),
			expense("2025-06-02", 10, "aquarium"),
		}

		got := ForecastExpenses(records, asOf, 1, 6)
		require.Len(t, got.Categories, 2)
		assert.Equal(t, "aquarium", got.Categories[0].Category)
		assert.Equal(t, "zoo", got.Categories[1].Category)
	})
}

func TestForecastExpenses_WindowReported(t *testing.T) {
	asOf := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	got := ForecastExpenses([]model.Expense{expense("2025-02-10", 10, "food")}, asOf, 1, 12)

	assert.Equal(t, 12, got.BasedOnMonths)
	assert.Equal(t, "2024-03-01", got.WindowStart)
	assert.Equal(t, "2025-02-28", got.WindowEnd)
}
