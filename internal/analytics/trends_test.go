package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ausgaben/internal/model"
)

func TestBucketBy_Month(t *testing.T) {
	// January and March have data, February does not: exactly two buckets,
	// the empty month is absent.
	records := []model.Expense{
		expense("2025-01-05", 10, "food"),
		expense("2025-01-20", 20, "food"),
		expense("2025-03-01", 30, "transport"),
	}

	buckets := BucketBy(records, ByMonth)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-01", buckets[0].Period)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 30, buckets[0].Total, tolerance)
	assert.InDelta(t, 15, buckets[0].Average, tolerance)
	assert.InDelta(t, 10, buckets[0].Min, tolerance)
	assert.InDelta(t, 20, buckets[0].Max, tolerance)

	assert.Equal(t, "2025-03", buckets[1].Period)
	assert.Equal(t, 1, buckets[1].Count)
	assert.InDelta(t, 30, buckets[1].Total, tolerance)
}

func TestBucketBy_Day(t *testing.T) {
	records := []model.Expense{
		expense("2025-01-05", 10, "food"),
		expense("2025-01-05", 5, "food"),
		expense("2025-01-07", 20, "food"),
	}

	buckets := BucketBy(records, ByDay)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2025-01-05", buckets[0].Period)
	assert.InDelta(t, 15, buckets[0].Total, tolerance)
	assert.Equal(t, "2025-01-07", buckets[1].Period)
}

func TestBucketBy_ISOWeek(t *testing.T) {
	records := []model.Expense{
		// 2024-12-30 is a Monday belonging to ISO week 1 of 2025.
		expense("2024-12-30", 10, "food"),
		expense("2025-01-02", 5, "food"),
		// 2025-01-06 starts ISO week 2.
		expense("2025-01-06", 20, "food"),
	}

	buckets := BucketBy(records, ByWeek)
	require.Len(t, buckets, 2)

	assert.Equal(t, "2025-W01", buckets[0].Period)
	assert.Equal(t, 2, buckets[0].Count)
	assert.InDelta(t, 15, buckets[0].Total, tolerance)
	assert.Equal(t, "2025-W02", buckets[1].Period)
}

func TestBucketBy_Empty(t *testing.T) {
	assert.Empty(t, BucketBy(nil, ByMonth))
}

func TestGranularityValid(t *testing.T) {
	assert.True(t, ByDay.Valid())
	assert.True(t, ByWeek.Valid())
	assert.True(t, ByMonth.Valid())
	assert.False(t, Granularity("year").Valid())
	assert.False(t, Granularity("").Valid())
}

func TestCompareMonths(t *testing.T) {
	jan := []model.Expense{
		expense("2025-01-10", 100, "food"),
		expense("2025-01-20", 50, "transport"),
	}
	feb := []model.Expense{
		expense("2025-02-05", 120, "food"),
		expense("2025-02-15", 60, "transport"),
	}

	t.Run("basic delta", func(t *testing.T) {
		got := CompareMonths(jan, feb, "2025-01", "2025-02", "")
		assert.InDelta(t, 150, got.Total1, tolerance)
		assert.InDelta(t, 180, got.Total2, tolerance)
		assert.InDelta(t, 30, got.Difference, tolerance)
		assert.InDelta(t, 20, got.PercentChange, tolerance)
		assert.False(t, got.PercentChangeUndefined)
	})

	t.Run("category filter", func(t *testing.T) {
		got := CompareMonths(jan, feb, "2025-01", "2025-02", "food")
		assert.InDelta(t, 100, got.Total1, tolerance)
		assert.InDelta(t, 120, got.Total2, tolerance)
		assert.InDelta(t, 20, got.PercentChange, tolerance)
	})

	t.Run("same month twice yields zero change", func(t *testing.T) {
		got := CompareMonths(jan, jan, "2025-01", "2025-01", "")
		assert.Zero(t, got.Difference)
		assert.Zero(t, got.PercentChange)
		assert.False(t, got.PercentChangeUndefined)
	})

	t.Run("growth from zero base is undefined", func(t *testing.T) {
		got := CompareMonths(nil, feb, "2024-12", "2025-02", "")
		assert.InDelta(t, 180, got.Difference, tolerance)
		assert.True(t, got.PercentChangeUndefined)
		assert.Zero(t, got.PercentChange)
	})

	t.Run("zero to zero is a defined zero", func(t *testing.T) {
		got := CompareMonths(nil, nil, "2024-11", "2024-12", "")
		assert.Zero(t, got.Difference)
		assert.Zero(t, got.PercentChange)
		assert.False(t, got.PercentChangeUndefined)
	})
}

func TestPercentageShare(t *testing.T) {
	assert.InDelta(t, 25, PercentageShare(25, 100), tolerance)
	assert.Zero(t, PercentageShare(25, 0))
	assert.Zero(t, PercentageShare(0, 0))
}

func TestPercentChange(t *testing.T) {
	pct, defined := PercentChange(100, 150)
	assert.True(t, defined)
	assert.InDelta(t, 50, pct, tolerance)

	pct, defined = PercentChange(100, 50)
	assert.True(t, defined)
	assert.InDelta(t, -50, pct, tolerance)

	pct, defined = PercentChange(0, 0)
	assert.True(t, defined)
	assert.Zero(t, pct)

	_, defined = PercentChange(0, 10)
	assert.False(t, defined)
}
