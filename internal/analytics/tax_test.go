package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ausgaben/internal/model"
)

func deductible(date string, amount float64, category, subcategory string) model.Expense {
	e := expense(date, amount, category)
	e.Subcategory = subcategory
	e.TaxDeductible = true
	return e
}

func TestTaxSummary(t *testing.T) {
	mapping := DefaultTaxMapping()

	records := []model.Expense{
		deductible("2025-01-15", 200, "business", "laptop"),
		deductible("2025-02-01", 80, "education", "course"),
		deductible("2025-03-10", 120, "health", "dentist"),
		deductible("2025-04-05", 300, "housing", "Liability Insurance"),
		deductible("2025-05-20", 50, "gifts_donations", ""),
		deductible("2025-06-30", 99, "hobby", "climbing gear"),
	}

	summary := TaxSummary(records, 2025, "", mapping)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, 6, summary.Count)
	assert.InDelta(t, 849, summary.GrandTotal, tolerance)

	require.Len(t, summary.Buckets, 5)
	assert.Equal(t, TaxBucketWork, summary.Buckets[0].Bucket)
	assert.InDelta(t, 280, summary.Buckets[0].Total, tolerance)
	assert.Equal(t, 2, summary.Buckets[0].Count)

	assert.Equal(t, TaxBucketHealth, summary.Buckets[1].Bucket)
	assert.InDelta(t, 120, summary.Buckets[1].Total, tolerance)

	assert.Equal(t, TaxBucketInsurance, summary.Buckets[2].Bucket)
	assert.InDelta(t, 300, summary.Buckets[2].Total, tolerance)

	assert.Equal(t, TaxBucketDonations, summary.Buckets[3].Bucket)
	assert.InDelta(t, 50, summary.Buckets[3].Total, tolerance)

	assert.Equal(t, TaxBucketOther, summary.Buckets[4].Bucket)
	assert.InDelta(t, 99, summary.Buckets[4].Total, tolerance)

	// Bucket totals sum to the grand total.
	var sum float64
	for _, b := range summary.Buckets {
		sum += b.Total
	}
	assert.InDelta(t, summary.GrandTotal, sum, tolerance)
}

func TestTaxSummary_EmptyBucketsAbsent(t *testing.T) {
	records := []model.Expense{
		deductible("2025-03-10", 120, "health", ""),
	}

	summary := TaxSummary(records, 2025, "", DefaultTaxMapping())
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, TaxBucketHealth, summary.Buckets[0].Bucket)
}

func TestTaxSummary_SkipsNonDeductibleAndOtherYears(t *testing.T) {
	nonDeductible := expense("2025-01-10", 500, "business")
	records := []model.Expense{
		nonDeductible,
		deductible("2024-12-31", 100, "business", ""),
		deductible("2025-01-15", 40, "business", ""),
	}

	summary := TaxSummary(records, 2025, "", DefaultTaxMapping())
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 40, summary.GrandTotal, tolerance)
}

func TestTaxSummary_CategoryFilter(t *testing.T) {
	records := []model.Expense{
		deductible("2025-01-15", 200, "business", ""),
		deductible("2025-03-10", 120, "health", ""),
	}

	summary := TaxSummary(records, 2025, "health", DefaultTaxMapping())
	assert.Equal(t, 1, summary.Count)
	assert.InDelta(t, 120, summary.GrandTotal, tolerance)
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, TaxBucketHealth, summary.Buckets[0].Bucket)
}

func TestTaxSummary_CategoryMappingWinsOverSubcategory(t *testing.T) {
	// A mapped category takes precedence; the subcategory rule only catches
	// otherwise-unmapped records.
	records := []model.Expense{
		deductible("2025-01-01", 60, "health", "travel insurance"),
	}

	summary := TaxSummary(records, 2025, "", DefaultTaxMapping())
	require.Len(t, summary.Buckets, 1)
	assert.Equal(t, TaxBucketHealth, summary.Buckets[0].Bucket)
}

func TestTaxSummary_Empty(t *testing.T) {
	summary := TaxSummary(nil, 2025, "", DefaultTaxMapping())
	assert.Zero(t, summary.Count)
	assert.Zero(t, summary.GrandTotal)
	assert.Empty(t, summary.Buckets)
}
