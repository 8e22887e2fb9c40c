package analytics

import (
	"sort"
	"strings"

	"ausgaben/internal/model"
)

// The five fixed German tax buckets deductible expenses roll up into.
const (
	TaxBucketWork      = "Werbungskosten (Work-related)"
	TaxBucketHealth    = "Gesundheitskosten (Health)"
	TaxBucketInsurance = "Versicherungen (Insurance)"
	TaxBucketDonations = "Spenden (Donations)"
	TaxBucketOther     = "Sonstige (Other)"
)

// taxBucketOrder fixes the presentation order of buckets in summaries.
var taxBucketOrder = []string{
	TaxBucketWork,
	TaxBucketHealth,
	TaxBucketInsurance,
	TaxBucketDonations,
	TaxBucketOther,
}

// ValidTaxBucket reports whether name is one of the fixed buckets.
func ValidTaxBucket(name string) bool {
	for _, bucket := range taxBucketOrder {
		if bucket == name {
			return true
		}
	}
	return false
}

// TaxMapping classifies expense categories into tax buckets. It is static
// configuration loaded once at startup and passed in explicitly; unmapped
// categories fall into the "other" bucket.
type TaxMapping struct {
	// CategoryBuckets maps an expense category name to its bucket.
	CategoryBuckets map[string]string
	// SubcategoryContains maps a lowercase substring of the subcategory
	// to a bucket. It applies only when the category itself is unmapped;
	// the stock table uses it to route insurance payments that live under
	// arbitrary categories.
	SubcategoryContains map[string]string
}

// DefaultTaxMapping returns the compiled-in classification table.
func DefaultTaxMapping() TaxMapping {
	return TaxMapping{
		CategoryBuckets: map[string]string{
			"business":        TaxBucketWork,
			"education":       TaxBucketWork,
			"subscriptions":   TaxBucketWork,
			"health":          TaxBucketHealth,
			"gifts_donations": TaxBucketDonations,
		},
		SubcategoryContains: map[string]string{
			"insurance": TaxBucketInsurance,
		},
	}
}

// bucketFor classifies one expense.
func (m TaxMapping) bucketFor(e *model.Expense) string {
	if bucket, ok := m.CategoryBuckets[e.Category]; ok {
		return bucket
	}
	sub := strings.ToLower(e.Subcategory)
	for needle, bucket := range m.SubcategoryContains {
		if needle != "" && strings.Contains(sub, needle) {
			return bucket
		}
	}
	return TaxBucketOther
}

// TaxSummary rolls tax-deductible records of one calendar year into the
// fixed buckets. Records must already be filtered to the year by the storage
// layer; non-deductible records are skipped here as a safety net. Only
// buckets with at least one expense appear in the summary.
func TaxSummary(records []model.Expense, year int, category string, mapping TaxMapping) model.TaxSummary {
	summary := model.TaxSummary{Year: year, Category: category}

	grouped := make(map[string]*model.TaxBucketTotal)
	for _, e := range FilterCategory(records, category) {
		if !e.TaxDeductible || e.Date.Year() != year {
			continue
		}
		bucket := mapping.bucketFor(&e)
		g, ok := grouped[bucket]
		if !ok {
			g = &model.TaxBucketTotal{Bucket: bucket}
			grouped[bucket] = g
		}
		g.Total += e.Amount
		g.Count++
		g.Expenses = append(g.Expenses, e)
		summary.GrandTotal += e.Amount
		summary.Count++
	}

	for _, bucket := range taxBucketOrder {
		if g, ok := grouped[bucket]; ok {
			sort.Slice(g.Expenses, func(i, j int) bool {
				return g.Expenses[i].Date.Before(g.Expenses[j].Date)
			})
			summary.Buckets = append(summary.Buckets, *g)
		}
	}

	return summary
}
