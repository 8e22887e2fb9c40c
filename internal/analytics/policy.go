// Package analytics computes statistical aggregates, time-bucketed trends,
// month comparisons, and moving-average forecasts over expense record sets.
//
// Every function in this package is a pure, total function of its input
// record set: no hidden state, deterministic results, and empty input yields
// zeroed results rather than an error. Record sets arrive pre-filtered by
// date from the storage layer.
package analytics

// PercentageShare is the zero-denominator policy for percentage breakdowns:
// when the grand total is zero, every share is zero rather than a division
// error.
func PercentageShare(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// PercentChange is the zero-denominator policy for month comparisons. The
// second return value reports whether the change is numerically defined:
// growth from a zero base has no meaningful percentage, so it is flagged
// undefined instead of producing a divide-by-zero artifact. A zero-to-zero
// comparison is a defined 0% change.
func PercentChange(old, current float64) (pct float64, defined bool) {
	if old == 0 {
		if current == 0 {
			return 0, true
		}
		return 0, false
	}
	return (current - old) / old * 100, true
}
