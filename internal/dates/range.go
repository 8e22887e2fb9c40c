// Package dates resolves optional user-supplied date inputs into canonical
// inclusive ranges.
package dates

import (
	"fmt"
	"time"

	"ausgaben/internal/common"
)

// DateFormat is the strict input format for single dates. Tolerant alternate
// formats are an importer concern, not a range concern.
const DateFormat = "2006-01-02"

// MonthFormat is the strict input format for month arguments.
const MonthFormat = "2006-01"

// Range is an inclusive date range. A nil bound means that side is open:
// a Range with both bounds nil matches all records.
type Range struct {
	Start *time.Time
	End   *time.Time
}

// Contains reports whether d falls inside the range.
func (r Range) Contains(d time.Time) bool {
	if r.Start != nil && d.Before(*r.Start) {
		return false
	}
	if r.End != nil && d.After(*r.End) {
		return false
	}
	return true
}

// StartString renders the lower bound, or "" when open.
func (r Range) StartString() string {
	if r.Start == nil {
		return ""
	}
	return r.Start.Format(DateFormat)
}

// EndString renders the upper bound, or "" when open.
func (r Range) EndString() string {
	if r.End == nil {
		return ""
	}
	return r.End.Format(DateFormat)
}

// Label renders the range for filenames and report headers.
func (r Range) Label() string {
	start := r.StartString()
	end := r.EndString()
	if start == "" {
		start = "begin"
	}
	if end == "" {
		end = "end"
	}
	return start + "_to_" + end
}

// Today returns the current local date truncated to midnight UTC, matching
// the precision of stored expense dates.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a strict YYYY-MM-DD date, rejecting impossible calendar
// dates such as 2025-02-30.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a valid YYYY-MM-DD date", common.ErrInvalidDate, s)
	}
	return t, nil
}

// Normalize resolves optional start/end date strings into a Range.
//
// Both empty yields a fully open range. A single bound leaves the other side
// open. When both are present, start must not be after end.
func Normalize(start, end string) (Range, error) {
	var r Range

	if start != "" {
		t, err := ParseDate(start)
		if err != nil {
			return Range{}, err
		}
		r.Start = &t
	}
	if end != "" {
		t, err := ParseDate(end)
		if err != nil {
			return Range{}, err
		}
		r.End = &t
	}
	if r.Start != nil && r.End != nil && r.Start.After(*r.End) {
		return Range{}, fmt.Errorf("%w: start %s is after end %s", common.ErrInvalidRange, start, end)
	}
	return r, nil
}

// MonthRange expands a YYYY-MM month string into the inclusive range
// [first day, last day], handling month lengths and leap years.
func MonthRange(ym string) (Range, error) {
	t, err := time.Parse(MonthFormat, ym)
	if err != nil {
		return Range{}, fmt.Errorf("%w: %q is not a valid YYYY-MM month", common.ErrInvalidDate, ym)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return Range{Start: &start, End: &end}, nil
}

// YearRange returns the inclusive calendar-year range for year.
func YearRange(year int) Range {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	return Range{Start: &start, End: &end}
}

// AddMonths shifts (year, month) by delta months, normalizing overflow in
// either direction.
func AddMonths(year int, month time.Month, delta int) (int, time.Month) {
	total := year*12 + int(month) - 1 + delta
	return total / 12, time.Month(total%12 + 1)
}
