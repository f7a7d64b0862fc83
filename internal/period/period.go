// Package period holds the calendar arithmetic shared by menus, the ledger
// and reports. All dates are civil dates stored as midnight UTC.
package period

import (
	"time"
)

const Layout = "2006-01-02"

// Clock returns the current wall-clock time. Components take one so that
// "today" and "this week" can be pinned in tests.
type Clock func() time.Time

// Day truncates t to its civil date at midnight UTC, keeping t's own
// calendar day (not the UTC one).
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse reads a YYYY-MM-DD date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}

// Range is an inclusive [Start, End] span of civil dates.
type Range struct {
	Start time.Time
	End   time.Time
}

func NewRange(start, end time.Time) Range {
	return Range{Start: Day(start), End: Day(end)}
}

// Contains reports whether d falls within the range, bounds included.
func (r Range) Contains(d time.Time) bool {
	d = Day(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Empty is true when the range ends before it starts.
func (r Range) Empty() bool {
	return r.End.Before(r.Start)
}

// Week returns the Monday..Sunday range containing t.
func Week(t time.Time) Range {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	start := d.AddDate(0, 0, -offset)
	return Range{Start: start, End: start.AddDate(0, 0, 6)}
}

// Month returns the first..last day range of t's month.
func Month(t time.Time) Range {
	y, m, _ := t.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	return Range{Start: start, End: start.AddDate(0, 1, -1)}
}

// MonthYear splits a date into its month number and year.
func MonthYear(t time.Time) (int, int) {
	return int(t.Month()), t.Year()
}
