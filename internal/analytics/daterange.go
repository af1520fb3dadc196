package analytics

import "time"

// DateRange is an inclusive range of instants. A zero bound leaves that side open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsOpen reports whether neither bound is set.
func (r DateRange) IsOpen() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Location returns the location of the first set bound, or time.Local.
func (r DateRange) Location() *time.Location {
	switch {
	case !r.Start.IsZero():
		return r.Start.Location()
	case !r.End.IsZero():
		return r.End.Location()
	default:
		return time.Local
	}
}

// Days widens the bounds to whole days: Start to its first instant and End
// to its last instant.
func (r DateRange) Days() DateRange {
	out := r
	if !r.Start.IsZero() {
		out.Start = StartOfDay(r.Start)
	}
	if !r.End.IsZero() {
		out.End = EndOfDay(r.End)
	}
	return out
}

// Contains reports whether t lies within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// MonthRange returns the first and last instant of the calendar month
// containing ref, in ref's location.
func MonthRange(ref time.Time) DateRange {
	y, m, _ := ref.Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	return DateRange{
		Start: start,
		End:   start.AddDate(0, 1, 0).Add(-time.Nanosecond),
	}
}

// PreviousMonthRange returns MonthRange of ref shifted back one calendar month.
func PreviousMonthRange(ref time.Time) DateRange {
	return MonthRange(ShiftMonths(ref, -1))
}

// ShiftMonths moves t by n calendar months keeping the time of day. The day
// of month is clamped to the target month's length, so March 31 minus one
// month is February 28 (or 29), never March 2 or 3.
func ShiftMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := DaysIn(first.Year(), first.Month(), t.Location()); d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last nanosecond of t's calendar day in t's location.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
