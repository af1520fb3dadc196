package analytics

import (
	"time"

	"expensetracker/internal/core"
)

type window struct {
	label    string
	startDay int
	endDay   int
}

// tenDayWindows split a month for charting. The last window's end day is
// clamped to the month's length.
var tenDayWindows = []window{
	{label: "1-10", startDay: 1, endDay: 10},
	{label: "11-20", startDay: 11, endDay: 20},
	{label: "21-31", startDay: 21, endDay: 31},
}

// TenDayBuckets compares the current and previous month of ref window by
// window (days 1-10, 11-20 and 21 to month end). Each month is clamped to
// its own length.
func TenDayBuckets(expenses []core.Expense, ref time.Time) []core.BucketComparison {
	current := MonthRange(ref).Start
	previous := PreviousMonthRange(ref).Start

	out := make([]core.BucketComparison, 0, len(tenDayWindows))
	for _, w := range tenDayWindows {
		out = append(out, core.BucketComparison{
			Label:    w.label,
			Current:  Total(FilterByRange(expenses, w.rangeIn(current))),
			Previous: Total(FilterByRange(expenses, w.rangeIn(previous))),
		})
	}
	return out
}

// rangeIn returns the window's days within the month starting at monthStart.
func (w window) rangeIn(monthStart time.Time) DateRange {
	y, m, _ := monthStart.Date()
	loc := monthStart.Location()
	end := w.endDay
	if last := DaysIn(y, m, loc); end > last {
		end = last
	}
	return DateRange{
		Start: time.Date(y, m, w.startDay, 0, 0, 0, 0, loc),
		End:   EndOfDay(time.Date(y, m, end, 0, 0, 0, 0, loc)),
	}
}
