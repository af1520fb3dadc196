package analytics

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"expensetracker/internal/core"
)

// ErrInvalidBound is returned when a caller supplied range bound cannot be parsed.
var ErrInvalidBound = errors.New("invalid date bound")

// FilterByRange returns the expenses whose date falls within r, compared at
// day granularity: the bounds are widened to whole days before comparison so
// that an expense dated anywhere on the boundary day is included.
//
// Expense dates are read in the location of the bounds. Malformed dates never
// match a bounded range. With both bounds open every expense is returned.
// Input order is preserved and the input slice is not modified.
func FilterByRange(expenses []core.Expense, r DateRange) []core.Expense {
	if r.IsOpen() {
		return slices.Clone(expenses)
	}
	r = r.Days()
	loc := r.Location()

	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		t, ok := e.Time(loc)
		if !ok {
			continue
		}
		if r.Contains(t) {
			out = append(out, e)
		}
	}
	return out
}

// ParseRange builds a DateRange from optional textual bounds. Empty strings
// leave that side open.
func ParseRange(start, end string, loc *time.Location) (DateRange, error) {
	var r DateRange
	if strings.TrimSpace(start) != "" {
		t, ok := core.ParseDate(start, loc)
		if !ok {
			return DateRange{}, fmt.Errorf("start %q: %w", start, ErrInvalidBound)
		}
		r.Start = t
	}
	if strings.TrimSpace(end) != "" {
		t, ok := core.ParseDate(end, loc)
		if !ok {
			return DateRange{}, fmt.Errorf("end %q: %w", end, ErrInvalidBound)
		}
		r.End = t
	}
	return r, nil
}

// ApplyFilters narrows expenses by category, payment method and date range
// and sorts the result newest first. Only an unparseable filter bound is an
// error; bad records are simply excluded from the date filter.
func ApplyFilters(expenses []core.Expense, f core.ExpenseFilters, loc *time.Location) ([]core.Expense, error) {
	r, err := ParseRange(f.StartDate, f.EndDate, loc)
	if err != nil {
		return nil, err
	}

	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.Category != "" && e.Category != f.Category {
			continue
		}
		if f.PaymentMethodID != "" && e.PaymentMethodID != f.PaymentMethodID {
			continue
		}
		out = append(out, e)
	}
	if !r.IsOpen() {
		out = FilterByRange(out, r)
	}

	SortNewestFirst(out, loc)
	return out, nil
}

// SortNewestFirst orders expenses by date, most recent first. The sort is
// stable and expenses with malformed dates go last.
func SortNewestFirst(expenses []core.Expense, loc *time.Location) {
	slices.SortStableFunc(expenses, func(a, b core.Expense) int {
		ta, okA := a.Time(loc)
		tb, okB := b.Time(loc)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return tb.Compare(ta)
	})
}
