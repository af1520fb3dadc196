package analytics

import (
	"slices"
	"strings"
	"time"

	"expensetracker/internal/core"
)

// GroupByDate buckets expenses by calendar day (YYYY-MM-DD in loc). Within a
// bucket the input order is kept. Expenses with malformed dates belong to no
// day and are left out.
func GroupByDate(expenses []core.Expense, loc *time.Location) map[string][]core.Expense {
	groups := make(map[string][]core.Expense)
	for _, e := range expenses {
		t, ok := e.Time(loc)
		if !ok {
			continue
		}
		key := core.DayKey(t)
		groups[key] = append(groups[key], e)
	}
	return groups
}

// SortedDayKeys returns the keys of groups, most recent day first.
func SortedDayKeys(groups map[string][]core.Expense) []string {
	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	// YYYY-MM-DD sorts chronologically as a string
	slices.SortFunc(keys, func(a, b string) int {
		return strings.Compare(b, a)
	})
	return keys
}

// DayGroups groups expenses by day and returns the days newest first, each
// with its total.
func DayGroups(expenses []core.Expense, loc *time.Location) []core.DayGroup {
	groups := GroupByDate(expenses, loc)
	out := make([]core.DayGroup, 0, len(groups))
	for _, day := range SortedDayKeys(groups) {
		items := groups[day]
		out = append(out, core.DayGroup{
			Day:      day,
			Total:    Total(items),
			Expenses: items,
		})
	}
	return out
}
