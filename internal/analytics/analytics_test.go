package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
)

var testCategories = []string{"Food", "Travel", "Shopping", "Bills"}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := core.ParseDate(s, time.UTC)
	require.True(t, ok, "bad test date %q", s)
	return d
}

func exp(amount float64, category, date string) core.Expense {
	return core.Expense{Amount: core.Amount(amount), Category: category, Date: date, PaymentMethodID: core.DefaultCashMethodID}
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(day(t, "2024-02-15T13:45:00"))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 999999999, time.UTC), r.End)

	prev := PreviousMonthRange(day(t, "2024-01-10"))
	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.UTC), prev.End)
}

func TestPreviousMonthRangeClampsDay(t *testing.T) {
	// March 31 shifted back must land in February, not overflow into March.
	prev := PreviousMonthRange(day(t, "2024-03-31"))
	assert.Equal(t, time.February, prev.Start.Month())
	assert.Equal(t, 29, prev.End.Day())

	prev = PreviousMonthRange(day(t, "2023-03-31"))
	assert.Equal(t, time.February, prev.Start.Month())
	assert.Equal(t, 28, prev.End.Day())
}

func TestShiftMonths(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"2024-03-31", -1, "2024-02-29"},
		{"2023-03-31", -1, "2023-02-28"},
		{"2024-05-31", -1, "2024-04-30"},
		{"2024-01-15", -1, "2023-12-15"},
		{"2024-01-31", 1, "2024-02-29"},
		{"2024-12-31", 2, "2025-02-28"},
	}
	for _, tc := range cases {
		got := ShiftMonths(day(t, tc.in), tc.n)
		assert.Equal(t, tc.want, core.DayKey(got), "%s %+d", tc.in, tc.n)
	}
}

func TestDaysIn(t *testing.T) {
	assert.Equal(t, 29, DaysIn(2024, time.February, time.UTC))
	assert.Equal(t, 28, DaysIn(2023, time.February, time.UTC))
	assert.Equal(t, 30, DaysIn(2024, time.April, time.UTC))
	assert.Equal(t, 31, DaysIn(2024, time.December, time.UTC))
}

func TestFilterByRangeIsInclusive(t *testing.T) {
	expenses := []core.Expense{
		exp(1, "Food", "2024-03-01"),
		exp(2, "Food", "2024-03-10T23:30:00"),
		exp(3, "Food", "2024-02-29T23:59:59"),
		exp(4, "Food", "2024-03-11"),
		exp(5, "Food", "2024-03-05"),
	}
	// Bare dates as bounds include the whole boundary days.
	r, err := ParseRange("2024-03-01", "2024-03-10", time.UTC)
	require.NoError(t, err)

	got := FilterByRange(expenses, r)
	require.Len(t, got, 3)
	assert.Equal(t, core.Amount(1), got[0].Amount)
	assert.Equal(t, core.Amount(2), got[1].Amount)
	assert.Equal(t, core.Amount(5), got[2].Amount)
}

func TestFilterByRangeOpenBounds(t *testing.T) {
	expenses := []core.Expense{
		exp(1, "Food", "2024-03-01"),
		exp(2, "Food", "2024-03-15"),
		exp(3, "Food", "bogus"),
	}

	all := FilterByRange(expenses, DateRange{})
	assert.Len(t, all, 3, "no bounds keeps everything, even malformed dates")

	from := FilterByRange(expenses, DateRange{Start: day(t, "2024-03-15T18:00:00")})
	require.Len(t, from, 1)
	assert.Equal(t, "2024-03-15", from[0].Date)

	until := FilterByRange(expenses, DateRange{End: day(t, "2024-03-01T08:00:00")})
	require.Len(t, until, 1)
	assert.Equal(t, "2024-03-01", until[0].Date)
}

func TestFilterByRangeDoesNotMutateInput(t *testing.T) {
	expenses := []core.Expense{exp(1, "Food", "2024-03-02"), exp(2, "Food", "2024-01-02")}
	got := FilterByRange(expenses, DateRange{})
	got[0].Amount = 99
	assert.Equal(t, core.Amount(1), expenses[0].Amount)
}

func TestMalformedDatesAreExcludedNotFatal(t *testing.T) {
	expenses := []core.Expense{
		exp(10, "Food", "2024-03-02"),
		exp(20, "Food", "yesterday"),
		exp(30, "Food", ""),
	}
	var cmp core.MonthlyComparison
	require.NotPanics(t, func() {
		cmp = MonthlyComparison(expenses, testCategories, day(t, "2024-03-15"))
	})
	assert.Equal(t, 10.0, cmp.CurrentMonth.Total)
	assert.Equal(t, 10.0, cmp.CurrentMonth.ByCategory["Food"])

	groups := GroupByDate(expenses, time.UTC)
	assert.Len(t, groups, 1)
}

func TestTotalTreatsBadAmountsAsZero(t *testing.T) {
	expenses := []core.Expense{
		exp(10, "Food", "2024-03-01"),
		exp(math.NaN(), "Food", "2024-03-01"),
		exp(math.Inf(1), "Food", "2024-03-01"),
		exp(-5, "Food", "2024-03-01"),
		{Category: "Food", Date: "2024-03-01"}, // missing amount
		exp(0.1, "Food", "2024-03-01"),
		exp(0.2, "Food", "2024-03-01"),
	}
	got := Total(expenses)
	assert.False(t, math.IsNaN(got))
	assert.Equal(t, 10.3, got)
	assert.Equal(t, 0.0, Total(nil))
}

func TestCategoryBreakdownIsComplete(t *testing.T) {
	expenses := []core.Expense{exp(100, "Food", "2024-03-01")}
	got := CategoryBreakdown(expenses, []string{"Food", "Travel"})
	assert.Equal(t, map[string]float64{"Food": 100, "Travel": 0}, got)
}

func TestCategoryBreakdownExactMatchAndUnknown(t *testing.T) {
	expenses := []core.Expense{
		exp(5, "Food", "2024-03-01"),
		exp(7, "food", "2024-03-01"),
		exp(11, "Deleted custom", "2024-03-01"),
	}
	got := CategoryBreakdown(expenses, testCategories)
	require.Len(t, got, len(testCategories))
	assert.Equal(t, 5.0, got["Food"])
	_, present := got["Deleted custom"]
	assert.False(t, present)

	// Unknown categories still count toward the grand total.
	assert.Equal(t, 23.0, Total(expenses))
	assert.Equal(t, 18.0, Uncategorized(expenses, testCategories))
}

func TestPercentageChange(t *testing.T) {
	assert.Equal(t, 100.0, PercentageChange(5, 0))
	assert.Equal(t, 0.0, PercentageChange(0, 0))
	assert.Equal(t, -50.0, PercentageChange(50, 100))
	assert.Equal(t, -100.0, PercentageChange(0, 40))
	assert.InDelta(t, 66.67, PercentageChange(50, 30), 0.01)
}

func TestMonthlyComparisonScenario(t *testing.T) {
	expenses := []core.Expense{
		exp(50, "Food", "2024-03-05"),
		exp(30, "Travel", "2024-02-05"),
	}
	cmp := MonthlyComparison(expenses, testCategories, day(t, "2024-03-15"))

	assert.Equal(t, 50.0, cmp.CurrentMonth.Total)
	assert.Equal(t, 30.0, cmp.PreviousMonth.Total)
	assert.InDelta(t, 66.67, cmp.PercentageChange, 0.01)
	assert.Equal(t, 50.0, cmp.CurrentMonth.ByCategory["Food"])
	assert.Equal(t, 30.0, cmp.PreviousMonth.ByCategory["Travel"])
	assert.Equal(t, 0.0, cmp.PreviousMonth.ByCategory["Food"])
}

func TestMonthlyComparisonZeroBase(t *testing.T) {
	ref := day(t, "2024-03-15")

	cmp := MonthlyComparison([]core.Expense{exp(42, "Food", "2024-03-01")}, testCategories, ref)
	assert.Equal(t, 0.0, cmp.PreviousMonth.Total)
	assert.Equal(t, 100.0, cmp.PercentageChange)

	empty := MonthlyComparison(nil, testCategories, ref)
	assert.Equal(t, 0.0, empty.CurrentMonth.Total)
	assert.Equal(t, 0.0, empty.PreviousMonth.Total)
	assert.Equal(t, 0.0, empty.PercentageChange)
	for _, c := range testCategories {
		assert.Contains(t, empty.CurrentMonth.ByCategory, c)
		assert.Equal(t, 0.0, empty.CurrentMonth.ByCategory[c])
		assert.Equal(t, 0.0, empty.PreviousMonth.ByCategory[c])
	}
}

func TestMonthlyComparisonIsIdempotent(t *testing.T) {
	expenses := []core.Expense{
		exp(12.5, "Food", "2024-03-05"),
		exp(3, "Bills", "2024-03-20"),
		exp(9, "Shopping", "2024-02-11"),
		exp(4, "Gym", "2024-02-12"),
	}
	ref := day(t, "2024-03-15")
	first := MonthlyComparison(expenses, testCategories, ref)
	second := MonthlyComparison(expenses, testCategories, ref)
	assert.Equal(t, first, second)
	assert.Equal(t, 4.0, second.PreviousMonth.Uncategorized)
}

func TestTenDayBucketsClampMonthEnd(t *testing.T) {
	// April has 30 days, so its 21-31 bucket is days 21-30.
	expenses := []core.Expense{
		exp(1, "Food", "2024-04-21"),
		exp(2, "Food", "2024-04-30"),
		exp(4, "Food", "2024-05-01"),
		exp(8, "Food", "2024-03-31"),
		exp(16, "Food", "2024-03-10"),
		exp(32, "Food", "2024-04-11"),
	}
	got := TenDayBuckets(expenses, day(t, "2024-04-15"))
	require.Len(t, got, 3)
	assert.Equal(t, core.BucketComparison{Label: "1-10", Current: 0, Previous: 16}, got[0])
	assert.Equal(t, core.BucketComparison{Label: "11-20", Current: 32, Previous: 0}, got[1])
	assert.Equal(t, core.BucketComparison{Label: "21-31", Current: 3, Previous: 8}, got[2])
}

func TestTenDayBucketsFebruary(t *testing.T) {
	expenses := []core.Expense{
		exp(5, "Food", "2023-02-21"),
		exp(7, "Food", "2023-02-28"),
		exp(100, "Food", "2023-03-01"),
		exp(9, "Food", "2023-03-31"),
	}
	got := TenDayBuckets(expenses, day(t, "2023-03-10"))
	require.Len(t, got, 3)
	assert.Equal(t, 12.0, got[2].Previous)
	assert.Equal(t, 9.0, got[2].Current)
	assert.Equal(t, 100.0, got[0].Current)
}

func TestGroupByDate(t *testing.T) {
	expenses := []core.Expense{
		{ID: "a", Date: "2024-03-02"},
		{ID: "b", Date: "2024-03-01"},
		{ID: "c", Date: "2024-03-02T21:00:00"},
	}
	groups := GroupByDate(expenses, time.UTC)
	require.Len(t, groups, 2)
	require.Len(t, groups["2024-03-02"], 2)
	assert.Equal(t, "a", groups["2024-03-02"][0].ID)
	assert.Equal(t, "c", groups["2024-03-02"][1].ID)

	assert.Equal(t, []string{"2024-03-02", "2024-03-01"}, SortedDayKeys(groups))
}

func TestGroupByDateUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	expenses := []core.Expense{{ID: "late", Date: "2024-03-01T20:00:00Z"}}
	groups := GroupByDate(expenses, ist)
	assert.Contains(t, groups, "2024-03-02")
}

func TestDayGroups(t *testing.T) {
	expenses := []core.Expense{
		exp(1, "Food", "2024-03-01"),
		exp(2, "Food", "2024-03-03"),
		exp(3, "Food", "2024-03-01"),
	}
	got := DayGroups(expenses, time.UTC)
	require.Len(t, got, 2)
	assert.Equal(t, "2024-03-03", got[0].Day)
	assert.Equal(t, 2.0, got[0].Total)
	assert.Equal(t, "2024-03-01", got[1].Day)
	assert.Equal(t, 4.0, got[1].Total)
}

func TestApplyFilters(t *testing.T) {
	expenses := []core.Expense{
		{ID: "1", Amount: 1, Category: "Food", PaymentMethodID: "card", Date: "2024-03-01"},
		{ID: "2", Amount: 2, Category: "Food", PaymentMethodID: "cash", Date: "2024-03-05"},
		{ID: "3", Amount: 3, Category: "Bills", PaymentMethodID: "card", Date: "2024-03-07"},
		{ID: "4", Amount: 4, Category: "Food", PaymentMethodID: "card", Date: "2024-02-20"},
		{ID: "5", Amount: 5, Category: "Food", PaymentMethodID: "card", Date: "broken"},
	}

	t.Run("no filters sorts newest first", func(t *testing.T) {
		got, err := ApplyFilters(expenses, core.ExpenseFilters{}, time.UTC)
		require.NoError(t, err)
		ids := make([]string, len(got))
		for i, e := range got {
			ids[i] = e.ID
		}
		assert.Equal(t, []string{"3", "2", "1", "4", "5"}, ids)
	})

	t.Run("category and payment method", func(t *testing.T) {
		got, err := ApplyFilters(expenses, core.ExpenseFilters{Category: "Food", PaymentMethodID: "card"}, time.UTC)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "4", got[1].ID)
		assert.Equal(t, "5", got[2].ID)
	})

	t.Run("date range", func(t *testing.T) {
		got, err := ApplyFilters(expenses, core.ExpenseFilters{StartDate: "2024-03-01", EndDate: "2024-03-05"}, time.UTC)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "2", got[0].ID)
		assert.Equal(t, "1", got[1].ID)
	})

	t.Run("invalid bound", func(t *testing.T) {
		_, err := ApplyFilters(expenses, core.ExpenseFilters{StartDate: "march"}, time.UTC)
		assert.ErrorIs(t, err, ErrInvalidBound)
	})
}
