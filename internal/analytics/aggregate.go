package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

var hundred = decimal.NewFromInt(100)

// Total sums the amounts of expenses. Non-finite, missing and negative
// amounts count as zero, so the result is always a finite number.
func Total(expenses []core.Expense) float64 {
	return sum(expenses).InexactFloat64()
}

func sum(expenses []core.Expense) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(decimal.NewFromFloat(e.Amount.Safe()))
	}
	return total
}

// CategoryBreakdown totals expenses per category for every name in
// categories. Matching is exact and case-sensitive. Every category appears
// in the result, with 0 when nothing matches. Expenses whose category is not
// in the set do not contribute to any entry.
func CategoryBreakdown(expenses []core.Expense, categories []string) map[string]float64 {
	sums := make(map[string]decimal.Decimal, len(categories))
	for _, c := range categories {
		sums[c] = decimal.Zero
	}
	for _, e := range expenses {
		if s, ok := sums[e.Category]; ok {
			sums[e.Category] = s.Add(decimal.NewFromFloat(e.Amount.Safe()))
		}
	}

	out := make(map[string]float64, len(sums))
	for c, s := range sums {
		out[c] = s.InexactFloat64()
	}
	return out
}

// Uncategorized totals the expenses whose category is not in categories.
func Uncategorized(expenses []core.Expense, categories []string) float64 {
	known := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		known[c] = struct{}{}
	}
	var orphans []core.Expense
	for _, e := range expenses {
		if _, ok := known[e.Category]; !ok {
			orphans = append(orphans, e)
		}
	}
	return Total(orphans)
}

// PercentageChange returns (current-previous)/previous*100. When previous is
// zero the result is 100 if current is positive and 0 otherwise.
func PercentageChange(current, previous float64) float64 {
	return percentageChange(decimal.NewFromFloat(current), decimal.NewFromFloat(previous))
}

func percentageChange(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(hundred).InexactFloat64()
}

// Summarize totals the expenses falling within r.
func Summarize(expenses []core.Expense, categories []string, r DateRange) core.MonthSummary {
	return summarize(FilterByRange(expenses, r), categories, r)
}

func summarize(in []core.Expense, categories []string, r DateRange) core.MonthSummary {
	return core.MonthSummary{
		Start:         r.Start,
		End:           r.End,
		Total:         Total(in),
		ByCategory:    CategoryBreakdown(in, categories),
		Uncategorized: Uncategorized(in, categories),
	}
}

// MonthlyComparison summarizes the calendar month containing ref and the
// month before it, and the percentage change between their totals.
func MonthlyComparison(expenses []core.Expense, categories []string, ref time.Time) core.MonthlyComparison {
	cur, prev := MonthRange(ref), PreviousMonthRange(ref)
	curIn, prevIn := FilterByRange(expenses, cur), FilterByRange(expenses, prev)

	return core.MonthlyComparison{
		CurrentMonth:     summarize(curIn, categories, cur),
		PreviousMonth:    summarize(prevIn, categories, prev),
		PercentageChange: percentageChange(sum(curIn), sum(prevIn)),
	}
}
