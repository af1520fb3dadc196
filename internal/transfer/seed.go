package transfer

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"expensetracker/internal/analytics"
	"expensetracker/internal/core"
)

const (
	seedCurrentCount  = 15
	seedPreviousCount = 10
)

// seedCategories includes one name outside the defaults so that sample
// data exercises uncategorized totals.
var seedCategories = []string{"Food", "Travel", "Shopping", "Bills", "Custom"}

// SeedExpenses returns sample expenses: one per day for the 15 days up to
// now, and one per day for the 10 days up to the same day last month
// (clamped to that month's length).
func SeedExpenses(now time.Time, rnd *rand.Rand) []core.Expense {
	out := make([]core.Expense, 0, seedCurrentCount+seedPreviousCount)
	add := func(id, desc string, day time.Time) {
		out = append(out, core.Expense{
			ID:              id,
			Amount:          seedAmount(rnd),
			Category:        seedCategories[rnd.IntN(len(seedCategories))],
			PaymentMethodID: core.DefaultCashMethodID,
			Description:     desc,
			Date:            core.DayKey(day),
			CreatedAt:       day,
		})
	}

	for i := range seedCurrentCount {
		add(fmt.Sprintf("expense-%d", i), fmt.Sprintf("Sample expense %d", i+1), now.AddDate(0, 0, -i))
	}
	lastMonth := analytics.ShiftMonths(now, -1)
	for i := range seedPreviousCount {
		add(fmt.Sprintf("expense-prev-%d", i), fmt.Sprintf("Previous month expense %d", i+1), lastMonth.AddDate(0, 0, -i))
	}
	return out
}

// seedAmount is uniform in [10, 110) rounded to cents.
func seedAmount(rnd *rand.Rand) core.Amount {
	f, _ := decimal.NewFromFloat(rnd.Float64()*100 + 10).Round(2).Float64()
	return core.Amount(f)
}

// SeedPaymentMethods returns Cash plus two cards and a bank account.
func SeedPaymentMethods(now time.Time) []core.PaymentMethod {
	return []core.PaymentMethod{
		{ID: core.DefaultCashMethodID, Type: core.Cash, Name: "Cash", CreatedAt: now},
		{ID: "card-1", Type: core.Card, Name: "Visa Credit", CreatedAt: now},
		{ID: "card-2", Type: core.Card, Name: "Mastercard", CreatedAt: now},
		{ID: "bank-1", Type: core.Bank, Name: "Checking", BankName: "Chase", CreatedAt: now},
	}
}

// Seed overwrites expenses and payment methods of target with sample data.
// Custom categories are kept.
func Seed(ctx context.Context, target Target, now time.Time, rnd *rand.Rand) (core.AppData, error) {
	data := core.AppData{
		Expenses:         SeedExpenses(now, rnd),
		PaymentMethods:   SeedPaymentMethods(now),
		CustomCategories: target.Export().CustomCategories,
	}
	if err := target.ReplaceAll(ctx, data); err != nil {
		return core.AppData{}, fmt.Errorf("seed: %w", err)
	}
	return data, nil
}
