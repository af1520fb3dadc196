package services

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"time"

	"expensetracker/internal/analytics"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/store"
)

// HomeView is the filtered expense list grouped by day.
type HomeView struct {
	Filters    core.ExpenseFilters `json:"filters"`
	Days       []core.DayGroup     `json:"days"`
	Total      float64             `json:"total"`
	MonthTotal float64             `json:"monthTotal"`
	Count      int                 `json:"count"`
}

// FilteredExpenses applies f to all expenses, newest first.
func (t *Tracker) FilteredExpenses(f core.ExpenseFilters) ([]core.Expense, error) {
	return analytics.ApplyFilters(t.Snapshot().Expenses, f, t.loc)
}

// Home builds the day-grouped view for f. MonthTotal covers the part of the
// filtered set that falls in the current calendar month.
func (t *Tracker) Home(f core.ExpenseFilters) (HomeView, error) {
	filtered, err := t.FilteredExpenses(f)
	if err != nil {
		return HomeView{}, err
	}
	return HomeView{
		Filters:    f,
		Days:       analytics.DayGroups(filtered, t.loc),
		Total:      analytics.Total(filtered),
		MonthTotal: analytics.Total(analytics.FilterByRange(filtered, analytics.MonthRange(t.Now()))),
		Count:      len(filtered),
	}, nil
}

// ActiveHome builds the day-grouped view for the active filters.
func (t *Tracker) ActiveHome() (HomeView, error) {
	return t.Home(t.Filters())
}

// MonthlyComparison compares the month containing ref with the month before.
// A zero ref means now. Results are memoized until the next change.
func (t *Tracker) MonthlyComparison(ref time.Time) core.MonthlyComparison {
	ref = t.ref(ref)
	s, gen := t.snapshot()
	key := viewKey(gen, ref)
	if v, ok := t.monthly.Get(key); ok {
		return cloneComparison(v)
	}
	v := analytics.MonthlyComparison(s.Expenses, s.AllCategories(), ref)
	t.monthly.Set(key, cloneComparison(v))
	return v
}

// cloneComparison copies the category maps so callers never share the
// memoized ones.
func cloneComparison(c core.MonthlyComparison) core.MonthlyComparison {
	c.CurrentMonth.ByCategory = maps.Clone(c.CurrentMonth.ByCategory)
	c.PreviousMonth.ByCategory = maps.Clone(c.PreviousMonth.ByCategory)
	return c
}

// TenDayBuckets compares the ten-day windows of the month containing ref
// with the month before. A zero ref means now.
func (t *Tracker) TenDayBuckets(ref time.Time) []core.BucketComparison {
	ref = t.ref(ref)
	s, gen := t.snapshot()
	key := viewKey(gen, ref)
	if v, ok := t.buckets.Get(key); ok {
		return slices.Clone(v)
	}
	v := analytics.TenDayBuckets(s.Expenses, ref)
	t.buckets.Set(key, v)
	return slices.Clone(v)
}

// viewKey identifies the calendar month of ref within one State generation.
func viewKey(gen uint64, ref time.Time) string {
	return fmt.Sprintf("%d:%s:%s", gen, ref.Format("2006-01"), ref.Location())
}

func (t *Tracker) ref(ref time.Time) time.Time {
	if ref.IsZero() {
		return t.Now()
	}
	return ref
}

// Export returns every collection plus the resolved category list.
func (t *Tracker) Export() core.AppData {
	s := t.Snapshot()
	return core.AppData{
		Expenses:         nonNil(s.Expenses),
		PaymentMethods:   nonNil(s.PaymentMethods),
		Categories:       s.AllCategories(),
		CustomCategories: nonNil(s.CustomCategories),
	}
}

// ReplaceAll overwrites the three collections with data. Records are stored
// as given; the Categories field is derived and ignored. A Cash method is
// added when data has none. The collections are written in one batch.
func (t *Tracker) ReplaceAll(ctx context.Context, data core.AppData) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next := store.State{
		Expenses:         nonNil(data.Expenses),
		PaymentMethods:   nonNil(data.PaymentMethods),
		CustomCategories: nonNil(data.CustomCategories),
		Filters:          t.state.Filters,
	}
	next, _ = next.EnsureCashMethod(t.now())

	err := t.commit(ctx, next, func(ctx context.Context, s store.State) error {
		return t.repos.ReplaceData(ctx, s.Expenses, s.PaymentMethods, s.CustomCategories)
	})
	if err != nil {
		return fmt.Errorf("replace data: %w", err)
	}
	t.loaded = true
	t.logger.InfoContext(ctx, "Data replaced",
		log.FieldOperation, log.OpImport,
		"expenses", len(next.Expenses),
		"payment_methods", len(next.PaymentMethods),
		"custom_categories", len(next.CustomCategories))
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Expense returns the expense with the given id.
func (t *Tracker) Expense(id string) (core.Expense, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.state.Expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, store.ErrExpenseNotFound
}
