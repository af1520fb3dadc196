package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/core"
	"expensetracker/internal/storage"
	"expensetracker/internal/store"
)

var clock = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

// failingKV fails writes to one key.
type failingKV struct {
	storage.KV
	failKey string
}

func (f *failingKV) Set(ctx context.Context, key string, value []byte) error {
	if key == f.failKey {
		return errors.New("disk full")
	}
	return f.KV.Set(ctx, key, value)
}

func (f *failingKV) SetBatch(ctx context.Context, entries []storage.Entry) error {
	for _, e := range entries {
		if e.Key == f.failKey {
			return errors.New("disk full")
		}
	}
	return f.KV.SetBatch(ctx, entries)
}

func newTracker(t *testing.T, kv storage.KV) *Tracker {
	t.Helper()
	n := 0
	tr := NewTracker(storage.NewRepositories(kv),
		WithClock(func() time.Time { return clock }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
		WithLocation(time.UTC),
	)
	require.NoError(t, tr.Load(context.Background()))
	return tr
}

func expense(amount float64, category, date string) core.Expense {
	return core.Expense{Amount: core.Amount(amount), Category: category, PaymentMethodID: core.DefaultCashMethodID, Date: date}
}

func TestLoad_SeedsCashAndPersists(t *testing.T) {
	kv := storage.NewMemoryKV()
	tr := newTracker(t, kv)

	assert.True(t, tr.Loaded())
	s := tr.Snapshot()
	require.Len(t, s.PaymentMethods, 1)
	assert.Equal(t, core.DefaultCashMethodID, s.PaymentMethods[0].ID)

	stored, err := storage.NewRepositories(kv).PaymentMethods.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	// Loading again does not add a second Cash method.
	require.NoError(t, tr.Load(context.Background()))
	assert.Len(t, tr.Snapshot().PaymentMethods, 1)
}

func TestLoad_CorruptCollection(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Set(context.Background(), storage.KeyExpenses, []byte("{not json")))

	tr := NewTracker(storage.NewRepositories(kv))
	err := tr.Load(context.Background())
	assert.ErrorIs(t, err, storage.ErrCorrupt)
	assert.False(t, tr.Loaded())
}

func TestExpenseLifecycle(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	tr := newTracker(t, kv)

	added, err := tr.AddExpense(ctx, expense(120.5, "Food", "2024-03-10"))
	require.NoError(t, err)
	assert.Equal(t, "id-1", added.ID)
	assert.Equal(t, clock, added.CreatedAt)

	updated, err := tr.UpdateExpense(ctx, added.ID, store.ExpenseUpdate{Category: ptr("Bills")})
	require.NoError(t, err)
	assert.Equal(t, "Bills", updated.Category)
	assert.Equal(t, core.Amount(120.5), updated.Amount)

	// A fresh tracker over the same store sees the change.
	reloaded := newTracker(t, kv)
	require.Len(t, reloaded.Snapshot().Expenses, 1)
	assert.Equal(t, "Bills", reloaded.Snapshot().Expenses[0].Category)

	require.NoError(t, tr.DeleteExpense(ctx, added.ID))
	assert.ErrorIs(t, tr.DeleteExpense(ctx, added.ID), store.ErrExpenseNotFound)

	_, err = tr.AddExpense(ctx, expense(-1, "Food", "2024-03-10"))
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestFailedWriteLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, &failingKV{KV: storage.NewMemoryKV(), failKey: storage.KeyExpenses})

	_, err := tr.AddExpense(ctx, expense(10, "Food", "2024-03-10"))
	require.Error(t, err)
	assert.Empty(t, tr.Snapshot().Expenses)
}

func TestPaymentMethodsAndCategories(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, storage.NewMemoryKV())

	card, err := tr.AddPaymentMethod(ctx, core.PaymentMethod{Type: core.Card, Name: "Visa"})
	require.NoError(t, err)
	assert.Equal(t, "Visa", tr.PaymentMethodName(card.ID))

	renamed, err := tr.UpdatePaymentMethod(ctx, card.ID, store.PaymentMethodUpdate{Name: ptr("Visa Gold")})
	require.NoError(t, err)
	assert.Equal(t, "Visa Gold", renamed.Name)

	assert.ErrorIs(t, tr.DeletePaymentMethod(ctx, core.DefaultCashMethodID), store.ErrCashProtected)
	require.NoError(t, tr.DeletePaymentMethod(ctx, card.ID))
	assert.Equal(t, core.UnknownPaymentMethod, tr.PaymentMethodName(card.ID))

	gym, err := tr.AddCustomCategory(ctx, core.CustomCategory{Name: "Gym", Icon: "🏋️"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Food", "Travel", "Shopping", "Bills", "Gym"}, tr.AllCategories())

	_, err = tr.AddCustomCategory(ctx, core.CustomCategory{Name: "bills", Icon: "x"})
	assert.ErrorIs(t, err, store.ErrDuplicateCategory)

	_, err = tr.UpdateCustomCategory(ctx, gym.ID, store.CategoryUpdate{Icon: ptr("💪")})
	require.NoError(t, err)
	require.NoError(t, tr.DeleteCustomCategory(ctx, gym.ID))
	assert.Len(t, tr.AllCategories(), 4)
}

func TestHome(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, storage.NewMemoryKV())

	for _, e := range []core.Expense{
		expense(100, "Food", "2024-03-14"),
		expense(50, "Food", "2024-03-14"),
		expense(30, "Travel", "2024-03-02"),
		expense(200, "Food", "2024-02-20"),
	} {
		_, err := tr.AddExpense(ctx, e)
		require.NoError(t, err)
	}

	view, err := tr.Home(core.ExpenseFilters{Category: "Food"})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Count)
	assert.InDelta(t, 350, view.Total, 1e-9)
	assert.InDelta(t, 150, view.MonthTotal, 1e-9)
	require.Len(t, view.Days, 2)
	assert.Equal(t, "2024-03-14", view.Days[0].Day)
	assert.InDelta(t, 150, view.Days[0].Total, 1e-9)

	tr.SetFilters(core.ExpenseFilters{StartDate: "2024-03-01"})
	active, err := tr.ActiveHome()
	require.NoError(t, err)
	assert.Equal(t, 3, active.Count)
	tr.ClearFilters()
	assert.True(t, tr.Filters().IsEmpty())

	_, err = tr.Home(core.ExpenseFilters{StartDate: "yesterday"})
	assert.Error(t, err)
}

func TestAnalyticsViews(t *testing.T) {
	ctx := context.Background()
	tr := newTracker(t, storage.NewMemoryKV())

	for _, e := range []core.Expense{
		expense(150, "Food", "2024-03-05"),
		expense(100, "Food", "2024-02-05"),
		expense(40, "Travel", "2024-03-25"),
	} {
		_, err := tr.AddExpense(ctx, e)
		require.NoError(t, err)
	}

	cmp := tr.MonthlyComparison(time.Time{})
	assert.InDelta(t, 190, cmp.CurrentMonth.Total, 1e-9)
	assert.InDelta(t, 100, cmp.PreviousMonth.Total, 1e-9)
	assert.InDelta(t, 90, cmp.PercentageChange, 1e-9)

	buckets := tr.TenDayBuckets(time.Time{})
	require.Len(t, buckets, 3)
	assert.InDelta(t, 150, buckets[0].Current, 1e-9)
	assert.InDelta(t, 100, buckets[0].Previous, 1e-9)
	assert.InDelta(t, 40, buckets[2].Current, 1e-9)
}

func TestExportAndReplaceAll(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	tr := newTracker(t, kv)

	data := core.AppData{
		Expenses: []core.Expense{{ID: "x", Amount: 5, Category: "Food", PaymentMethodID: "card-1", Date: "2024-03-01"}},
		PaymentMethods: []core.PaymentMethod{{ID: "card-1", Type: core.Card, Name: "Visa"}},
		CustomCategories: []core.CustomCategory{{ID: "c", Name: "Gym", Icon: "🏋️"}},
	}
	require.NoError(t, tr.ReplaceAll(ctx, data))

	out := tr.Export()
	assert.Len(t, out.Expenses, 1)
	assert.Len(t, out.PaymentMethods, 2, "a Cash method is added when missing")
	assert.Equal(t, []string{"Food", "Travel", "Shopping", "Bills", "Gym"}, out.Categories)

	reloaded := newTracker(t, kv)
	assert.Len(t, reloaded.Snapshot().Expenses, 1)
	assert.Len(t, reloaded.Snapshot().CustomCategories, 1)

	require.NoError(t, tr.ReplaceAll(ctx, core.AppData{}))
	empty := tr.Export()
	assert.NotNil(t, empty.Expenses)
	assert.Empty(t, empty.Expenses)
}

func TestAnalyticsViewsFollowChanges(t *testing.T) {
	tr := newTracker(t, storage.NewMemoryKV())
	ctx := context.Background()
	ref := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	e, err := tr.AddExpense(ctx, expense(100, "Food", "2024-03-02"))
	require.NoError(t, err)
	assert.InDelta(t, 100, tr.MonthlyComparison(ref).CurrentMonth.Total, 1e-9)
	assert.InDelta(t, 100, tr.TenDayBuckets(ref)[0].Current, 1e-9)

	// Repeated reads are served from the memo.
	assert.Equal(t, tr.MonthlyComparison(ref), tr.MonthlyComparison(ref.AddDate(0, 0, 5)))

	_, err = tr.UpdateExpense(ctx, e.ID, store.ExpenseUpdate{Amount: ptr(core.Amount(40))})
	require.NoError(t, err)
	assert.InDelta(t, 40, tr.MonthlyComparison(ref).CurrentMonth.Total, 1e-9)
	assert.InDelta(t, 40, tr.TenDayBuckets(ref)[0].Current, 1e-9)

	require.NoError(t, tr.ReplaceAll(ctx, core.AppData{}))
	assert.Zero(t, tr.MonthlyComparison(ref).CurrentMonth.Total)

	// Callers cannot corrupt the memoized buckets.
	b := tr.TenDayBuckets(ref)
	b[0].Current = 999
	assert.Zero(t, tr.TenDayBuckets(ref)[0].Current)
}

func TestMonthlyComparisonReturnsPrivateMaps(t *testing.T) {
	tr := newTracker(t, storage.NewMemoryKV())
	_, err := tr.AddExpense(context.Background(), expense(100, "Food", "2024-03-02"))
	require.NoError(t, err)

	first := tr.MonthlyComparison(clock)
	first.CurrentMonth.ByCategory["Food"] = 9999
	first.PreviousMonth.ByCategory["Food"] = 9999

	second := tr.MonthlyComparison(clock)
	assert.InDelta(t, 100, second.CurrentMonth.ByCategory["Food"], 1e-9)
	assert.Zero(t, second.PreviousMonth.ByCategory["Food"])

	second.CurrentMonth.ByCategory["Travel"] = 1
	assert.Zero(t, tr.MonthlyComparison(clock).CurrentMonth.ByCategory["Travel"])
}

func TestReplaceAllFailureKeepsBothSides(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryKV()
	kv := &failingKV{KV: mem}
	tr := newTracker(t, kv)
	_, err := tr.AddExpense(ctx, expense(10, "Food", "2024-03-01"))
	require.NoError(t, err)

	kv.failKey = storage.KeyPaymentMethods
	err = tr.ReplaceAll(ctx, core.AppData{
		Expenses:       []core.Expense{{ID: "x", Amount: 5, Category: "Travel", PaymentMethodID: "card-1", Date: "2024-03-02"}},
		PaymentMethods: []core.PaymentMethod{{ID: "card-1", Type: core.Card, Name: "Visa"}},
	})
	require.Error(t, err)

	s := tr.Snapshot()
	require.Len(t, s.Expenses, 1)
	assert.Equal(t, "id-1", s.Expenses[0].ID)

	stored, err := storage.NewRepositories(mem).Expenses.Load(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "id-1", stored[0].ID)
	methods, err := storage.NewRepositories(mem).PaymentMethods.Load(ctx)
	require.NoError(t, err)
	require.Len(t, methods, 1)
	assert.Equal(t, core.DefaultCashMethodID, methods[0].ID)
}

func TestLoadSkipsUnreadableRecords(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryKV()
	doc := `[{"id":"good","amount":25,"category":"Food","paymentMethodId":"cash-default","date":"2024-03-05","createdAt":"2024-03-05T10:00:00Z"},
	         {"id":"bad","amount":10,"category":"Food","paymentMethodId":"cash-default","date":"2024-03-06","createdAt":""}]`
	require.NoError(t, kv.Set(ctx, storage.KeyExpenses, []byte(doc)))

	tr := newTracker(t, kv)
	s := tr.Snapshot()
	require.Len(t, s.Expenses, 1)
	assert.Equal(t, "good", s.Expenses[0].ID)
	assert.InDelta(t, 25, tr.MonthlyComparison(clock).CurrentMonth.Total, 1e-9)
}

func ptr[T any](v T) *T { return &v }
