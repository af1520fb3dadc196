package services

import (
	"context"
	"slices"

	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/store"
)

// AddExpense assigns an id and creation time and stores e.
func (t *Tracker) AddExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e.ID = t.newID()
	e.CreatedAt = t.now()
	next, err := t.state.AddExpense(e)
	if err != nil {
		return core.Expense{}, err
	}
	if err := t.commit(ctx, next, t.persistExpenses); err != nil {
		return core.Expense{}, err
	}

	added := next.Expenses[len(next.Expenses)-1]
	t.logger.InfoContext(ctx, "Expense added", log.NewFields().
		WithExpense(added.ID, added.Amount.Float(), added.Category, added.PaymentMethodID, added.Date).
		WithOperation(log.OpCreate).ToSlice()...)
	return added, nil
}

func (t *Tracker) UpdateExpense(ctx context.Context, id string, u store.ExpenseUpdate) (core.Expense, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.state.UpdateExpense(id, u)
	if err != nil {
		return core.Expense{}, err
	}
	if err := t.commit(ctx, next, t.persistExpenses); err != nil {
		return core.Expense{}, err
	}
	t.logger.InfoContext(ctx, "Expense updated", log.FieldExpenseID, id)
	return findByID(next.Expenses, id, func(e core.Expense) string { return e.ID }), nil
}

func (t *Tracker) DeleteExpense(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.state.DeleteExpense(id)
	if err != nil {
		return err
	}
	if err := t.commit(ctx, next, t.persistExpenses); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "Expense deleted", log.FieldExpenseID, id)
	return nil
}

// AddPaymentMethod assigns an id and creation time and stores m.
func (t *Tracker) AddPaymentMethod(ctx context.Context, m core.PaymentMethod) (core.PaymentMethod, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	m.ID = t.newID()
	m.CreatedAt = t.now()
	next, err := t.state.AddPaymentMethod(m)
	if err != nil {
		return core.PaymentMethod{}, err
	}
	if err := t.commit(ctx, next, t.persistPaymentMethods); err != nil {
		return core.PaymentMethod{}, err
	}
	added := next.PaymentMethods[len(next.PaymentMethods)-1]
	t.logger.InfoContext(ctx, "Payment method added", "id", added.ID, "type", added.Type)
	return added, nil
}

func (t *Tracker) UpdatePaymentMethod(ctx context.Context, id string, u store.PaymentMethodUpdate) (core.PaymentMethod, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.state.UpdatePaymentMethod(id, u)
	if err != nil {
		return core.PaymentMethod{}, err
	}
	if err := t.commit(ctx, next, t.persistPaymentMethods); err != nil {
		return core.PaymentMethod{}, err
	}
	return findByID(next.PaymentMethods, id, func(m core.PaymentMethod) string { return m.ID }), nil
}

// DeletePaymentMethod removes a method. Expenses that reference it are kept.
func (t *Tracker) DeletePaymentMethod(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.state.DeletePaymentMethod(id)
	if err != nil {
		return err
	}
	if err := t.commit(ctx, next, t.persistPaymentMethods); err != nil {
		return err
	}
	t.logger.InfoContext(ctx, "Payment method deleted", "id", id)
	return nil
}

// AddCustomCategory assigns an id and creation time and stores c.
func (t *Tracker) AddCustomCategory(ctx context.Context, c core.CustomCategory) (core.CustomCategory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c.ID = t.newID()
	c.CreatedAt = t.now()
	next, err := t.state.AddCustomCategory(c)
	if err != nil {
		return core.CustomCategory{}, err
	}
	if err := t.commit(ctx, next, t.persistCustomCategories); err != nil {
		return core.CustomCategory{}, err
	}
	added := next.CustomCategories[len(next.CustomCategories)-1]
	t.logger.InfoContext(ctx, "Category added", log.FieldCategory, added.Name)
	return added, nil
}

func (t *Tracker) UpdateCustomCategory(ctx context.Context, id string, u store.CategoryUpdate) (core.CustomCategory, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.state.UpdateCustomCategory(id, u)
	if err != nil {
		return core.CustomCategory{}, err
	}
	if err := t.commit(ctx, next, t.persistCustomCategories); err != nil {
		return core.CustomCategory{}, err
	}
	return findByID(next.CustomCategories, id, func(c core.CustomCategory) string { return c.ID }), nil
}

func (t *Tracker) DeleteCustomCategory(ctx context.Context, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	next, err := t.state.DeleteCustomCategory(id)
	if err != nil {
		return err
	}
	return t.commit(ctx, next, t.persistCustomCategories)
}

// SetFilters replaces the active filters. Filters live only in memory.
func (t *Tracker) SetFilters(f core.ExpenseFilters) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = t.state.SetFilters(f)
}

func (t *Tracker) ClearFilters() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = t.state.ClearFilters()
}

func (t *Tracker) Filters() core.ExpenseFilters {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.Filters
}

func findByID[T any](items []T, id string, idOf func(T) string) T {
	i := slices.IndexFunc(items, func(x T) bool { return idOf(x) == id })
	if i < 0 {
		var zero T
		return zero
	}
	return items[i]
}
