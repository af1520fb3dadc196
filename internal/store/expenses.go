package store

import (
	"slices"

	"expensetracker/internal/core"
)

// ExpenseUpdate is a partial update; nil fields are left unchanged.
type ExpenseUpdate struct {
	Amount          *core.Amount `json:"amount,omitempty"`
	Category        *string      `json:"category,omitempty"`
	PaymentMethodID *string      `json:"paymentMethodId,omitempty"`
	Description     *string      `json:"description,omitempty"`
	Date            *string      `json:"date,omitempty"`
}

// Apply returns e with the set fields replaced.
func (u ExpenseUpdate) Apply(e core.Expense) core.Expense {
	if u.Amount != nil {
		e.Amount = *u.Amount
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
	if u.PaymentMethodID != nil {
		e.PaymentMethodID = *u.PaymentMethodID
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.Date != nil {
		e.Date = *u.Date
	}
	return e
}

// AddExpense appends a validated expense. The caller assigns ID and CreatedAt.
func (s State) AddExpense(e core.Expense) (State, error) {
	if e.ID == "" {
		return s, ErrMissingID
	}
	e = e.Normalize()
	if err := e.Validate(); err != nil {
		return s, err
	}
	if slices.ContainsFunc(s.Expenses, func(x core.Expense) bool { return x.ID == e.ID }) {
		return s, ErrDuplicateID
	}
	s.Expenses = append(slices.Clip(s.Expenses), e)
	return s, nil
}

// UpdateExpense applies u to the expense with the given id. ID and
// CreatedAt never change.
func (s State) UpdateExpense(id string, u ExpenseUpdate) (State, error) {
	i := slices.IndexFunc(s.Expenses, func(x core.Expense) bool { return x.ID == id })
	if i < 0 {
		return s, ErrExpenseNotFound
	}
	updated := u.Apply(s.Expenses[i]).Normalize()
	if err := updated.Validate(); err != nil {
		return s, err
	}
	s.Expenses = slices.Clone(s.Expenses)
	s.Expenses[i] = updated
	return s, nil
}

// DeleteExpense removes the expense with the given id.
func (s State) DeleteExpense(id string) (State, error) {
	i := slices.IndexFunc(s.Expenses, func(x core.Expense) bool { return x.ID == id })
	if i < 0 {
		return s, ErrExpenseNotFound
	}
	s.Expenses = slices.Delete(slices.Clone(s.Expenses), i, i+1)
	return s, nil
}
