// Package store holds the application state and the reducer-style
// functions that change it.
//
// State is a plain value. Each reducer takes the current State and returns
// the next one (or an error, leaving the caller's State untouched); slices
// are copied before they are modified so earlier States stay valid. The
// package does no I/O: persistence and id generation belong to the caller.
package store

import (
	"errors"
	"slices"
	"strings"
	"time"

	"expensetracker/internal/core"
)

var (
	ErrExpenseNotFound       = errors.New("expense not found")
	ErrPaymentMethodNotFound = errors.New("payment method not found")
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCashProtected         = errors.New("cannot delete or retype the Cash payment method")
	ErrDuplicateCash         = errors.New("a Cash payment method already exists")
	ErrDuplicateCategory     = errors.New("category name already exists")
	ErrDuplicateID           = errors.New("duplicate id")
	ErrMissingID             = errors.New("missing id")
)

// State is everything the presentation layer renders from.
type State struct {
	Expenses         []core.Expense
	PaymentMethods   []core.PaymentMethod
	CustomCategories []core.CustomCategory
	Filters          core.ExpenseFilters
}

// AllCategories returns the default categories followed by the custom ones.
func (s State) AllCategories() []string {
	out := make([]string, 0, len(core.DefaultCategories)+len(s.CustomCategories))
	out = append(out, core.DefaultCategories...)
	for _, c := range s.CustomCategories {
		out = append(out, c.Name)
	}
	return out
}

// PaymentMethodName resolves a payment method id for display.
func (s State) PaymentMethodName(id string) string {
	return core.PaymentMethodName(s.PaymentMethods, id)
}

// SetFilters replaces the active filters.
func (s State) SetFilters(f core.ExpenseFilters) State {
	s.Filters = f
	return s
}

// ClearFilters removes every filter.
func (s State) ClearFilters() State {
	s.Filters = core.ExpenseFilters{}
	return s
}

// EnsureCashMethod adds the default Cash method when no Cash method exists.
// added reports whether the state changed.
func (s State) EnsureCashMethod(now time.Time) (next State, added bool) {
	if slices.ContainsFunc(s.PaymentMethods, isCash) {
		return s, false
	}
	s.PaymentMethods = append(slices.Clip(s.PaymentMethods), core.PaymentMethod{
		ID:        core.DefaultCashMethodID,
		Type:      core.Cash,
		Name:      "Cash",
		CreatedAt: now,
	})
	return s, true
}

func isCash(m core.PaymentMethod) bool {
	return m.Type == core.Cash
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
