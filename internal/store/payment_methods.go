package store

import (
	"slices"

	"expensetracker/internal/core"
)

// PaymentMethodUpdate is a partial update; nil fields are left unchanged.
type PaymentMethodUpdate struct {
	Type     *core.PaymentMethodType `json:"type,omitempty"`
	Name     *string                 `json:"name,omitempty"`
	BankName *string                 `json:"bankName,omitempty"`
}

// AddPaymentMethod appends a validated payment method. Only one Cash method
// may exist.
func (s State) AddPaymentMethod(m core.PaymentMethod) (State, error) {
	if m.ID == "" {
		return s, ErrMissingID
	}
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return s, err
	}
	if m.Type == core.Cash && slices.ContainsFunc(s.PaymentMethods, isCash) {
		return s, ErrDuplicateCash
	}
	if slices.ContainsFunc(s.PaymentMethods, func(x core.PaymentMethod) bool { return x.ID == m.ID }) {
		return s, ErrDuplicateID
	}
	s.PaymentMethods = append(slices.Clip(s.PaymentMethods), m)
	return s, nil
}

// UpdatePaymentMethod applies u. A Cash method may be renamed but not retyped,
// and no other method may become Cash.
func (s State) UpdatePaymentMethod(id string, u PaymentMethodUpdate) (State, error) {
	i := slices.IndexFunc(s.PaymentMethods, func(x core.PaymentMethod) bool { return x.ID == id })
	if i < 0 {
		return s, ErrPaymentMethodNotFound
	}
	m := s.PaymentMethods[i]
	if u.Type != nil && *u.Type != m.Type {
		if m.Type == core.Cash {
			return s, ErrCashProtected
		}
		if *u.Type == core.Cash {
			return s, ErrDuplicateCash
		}
		m.Type = *u.Type
	}
	if u.Name != nil {
		m.Name = *u.Name
	}
	if u.BankName != nil {
		m.BankName = *u.BankName
	}
	m = m.Normalize()
	if err := m.Validate(); err != nil {
		return s, err
	}
	s.PaymentMethods = slices.Clone(s.PaymentMethods)
	s.PaymentMethods[i] = m
	return s, nil
}

// DeletePaymentMethod removes a non-Cash payment method. Expenses that still
// reference it are kept and display as Unknown.
func (s State) DeletePaymentMethod(id string) (State, error) {
	i := slices.IndexFunc(s.PaymentMethods, func(x core.PaymentMethod) bool { return x.ID == id })
	if i < 0 {
		return s, ErrPaymentMethodNotFound
	}
	if isCash(s.PaymentMethods[i]) {
		return s, ErrCashProtected
	}
	s.PaymentMethods = slices.Delete(slices.Clone(s.PaymentMethods), i, i+1)
	return s, nil
}
