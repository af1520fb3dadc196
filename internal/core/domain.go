// Package core holds the expense tracker domain: expenses, payment methods,
// custom categories and their input validation, plus amount parsing, date
// handling and currency formatting.
package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	Cash PaymentMethodType = "Cash"
	Card PaymentMethodType = "Card"
	Bank PaymentMethodType = "Bank"
)

const (
	ThemeLight  ThemePreference = "light"
	ThemeDark   ThemePreference = "dark"
	ThemeSystem ThemePreference = "system"
)

// DefaultCashMethodID is the id of the Cash method seeded on first run.
const DefaultCashMethodID = "cash-default"

// MaxDescriptionLength is the longest accepted description, in characters.
const MaxDescriptionLength = 200

// UnknownPaymentMethod is displayed for expenses whose payment method no longer exists.
const UnknownPaymentMethod = "Unknown"

// DefaultCategories are the built-in categories, in display order.
var DefaultCategories = []string{"Food", "Travel", "Shopping", "Bills"}

type (
	PaymentMethodType string

	ThemePreference string

	Expense struct {
		ID              string    `json:"id"`
		Amount          Amount    `json:"amount"`
		Category        string    `json:"category"`
		PaymentMethodID string    `json:"paymentMethodId"`
		Description     string    `json:"description,omitempty"`
		Date            string    `json:"date"` // calendar day the expense occurred, ISO formatted
		CreatedAt       time.Time `json:"createdAt"`
	}

	PaymentMethod struct {
		ID        string            `json:"id"`
		Type      PaymentMethodType `json:"type"`
		Name      string            `json:"name"`
		BankName  string            `json:"bankName,omitempty"` // Bank only
		CreatedAt time.Time         `json:"createdAt"`
	}

	CustomCategory struct {
		ID        string    `json:"id"`
		Name      string    `json:"name"`
		Icon      string    `json:"icon"`
		Color     string    `json:"color,omitempty"`
		CreatedAt time.Time `json:"createdAt"`
	}

	AuthState struct {
		IsAuthenticated bool   `json:"isAuthenticated"`
		Username        string `json:"username,omitempty"`
	}

	// ExpenseFilters narrows the expense list. Empty fields do not filter.
	ExpenseFilters struct {
		Category        string `json:"category,omitempty"`
		PaymentMethodID string `json:"paymentMethodId,omitempty"`
		StartDate       string `json:"startDate,omitempty"`
		EndDate         string `json:"endDate,omitempty"`
	}

	// AppData is the full exportable state of the application.
	AppData struct {
		Expenses         []Expense        `json:"expenses"`
		PaymentMethods   []PaymentMethod  `json:"paymentMethods"`
		Categories       []string         `json:"categories"`
		CustomCategories []CustomCategory `json:"customCategories"`
	}
)

var (
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInvalidDate              = errors.New("invalid date")
	ErrEmptyCategory            = errors.New("empty category")
	ErrEmptyPaymentMethod       = errors.New("empty payment method")
	ErrEmptyName                = errors.New("empty name")
	ErrEmptyIcon                = errors.New("empty icon")
	ErrInvalidPaymentMethodType = errors.New("invalid payment method type")
	ErrInvalidTheme             = errors.New("invalid theme preference")
	ErrDescriptionTooLong       = errors.New("description too long (max 200 characters)")
)

// Valid reports whether t is one of Cash, Card or Bank.
func (t PaymentMethodType) Valid() bool {
	switch t {
	case Cash, Card, Bank:
		return true
	default:
		return false
	}
}

func (p ThemePreference) Valid() bool {
	switch p {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	default:
		return false
	}
}

// IsDefaultCategory reports whether name is one of the built-in categories.
func IsDefaultCategory(name string) bool {
	for _, c := range DefaultCategories {
		if c == name {
			return true
		}
	}
	return false
}

// Validate applies the input-boundary rules for a new or edited expense.
// Persisted records are never re-validated; aggregation tolerates bad data.
func (e Expense) Validate() error {
	if !e.Amount.Positive() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.PaymentMethodID) == "" {
		return ErrEmptyPaymentMethod
	}
	if _, ok := ParseDate(e.Date, time.UTC); !ok {
		return ErrInvalidDate
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// Normalize trims user supplied text fields.
func (e Expense) Normalize() Expense {
	e.Category = strings.TrimSpace(e.Category)
	e.PaymentMethodID = strings.TrimSpace(e.PaymentMethodID)
	e.Description = strings.TrimSpace(e.Description)
	e.Date = strings.TrimSpace(e.Date)
	return e
}

// Time returns the expense date in loc. ok is false for malformed dates.
func (e Expense) Time(loc *time.Location) (t time.Time, ok bool) {
	return ParseDate(e.Date, loc)
}

func (m PaymentMethod) Validate() error {
	if !m.Type.Valid() {
		return ErrInvalidPaymentMethodType
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Normalize trims the name and drops the bank name for non-Bank methods.
func (m PaymentMethod) Normalize() PaymentMethod {
	m.Name = strings.TrimSpace(m.Name)
	m.BankName = strings.TrimSpace(m.BankName)
	if m.Type != Bank {
		m.BankName = ""
	}
	return m
}

func (c CustomCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(c.Icon) == "" {
		return ErrEmptyIcon
	}
	return nil
}

// PaymentMethodName resolves id against methods, falling back to UnknownPaymentMethod.
func PaymentMethodName(methods []PaymentMethod, id string) string {
	for _, m := range methods {
		if m.ID == id {
			return m.Name
		}
	}
	return UnknownPaymentMethod
}

// IsEmpty reports whether no filter is set.
func (f ExpenseFilters) IsEmpty() bool {
	return f == ExpenseFilters{}
}
