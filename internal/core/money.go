package core

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a currency-agnostic expense amount. Persisted records come from
// an untyped key-value store, so Amount decodes leniently: a corrupt value
// degrades to "not a number" instead of failing the record.
type Amount float64

// CurrencyInfo describes a display currency.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// DefaultCurrency is the fixed display currency.
var DefaultCurrency = CurrencyInfo{Code: "INR", Symbol: "₹", Name: "Indian Rupee"}

var currencies = map[string]CurrencyInfo{
	"INR": DefaultCurrency,
	"USD": {Code: "USD", Symbol: "$", Name: "US Dollar"},
	"GBP": {Code: "GBP", Symbol: "£", Name: "British Pound"},
	"EUR": {Code: "EUR", Symbol: "€", Name: "Euro"},
	"JPY": {Code: "JPY", Symbol: "¥", Name: "Japanese Yen"},
	"CNY": {Code: "CNY", Symbol: "¥", Name: "Chinese Yuan"},
	"AUD": {Code: "AUD", Symbol: "A$", Name: "Australian Dollar"},
	"CAD": {Code: "CAD", Symbol: "C$", Name: "Canadian Dollar"},
}

// LookupCurrency returns the currency for an ISO code and whether it is known.
func LookupCurrency(code string) (CurrencyInfo, bool) {
	c, ok := currencies[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// Float returns the raw value, which may be NaN for corrupt records.
func (a Amount) Float() float64 {
	return float64(a)
}

// Safe returns the amount as used in totals: NaN, infinities and negative
// values count as zero.
func (a Amount) Safe() float64 {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// Positive reports whether the amount is finite and strictly positive.
func (a Amount) Positive() bool {
	f := float64(a)
	return !math.IsNaN(f) && !math.IsInf(f, 0) && f > 0
}

// UnmarshalJSON accepts numbers and numeric strings. null decodes to zero;
// anything else decodes to NaN rather than failing.
func (a *Amount) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*a = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*a = Amount(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			*a = Amount(f)
			return nil
		}
	}
	*a = Amount(math.NaN())
	return nil
}

// MarshalJSON writes non-finite amounts as null.
func (a Amount) MarshalJSON() ([]byte, error) {
	f := float64(a)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, f, 'f', -1, 64), nil
}

// ParseAmount converts user input to an amount rounded to two decimals.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs, zero and non-numeric input are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34, nil
//	ParseAmount("12,345") -> 12.35, nil
//	ParseAmount("-1")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.ContainsAny(s, "eE") {
		return 0, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return 0, ErrInvalidAmount
	}
	return Amount(d.InexactFloat64()), nil
}

// FormatCurrency renders amount with the currency symbol and two decimals.
// Non-finite amounts render as zero.
func FormatCurrency(amount float64, c CurrencyInfo) string {
	return c.Symbol + FormatAmount(amount)
}

// FormatAmount renders amount with two decimals and no symbol.
func FormatAmount(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return decimal.NewFromFloat(amount).StringFixed(2)
}
