package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"expensetracker/internal/core"
)

// Keys of the persisted documents.
const (
	KeyAuthState        = "@expense_tracker:auth_state"
	KeyExpenses         = "@expense_tracker:expenses"
	KeyPaymentMethods   = "@expense_tracker:payment_methods"
	KeyCustomCategories = "@expense_tracker:custom_categories"
	KeyThemePreference  = "@expense_tracker:theme_preference"
)

// ErrCorrupt wraps a stored document that is not valid JSON for its type.
var ErrCorrupt = errors.New("corrupt stored document")

// Collection is a list of records stored as one JSON array under one key.
type Collection[T any] struct {
	kv  KV
	key string
}

// NewCollection returns the collection stored under key.
func NewCollection[T any](kv KV, key string) *Collection[T] {
	return &Collection[T]{kv: kv, key: key}
}

// Load returns every record. A key that was never written loads as empty.
// Records that fail to decode are logged and skipped; only a document that
// is not a JSON array is reported as ErrCorrupt.
func (c *Collection[T]) Load(ctx context.Context) ([]T, error) {
	var raw []json.RawMessage
	found, err := getJSON(ctx, c.kv, c.key, &raw)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raw))
	if !found {
		return out, nil
	}
	for i, rec := range raw {
		var item T
		if err := json.Unmarshal(rec, &item); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable stored record",
				"key", c.key, "index", i, "error", err)
			continue
		}
		out = append(out, item)
	}
	return out, nil
}

// ReplaceAll overwrites the stored collection with items.
func (c *Collection[T]) ReplaceAll(ctx context.Context, items []T) error {
	return setJSON(ctx, c.kv, c.key, nonNil(items))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// ReplaceData writes the three collections in one batch: either all of them
// are stored or none is.
func (r *Repositories) ReplaceData(ctx context.Context, expenses []core.Expense, methods []core.PaymentMethod, categories []core.CustomCategory) error {
	docs := []struct {
		key string
		v   any
	}{
		{KeyExpenses, nonNil(expenses)},
		{KeyPaymentMethods, nonNil(methods)},
		{KeyCustomCategories, nonNil(categories)},
	}
	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		data, err := json.Marshal(d.v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.key, err)
		}
		entries = append(entries, Entry{Key: d.key, Value: data})
	}
	if err := r.kv.SetBatch(ctx, entries); err != nil {
		return fmt.Errorf("write collections: %w", err)
	}
	return nil
}

// Repositories groups the typed views over one KV store.
type Repositories struct {
	Expenses         *Collection[core.Expense]
	PaymentMethods   *Collection[core.PaymentMethod]
	CustomCategories *Collection[core.CustomCategory]
	Auth             *AuthRepository
	Theme            *ThemeRepository

	kv KV
}

func NewRepositories(kv KV) *Repositories {
	return &Repositories{
		Expenses:         NewCollection[core.Expense](kv, KeyExpenses),
		PaymentMethods:   NewCollection[core.PaymentMethod](kv, KeyPaymentMethods),
		CustomCategories: NewCollection[core.CustomCategory](kv, KeyCustomCategories),
		Auth:             &AuthRepository{kv: kv},
		Theme:            &ThemeRepository{kv: kv},
		kv:               kv,
	}
}

// AuthRepository persists the login state.
type AuthRepository struct {
	kv KV
}

// Get returns the stored state, or the zero (logged out) state if none.
func (r *AuthRepository) Get(ctx context.Context) (core.AuthState, error) {
	var state core.AuthState
	if _, err := getJSON(ctx, r.kv, KeyAuthState, &state); err != nil {
		return core.AuthState{}, err
	}
	return state, nil
}

func (r *AuthRepository) Save(ctx context.Context, state core.AuthState) error {
	return setJSON(ctx, r.kv, KeyAuthState, state)
}

func (r *AuthRepository) Clear(ctx context.Context) error {
	return r.kv.Delete(ctx, KeyAuthState)
}

// ThemeRepository persists the theme preference.
type ThemeRepository struct {
	kv KV
}

// Get returns the stored preference, defaulting to system.
func (r *ThemeRepository) Get(ctx context.Context) (core.ThemePreference, error) {
	var pref core.ThemePreference
	found, err := getJSON(ctx, r.kv, KeyThemePreference, &pref)
	if err != nil {
		return core.ThemeSystem, err
	}
	if !found || !pref.Valid() {
		return core.ThemeSystem, nil
	}
	return pref, nil
}

func (r *ThemeRepository) Save(ctx context.Context, pref core.ThemePreference) error {
	if !pref.Valid() {
		return core.ErrInvalidTheme
	}
	return setJSON(ctx, r.kv, KeyThemePreference, pref)
}

func getJSON(ctx context.Context, kv KV, key string, v any) (found bool, err error) {
	data, err := kv.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.ErrorContext(ctx, "Stored document is not valid JSON", "key", key, "error", err)
		return false, fmt.Errorf("decode %s: %w: %v", key, ErrCorrupt, err)
	}
	return true, nil
}

func setJSON(ctx context.Context, kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
