package store

import (
	"slices"
	"strings"

	"expensetracker/internal/core"
)

// CategoryUpdate is a partial update; nil fields are left unchanged.
type CategoryUpdate struct {
	Name  *string `json:"name,omitempty"`
	Icon  *string `json:"icon,omitempty"`
	Color *string `json:"color,omitempty"`
}

// nameTaken reports whether name collides with a default category or with a
// custom category other than exceptID. Comparison ignores case.
func (s State) nameTaken(name, exceptID string) bool {
	for _, d := range core.DefaultCategories {
		if sameName(d, name) {
			return true
		}
	}
	for _, c := range s.CustomCategories {
		if c.ID != exceptID && sameName(c.Name, name) {
			return true
		}
	}
	return false
}

// AddCustomCategory appends a category whose name is unique across default
// and custom categories.
func (s State) AddCustomCategory(c core.CustomCategory) (State, error) {
	if c.ID == "" {
		return s, ErrMissingID
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Icon = strings.TrimSpace(c.Icon)
	if err := c.Validate(); err != nil {
		return s, err
	}
	if s.nameTaken(c.Name, "") {
		return s, ErrDuplicateCategory
	}
	s.CustomCategories = append(slices.Clip(s.CustomCategories), c)
	return s, nil
}

// UpdateCustomCategory applies u. Renaming is subject to the same uniqueness
// rule as adding. Expenses keep their old category string.
func (s State) UpdateCustomCategory(id string, u CategoryUpdate) (State, error) {
	i := slices.IndexFunc(s.CustomCategories, func(x core.CustomCategory) bool { return x.ID == id })
	if i < 0 {
		return s, ErrCategoryNotFound
	}
	c := s.CustomCategories[i]
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Icon != nil {
		c.Icon = strings.TrimSpace(*u.Icon)
	}
	if u.Color != nil {
		c.Color = *u.Color
	}
	if err := c.Validate(); err != nil {
		return s, err
	}
	if s.nameTaken(c.Name, id) {
		return s, ErrDuplicateCategory
	}
	s.CustomCategories = slices.Clone(s.CustomCategories)
	s.CustomCategories[i] = c
	return s, nil
}

// DeleteCustomCategory removes a custom category. Expenses filed under it
// remain and count only toward grand totals.
func (s State) DeleteCustomCategory(id string) (State, error) {
	i := slices.IndexFunc(s.CustomCategories, func(x core.CustomCategory) bool { return x.ID == id })
	if i < 0 {
		return s, ErrCategoryNotFound
	}
	s.CustomCategories = slices.Delete(slices.Clone(s.CustomCategories), i, i+1)
	return s, nil
}
