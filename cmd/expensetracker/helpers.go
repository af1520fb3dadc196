package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"expensetracker/internal/cli"
	"expensetracker/internal/core"
)

var errNotConfigured = errors.New("configuration not loaded")

// openApp bootstraps storage and state for a single command run.
func openApp(ctx context.Context) (*cli.App, error) {
	if appConfig == nil || appLogger == nil {
		return nil, errNotConfigured
	}
	return cli.Bootstrap(ctx, appConfig, appLogger)
}

func money(amount float64) string {
	return core.FormatCurrency(amount, appConfig.Currency())
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// parseRef parses an optional reference date; empty means now.
func parseRef(s string, now time.Time, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return now, nil
	}
	t, ok := core.ParseDate(s, loc)
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: %w", s, core.ErrInvalidDate)
	}
	return t, nil
}
