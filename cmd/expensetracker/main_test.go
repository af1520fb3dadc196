package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expensetracker/internal/config"
	"expensetracker/internal/log"
)

// useTempConfig points the commands at a fresh SQLite database.
func useTempConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	v := viper.New()
	v.Set("DATA_BACKEND", "sqlite")
	v.Set("SQLITE_DB_PATH", filepath.Join(dir, "expenses.db"))
	v.Set("TIMEZONE", "UTC")
	cfg := config.FromViper(v)
	require.NoError(t, cfg.Validate())

	prevCfg, prevLogger := appConfig, appLogger
	appConfig = cfg
	appLogger = log.New(log.Config{Output: &bytes.Buffer{}})
	t.Cleanup(func() { appConfig, appLogger = prevCfg, prevLogger })
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "add", "list", "summary", "buckets", "categories", "export", "import", "seed"} {
		assert.True(t, names[want], "missing %s command", want)
	}

	for _, flag := range []string{"backend", "db", "log-level", "log-format", "env-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), "missing --%s", flag)
	}
}

func TestCategoriesCmd(t *testing.T) {
	cmd := categoriesCmd()
	var subs []string
	for _, c := range cmd.Commands() {
		subs = append(subs, c.Name())
	}
	assert.ElementsMatch(t, []string{"list", "add", "delete"}, subs)
}

func TestAddCmdFlags(t *testing.T) {
	cmd := addCmd()
	flag := cmd.Flag("method")
	require.NotNil(t, flag)
	assert.Equal(t, "cash-default", flag.DefValue)

	_, err := run(t, addCmd(), "--category", "Food")
	assert.Error(t, err, "amount is required")
}

func TestOpenAppWithoutConfig(t *testing.T) {
	prev := appConfig
	appConfig = nil
	t.Cleanup(func() { appConfig = prev })

	_, err := run(t, listCmd())
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestAddAndList(t *testing.T) {
	useTempConfig(t)
	today := time.Now().UTC().Format("2006-01-02")

	out, err := run(t, addCmd(), "--amount", "120,50", "--category", "Food", "--description", "Lunch")
	require.NoError(t, err)
	assert.Contains(t, out, "₹120.50")
	assert.Contains(t, out, today)

	_, err = run(t, addCmd(), "--amount", "-3", "--category", "Food")
	assert.Error(t, err)

	_, err = run(t, addCmd(), "--amount", "30", "--category", "Travel", "--date", "2024-01-05")
	require.NoError(t, err)

	out, err = run(t, listCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Lunch")
	assert.Contains(t, out, "Cash")
	assert.Contains(t, out, "2 expenses, total ₹150.50")
	assert.Less(t, strings.Index(out, today), strings.Index(out, "2024-01-05"), "newest day first")

	out, err = run(t, listCmd(), "--category", "Travel")
	require.NoError(t, err)
	assert.Contains(t, out, "1 expenses, total ₹30.00")

	_, err = run(t, listCmd(), "--from", "yesterday")
	assert.Error(t, err)
}

func TestSummaryAndBuckets(t *testing.T) {
	useTempConfig(t)

	_, err := run(t, addCmd(), "--amount", "150", "--category", "Food", "--date", "2024-03-05")
	require.NoError(t, err)
	_, err = run(t, addCmd(), "--amount", "100", "--category", "Food", "--date", "2024-02-05")
	require.NoError(t, err)

	out, err := run(t, summaryCmd(), "--date", "2024-03-20")
	require.NoError(t, err)
	assert.Contains(t, out, "Mar 2024")
	assert.Contains(t, out, "Feb 2024")
	assert.Contains(t, out, "Change: +50.0%")

	out, err = run(t, bucketsCmd(), "--date", "2024-03-20")
	require.NoError(t, err)
	assert.Contains(t, out, "1-10")
	assert.Contains(t, out, "21-31")

	_, err = run(t, bucketsCmd(), "--date", "soon")
	assert.Error(t, err)
}

func TestCategoriesLifecycle(t *testing.T) {
	useTempConfig(t)

	out, err := run(t, addCategoryCmd(), "Gym", "--icon", "🏋️")
	require.NoError(t, err)
	assert.Contains(t, out, "Added category")

	_, err = run(t, addCategoryCmd(), "gym")
	assert.Error(t, err)

	out, err = run(t, listCategoriesCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Bills")
	assert.Contains(t, out, "Gym")

	_, err = run(t, deleteCategoryCmd(), "Food")
	assert.ErrorContains(t, err, "built-in")

	_, err = run(t, deleteCategoryCmd(), "GYM")
	require.NoError(t, err)

	_, err = run(t, deleteCategoryCmd(), "Gym")
	assert.Error(t, err)
}

func TestExportImportSeed(t *testing.T) {
	dir := useTempConfig(t)

	_, err := run(t, seedCmd())
	assert.Error(t, err, "seed requires --force")

	out, err := run(t, seedCmd(), "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 25 expenses, 4 payment methods")

	path := filepath.Join(dir, "export.json")
	_, err = run(t, exportCmd(), "--output", path)
	require.NoError(t, err)
	doc, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(doc), `"paymentMethods"`)

	out, err = run(t, importCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 25 expenses")

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"expenses": 3}`), 0o600))
	_, err = run(t, importCmd(), bad)
	assert.Error(t, err)

	_, err = run(t, importCmd(), filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestBar(t *testing.T) {
	assert.Equal(t, "", bar(0, 10))
	assert.Equal(t, "", bar(5, 0))
	assert.Equal(t, barWidth, len([]rune(bar(10, 10))))
	assert.Equal(t, 1, len([]rune(bar(0.001, 10))))
}
