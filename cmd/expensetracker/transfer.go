package main

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
	"expensetracker/internal/transfer"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}
			if err := transfer.Export(w, app.Tracker); err != nil {
				return err
			}
			if output != "" && output != "-" {
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d expenses to %s\n", len(app.Tracker.Snapshot().Expenses), output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all data with an exported JSON document",
		Long: `Import validates the document and then replaces expenses, payment methods
and custom categories. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open %s: %w", args[0], err)
				}
				defer f.Close()
				r = f
			}

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			data, err := transfer.Import(cmd.Context(), app.Tracker, r)
			if err != nil {
				return err
			}
			printCounts(cmd.OutOrStdout(), "Imported", data)
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with sample expenses",
		Long: `Seed overwrites expenses and payment methods with sample data for the
current and previous month. Custom categories are kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("seed overwrites existing expenses; rerun with --force")
			}

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			rnd := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
			data, err := transfer.Seed(cmd.Context(), app.Tracker, app.Tracker.Now(), rnd)
			if err != nil {
				return err
			}
			printCounts(cmd.OutOrStdout(), "Seeded", data)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite existing data")
	return cmd
}

func printCounts(w io.Writer, verb string, data core.AppData) {
	fmt.Fprintf(w, "%s %d expenses, %d payment methods, %d custom categories\n",
		verb, len(data.Expenses), len(data.PaymentMethods), len(data.CustomCategories))
}
