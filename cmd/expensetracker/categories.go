package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
	"expensetracker/internal/store"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
		Long:  `List the built-in categories and add or delete custom ones.`,
	}

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "Name\tIcon\tColor\tID")
			for _, name := range core.DefaultCategories {
				fmt.Fprintf(w, "%s\t\t\t(built-in)\n", name)
			}
			for _, c := range app.Tracker.Snapshot().CustomCategories {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.Name, c.Icon, c.Color, c.ID)
			}
			return w.Flush()
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var icon, color string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Long:  `Create a custom category. Names are unique, ignoring case, across built-in and custom categories.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			c, err := app.Tracker.AddCustomCategory(cmd.Context(), core.CustomCategory{
				Name:  args[0],
				Icon:  icon,
				Color: color,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added category %s %s (%s)\n", c.Icon, c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&icon, "icon", "🏷️", "category icon")
	cmd.Flags().StringVar(&color, "color", "", "optional display color")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name|id>",
		Short: "Delete a custom category",
		Long:  `Delete a custom category by id or by name (ignoring case). Expenses keep their category text.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			id, ok := findCategory(app.Tracker.Snapshot().CustomCategories, args[0])
			if !ok {
				if core.IsDefaultCategory(args[0]) {
					return fmt.Errorf("%q is a built-in category and cannot be deleted", args[0])
				}
				return fmt.Errorf("category %q: %w", args[0], store.ErrCategoryNotFound)
			}
			if err := app.Tracker.DeleteCustomCategory(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted category %s\n", args[0])
			return nil
		},
	}
}

// findCategory resolves ref as an id first, then as a case-insensitive name.
func findCategory(categories []core.CustomCategory, ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	for _, c := range categories {
		if c.ID == ref {
			return c.ID, true
		}
	}
	for _, c := range categories {
		if strings.EqualFold(c.Name, ref) {
			return c.ID, true
		}
	}
	return "", false
}
