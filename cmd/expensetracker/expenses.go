package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"expensetracker/internal/core"
)

func addCmd() *cobra.Command {
	var (
		amount      string
		category    string
		methodID    string
		description string
		date        string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		Long: `Record a new expense. The amount accepts either a dot or a comma as the
decimal separator. The date defaults to today.`,
		Example: `  expensetracker add --amount 120.50 --category Food --description Lunch
  expensetracker add --amount 45,90 --category Travel --method <payment-method-id> --date 2024-03-14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			value, err := core.ParseAmount(amount)
			if err != nil {
				return fmt.Errorf("amount %q: %w", amount, err)
			}

			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			if date == "" {
				date = core.DayKey(app.Tracker.Now())
			}
			e, err := app.Tracker.AddExpense(cmd.Context(), core.Expense{
				Amount:          value,
				Category:        category,
				PaymentMethodID: methodID,
				Description:     description,
				Date:            date,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s on %s (%s)\n",
				money(e.Amount.Float()), e.Category, e.Date, e.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "expense amount (required)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name (required)")
	cmd.Flags().StringVarP(&methodID, "method", "m", core.DefaultCashMethodID, "payment method id")
	cmd.Flags().StringVarP(&description, "description", "d", "", "optional description")
	cmd.Flags().StringVar(&date, "date", "", "expense date, YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func listCmd() *cobra.Command {
	var (
		filters core.ExpenseFilters
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List expenses grouped by day",
		Long:  `List expenses newest first, grouped by day, with per-day and overall totals.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			home, err := app.Tracker.Home(filters)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(home)
			}

			if home.Count == 0 {
				fmt.Fprintln(out, "No expenses found. Use 'expensetracker add' to record one.")
				return nil
			}

			w := newTable(out)
			for _, day := range home.Days {
				fmt.Fprintf(w, "%s\t\t%s\t\n", day.Day, money(day.Total))
				for _, e := range day.Expenses {
					fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n",
						e.Category, money(e.Amount.Float()), app.Tracker.PaymentMethodName(e.PaymentMethodID), e.Description)
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d expenses, total %s, this month %s\n", home.Count, money(home.Total), money(home.MonthTotal))
			return nil
		},
	}

	cmd.Flags().StringVar(&filters.Category, "category", "", "only this category")
	cmd.Flags().StringVar(&filters.PaymentMethodID, "method", "", "only this payment method id")
	cmd.Flags().StringVar(&filters.StartDate, "from", "", "start date, YYYY-MM-DD")
	cmd.Flags().StringVar(&filters.EndDate, "to", "", "end date, YYYY-MM-DD")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
