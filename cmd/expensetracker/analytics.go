package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func summaryCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Compare this month with the previous one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ref, err := parseRef(date, app.Tracker.Now(), app.Tracker.Location())
			if err != nil {
				return err
			}
			cmp := app.Tracker.MonthlyComparison(ref)
			cur, prev := cmp.CurrentMonth, cmp.PreviousMonth

			out := cmd.OutOrStdout()
			w := newTable(out)
			fmt.Fprintf(w, "Category\t%s\t%s\n", cur.Start.Format("Jan 2006"), prev.Start.Format("Jan 2006"))
			for _, c := range app.Tracker.AllCategories() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", c, money(cur.ByCategory[c]), money(prev.ByCategory[c]))
			}
			if cur.Uncategorized != 0 || prev.Uncategorized != 0 {
				fmt.Fprintf(w, "Uncategorized\t%s\t%s\n", money(cur.Uncategorized), money(prev.Uncategorized))
			}
			fmt.Fprintf(w, "Total\t%s\t%s\n", money(cur.Total), money(prev.Total))
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(out, "\nChange: %+.1f%%\n", cmp.PercentageChange)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any day in the month to summarize (default today)")
	return cmd
}

func bucketsCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "buckets",
		Short: "Compare ten-day windows with the previous month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ref, err := parseRef(date, app.Tracker.Now(), app.Tracker.Location())
			if err != nil {
				return err
			}

			buckets := app.Tracker.TenDayBuckets(ref)
			peak := 0.0
			for _, b := range buckets {
				peak = slices.Max([]float64{peak, b.Current, b.Previous})
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "Days\tCurrent\tPrevious\t")
			for _, b := range buckets {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.Label, money(b.Current), money(b.Previous), bar(b.Current, peak))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "any day in the month to chart (default today)")
	return cmd
}

const barWidth = 30

// bar renders v as a proportion of peak.
func bar(v, peak float64) string {
	if peak <= 0 || v <= 0 {
		return ""
	}
	n := int(v / peak * barWidth)
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", n)
}
