// Package analytics computes derived views over a flat expense collection:
// calendar-month ranges, date filtering, per-day grouping, totals, category
// breakdowns and month-over-month comparisons.
//
// Every function is a pure transformation of its arguments. Nothing here
// keeps state between calls or mutates its inputs, and no function fails on
// bad persisted data: non-finite or negative amounts count as zero and
// expenses with malformed dates are left out of any date-bounded result.
//
// Calendar arithmetic happens in the location of the reference time (or of
// the range bounds), so callers pick the user's local calendar by passing
// times in that location.
package analytics
