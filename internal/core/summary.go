package core

import "time"

// MonthSummary totals one calendar month.
type MonthSummary struct {
	Start      time.Time          `json:"start"`
	End        time.Time          `json:"end"`
	Total      float64            `json:"total"`
	ByCategory map[string]float64 `json:"byCategory"`
	// Uncategorized is the part of Total whose category is not in the known set.
	Uncategorized float64 `json:"uncategorized"`
}

// MonthlyComparison contrasts the current and previous calendar month.
type MonthlyComparison struct {
	CurrentMonth     MonthSummary `json:"currentMonth"`
	PreviousMonth    MonthSummary `json:"previousMonth"`
	PercentageChange float64      `json:"percentageChange"`
}

// BucketComparison is one ten-day window of the current and previous month.
type BucketComparison struct {
	Label    string  `json:"label"`
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
}

// DayGroup holds the expenses of one calendar day.
type DayGroup struct {
	Day      string    `json:"day"`
	Total    float64   `json:"total"`
	Expenses []Expense `json:"expenses"`
}
