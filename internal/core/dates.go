package core

import (
	"strings"
	"time"
)

// DateLayout is the calendar-day format used for expense dates and day keys.
const DateLayout = "2006-01-02"

var zonelessLayouts = []string{
	DateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseDate parses an expense date. Bare dates and zoneless timestamps are
// read in loc; timestamps with an offset are converted to loc. ok is false
// for anything unparseable.
func ParseDate(s string, loc *time.Location) (t time.Time, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), true
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DayKey formats t as YYYY-MM-DD in its own location.
func DayKey(t time.Time) string {
	return t.Format(DateLayout)
}
