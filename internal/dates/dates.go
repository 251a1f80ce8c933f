// Package dates provides the calendar arithmetic the dashboard's rolling
// 12-month window is built on, plus lenient ISO date parsing for form input.
package dates

import (
	"strings"
	"time"
)

// ISODate is the canonical layout for date-only values.
const ISODate = "2006-01-02"

// MonthStart returns the first day of the calendar month monthsBack months
// before base's month. monthsBack = 0 returns the first of base's month.
// Year rollover is handled by time.Date normalization.
func MonthStart(base time.Time, monthsBack int) time.Time {
	return time.Date(base.Year(), base.Month()-time.Month(monthsBack), 1, 0, 0, 0, 0, base.Location())
}

// NextMonth returns the first day of the month following value's month,
// rolling the year forward at December. The day component is ignored.
func NextMonth(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month()+1, 1, 0, 0, 0, 0, value.Location())
}

// DateOnly truncates a time to midnight of its calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Rebase reinterprets a value's calendar date as midnight in the given
// location. Database dates scan in UTC; comparing them against a local
// anchor as instants would shift days, so both sides are rebased first.
func Rebase(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// parseLayouts are tried in order by ParseISODate. Browsers normally send
// YYYY-MM-DD but occasionally a full datetime string.
var parseLayouts = []string{
	ISODate,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseISODate parses a date form value, returning ok=false on blank or
// invalid input. Any time-of-day component is discarded.
func ParseISODate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return DateOnly(t), true
		}
	}
	return time.Time{}, false
}
