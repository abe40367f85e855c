// Package datetime parses the narrow family of date and time strings accepted
// by form validators and rule comparisons. The grammar is deliberately exact:
// dates are `YYYY-MM-DD` with mixed-width day and month permitted (8 to 10
// characters overall), month-years are `YYYY-MM`/`YYYY-M` (6 to 7 characters,
// day defaults to the first), and times are `HH:MM`. Anything outside the
// grammar, or calendrically impossible, parses to absent rather than an error.
package datetime

import (
	"strconv"
	"strings"
	"time"
)

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

var daysInMonth = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysIn returns the day-of-month bound for month in year, accounting for
// February in leap years. Month must be in 1..12.
func DaysIn(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return daysInMonth[month]
}

// ParseDate parses a date or month-year string. The boolean is false when the
// input does not match the grammar or names a day that does not exist in its
// month.
func ParseDate(value string) (time.Time, bool) {
	if len(value) < 6 || len(value) > 10 {
		return time.Time{}, false
	}
	parts := strings.Split(value, "-")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, false
	}
	if len(parts[0]) != 4 {
		return time.Time{}, false
	}
	year, ok := parseComponent(parts[0], 4)
	if !ok {
		return time.Time{}, false
	}
	month, ok := parseComponent(parts[1], 2)
	if !ok || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day := 1
	if len(parts) == 3 {
		day, ok = parseComponent(parts[2], 2)
		if !ok || day < 1 || day > DaysIn(year, month) {
			return time.Time{}, false
		}
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// ParseTime parses `HH:MM` with hour 0..23 and minute 0..59, returning the
// offset from midnight. The boolean is false on any deviation, including
// single-digit components.
func ParseTime(value string) (time.Duration, bool) {
	if len(value) != 5 || value[2] != ':' {
		return 0, false
	}
	hour, ok := parseComponent(value[:2], 2)
	if !ok || hour > 23 {
		return 0, false
	}
	minute, ok := parseComponent(value[3:], 2)
	if !ok || minute > 59 {
		return 0, false
	}
	return time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute, true
}

// Format renders a date in the minimal-width `YYYY-M-D` form, the same family
// ParseDate accepts.
func Format(t time.Time) string {
	return strconv.Itoa(t.Year()) + "-" + strconv.Itoa(int(t.Month())) + "-" + strconv.Itoa(t.Day())
}

func parseComponent(raw string, maxWidth int) (int, bool) {
	if raw == "" || len(raw) > maxWidth {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}
