// Package dates handles the calendar dates stored on meetings, events,
// members and ledger entries. Dates are "YYYY-MM-DD" strings interpreted as
// local calendar days, never as UTC instants, so a stored date cannot slip
// to the previous day when read in a western timezone.
package dates

import (
	"errors"
	"time"
)

// Layout is the storage format of every date field.
const Layout = "2006-01-02"

// ErrInvalidDate is returned for empty or malformed dates.
var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD format")

// Parse returns the calendar day for s at midnight in loc (time.Local when
// loc is nil).
func Parse(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(Layout, s, loc)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// MonthYear returns the zero-based month and the year of s.
func MonthYear(s string) (month, year int, err error) {
	t, err := Parse(s, time.UTC)
	if err != nil {
		return 0, 0, err
	}
	return int(t.Month()) - 1, t.Year(), nil
}

// InMonth reports whether s falls in the zero-based month of year.
// Malformed dates are never in any month.
func InMonth(s string, month, year int) bool {
	m, y, err := MonthYear(s)
	return err == nil && m == month && y == year
}

// Format renders t as a storage date using t's own calendar day.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// WeekBounds returns the Sunday and Saturday of the week containing now.
func WeekBounds(now time.Time) (start, end time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start = day.AddDate(0, 0, -int(day.Weekday()))
	end = start.AddDate(0, 0, 6)
	return start, end
}
