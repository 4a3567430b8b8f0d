// Package calendar handles dates without a time of day, as used for event and
// booking dates.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire and storage layout of calendar dates.
const Layout = "2006-01-02"

// DateOf drops the time-of-day component, keeping the calendar date as seen
// in t's own location, and returns it as UTC midnight.
func DateOf(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Parse parses a YYYY-MM-DD calendar date.
func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// Format renders t as YYYY-MM-DD.
func Format(t time.Time) string {
	return t.Format(Layout)
}
