package week

import (
	"fmt"
	"time"
)

// Week is the Monday-to-Sunday span a planning run targets.
type Week struct {
	Monday time.Time
	Sunday time.Time
}

// Target returns the upcoming Monday-started week, offset weeks ahead.
// Offset 0 is the next week to start: its Monday is strictly after now and at
// most seven days out, so running on a Monday plans the following Monday.
func Target(now time.Time, offset int) Week {
	days := 7 - mondayIndex(now.Weekday()) + offset*7
	monday := now.AddDate(0, 0, days)
	monday = time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, monday.Location())
	return Week{Monday: monday, Sunday: monday.AddDate(0, 0, 6)}
}

// Label returns the ISO week label the provider's menu URL expects
// (e.g. "2026-W09") for the calendar week offset weeks from now. Note this is
// the week containing now, not the week Target returns.
func Label(now time.Time, offset int) string {
	year, wk := now.AddDate(0, 0, offset*7).ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, wk)
}

// mondayIndex maps time.Weekday (Sunday = 0) onto a Monday-based index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}
