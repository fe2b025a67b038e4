package week

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 30, 0, 0, time.UTC)
}

func TestTarget(t *testing.T) {
	t.Run("MidWeek", func(t *testing.T) {
		// 2025-01-01 is a Wednesday.
		got := Target(date(2025, time.January, 1), 0)
		want := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
		if !got.Monday.Equal(want) {
			t.Errorf("Expected Monday %v, got %v", want, got.Monday)
		}
		if !got.Sunday.Equal(want.AddDate(0, 0, 6)) {
			t.Errorf("Expected Sunday %v, got %v", want.AddDate(0, 0, 6), got.Sunday)
		}
	})

	t.Run("RunOnMondayTargetsNextMonday", func(t *testing.T) {
		// 2025-01-06 is a Monday; the target is the following one.
		got := Target(date(2025, time.January, 6), 0)
		want := time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC)
		if !got.Monday.Equal(want) {
			t.Errorf("Expected Monday %v, got %v", want, got.Monday)
		}
	})

	t.Run("RunOnSunday", func(t *testing.T) {
		// 2025-01-05 is a Sunday; the upcoming Monday is tomorrow.
		got := Target(date(2025, time.January, 5), 0)
		want := time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)
		if !got.Monday.Equal(want) {
			t.Errorf("Expected Monday %v, got %v", want, got.Monday)
		}
	})

	t.Run("AlwaysStrictlyAheadAndAtMostSevenDays", func(t *testing.T) {
		for day := 0; day < 7; day++ {
			now := date(2025, time.March, 10+day)
			got := Target(now, 0)
			if !got.Monday.After(now) {
				t.Errorf("now=%v: Monday %v is not strictly after now", now, got.Monday)
			}
			if got.Monday.Sub(now) > 7*24*time.Hour {
				t.Errorf("now=%v: Monday %v is more than seven days out", now, got.Monday)
			}
			if got.Monday.Weekday() != time.Monday {
				t.Errorf("now=%v: target start %v is not a Monday", now, got.Monday.Weekday())
			}
		}
	})

	t.Run("OffsetShiftsBySevenDays", func(t *testing.T) {
		now := date(2025, time.January, 1)
		base := Target(now, 0)
		next := Target(now, 1)
		if !next.Monday.Equal(base.Monday.AddDate(0, 0, 7)) {
			t.Errorf("Expected offset 1 Monday to be %v, got %v", base.Monday.AddDate(0, 0, 7), next.Monday)
		}
	})
}

func TestLabel(t *testing.T) {
	t.Run("CurrentWeek", func(t *testing.T) {
		if got := Label(date(2025, time.January, 1), 0); got != "2025-W01" {
			t.Errorf("Expected 2025-W01, got %s", got)
		}
	})

	t.Run("Offset", func(t *testing.T) {
		if got := Label(date(2025, time.January, 1), 1); got != "2025-W02" {
			t.Errorf("Expected 2025-W02, got %s", got)
		}
	})

	t.Run("YearBoundary", func(t *testing.T) {
		// 2024-12-30 belongs to ISO week 1 of 2025.
		if got := Label(date(2024, time.December, 30), 0); got != "2025-W01" {
			t.Errorf("Expected 2025-W01, got %s", got)
		}
	})
}
