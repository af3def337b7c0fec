package gamification

import (
	"testing"
	"time"
)

func TestDayStreak_Touch(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 10, 0, 0, 0, time.UTC) }

	var s DayStreak
	s.Touch(day(1))
	if s.Current != 1 || s.LastDay != "2025-03-01" {
		t.Fatalf("first touch = %+v", s)
	}

	s.Touch(day(1).Add(5 * time.Hour))
	if s.Current != 1 {
		t.Errorf("same day touch changed streak: %+v", s)
	}

	s.Touch(day(2))
	s.Touch(day(3))
	if s.Current != 3 || s.Longest != 3 {
		t.Errorf("consecutive days = %+v, want 3/3", s)
	}

	s.Touch(day(6))
	if s.Current != 1 || s.Longest != 3 {
		t.Errorf("after gap = %+v, want current 1 longest 3", s)
	}
}

func TestDayStreak_MonthBoundary(t *testing.T) {
	s := DayStreak{Current: 4, Longest: 4, LastDay: "2025-02-28"}
	s.Touch(time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC))
	if s.Current != 5 {
		t.Errorf("Current = %d, want 5", s.Current)
	}
}
