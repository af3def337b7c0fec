package gamification

import "time"

// DayStreak tracks consecutive days of practice.
type DayStreak struct {
	Current int
	Longest int
	LastDay string // YYYY-MM-DD
}

// Touch records activity on today. Same day is a no-op, the day after the
// last active day extends the streak, and any gap restarts it at 1.
func (d *DayStreak) Touch(today time.Time) {
	day := Day(today)
	if d.LastDay == day {
		return
	}
	if d.LastDay != "" && Day(today.AddDate(0, 0, -1)) == d.LastDay {
		d.Current++
	} else {
		d.Current = 1
	}
	d.LastDay = day
	if d.Current > d.Longest {
		d.Longest = d.Current
	}
}
