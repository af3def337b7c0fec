package spacedrep

import (
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/store"
)

// ReviewState holds the long-horizon schedule for a single item.
type ReviewState struct {
	Stage        content.StageID
	ItemID       string
	Streak       int
	Mastery      int
	EaseFactor   float64
	Interval     time.Duration
	LastReviewed time.Time
	NextReview   time.Time
}

// Key identifies the item across stages.
func (rs *ReviewState) Key() string {
	return string(rs.Stage) + "/" + rs.ItemID
}

// IsDue returns true if the item is due for review (at or past the review date).
func (rs *ReviewState) IsDue(now time.Time) bool {
	return !now.Before(rs.NextReview)
}

// OverdueDays returns how many days past due the item is. Returns 0 if not yet due.
func (rs *ReviewState) OverdueDays(now time.Time) float64 {
	if now.Before(rs.NextReview) {
		return 0
	}
	return now.Sub(rs.NextReview).Hours() / 24.0
}

// IsRustyThreshold returns true once the item is overdue by more than half
// its current interval.
func (rs *ReviewState) IsRustyThreshold(now time.Time) bool {
	if !rs.IsDue(now) {
		return false
	}
	interval := rs.Interval
	if interval <= 0 {
		interval = content.BaseInterval
	}
	return now.After(rs.NextReview.Add(interval / 2))
}

// ReviewStatus describes an item's review status for display.
type ReviewStatus string

const (
	ReviewNotDue   ReviewStatus = "not_due"
	ReviewDue      ReviewStatus = "due"
	ReviewOverdue  ReviewStatus = "overdue"
	ReviewMastered ReviewStatus = "mastered"
)

// Status returns the review status for UI display.
func (rs *ReviewState) Status(now time.Time) ReviewStatus {
	if rs.IsRustyThreshold(now) {
		return ReviewOverdue
	}
	if rs.IsDue(now) {
		return ReviewDue
	}
	if rs.Mastery == 1 {
		return ReviewMastered
	}
	return ReviewNotDue
}

// DaysUntilReview returns the number of days until the next review.
// Returns 0 if already due.
func (rs *ReviewState) DaysUntilReview(now time.Time) int {
	if rs.IsDue(now) {
		return 0
	}
	return int(rs.NextReview.Sub(now).Hours()/24.0) + 1
}

// FromItem captures the schedule carried by an item.
func FromItem(it content.Item) *ReviewState {
	return &ReviewState{
		Stage:        it.Stage,
		ItemID:       it.ID,
		Streak:       it.Streak,
		Mastery:      it.Mastery,
		EaseFactor:   it.EaseFactor,
		Interval:     it.Interval,
		LastReviewed: it.LastReviewed,
		NextReview:   it.NextReview,
	}
}

// FromProgress converts a stored record.
func FromProgress(p store.ItemProgress) *ReviewState {
	return &ReviewState{
		Stage:        content.StageID(p.Stage),
		ItemID:       p.ItemID,
		Streak:       p.Streak,
		Mastery:      p.Mastery,
		EaseFactor:   p.EaseFactor,
		Interval:     p.Interval,
		LastReviewed: p.LastReviewed,
		NextReview:   p.NextReview,
	}
}

// Progress converts the state to its stored form.
func (rs *ReviewState) Progress() store.ItemProgress {
	return store.ItemProgress{
		Stage:        string(rs.Stage),
		ItemID:       rs.ItemID,
		Streak:       rs.Streak,
		Mastery:      rs.Mastery,
		EaseFactor:   rs.EaseFactor,
		Interval:     rs.Interval,
		LastReviewed: rs.LastReviewed,
		NextReview:   rs.NextReview,
	}
}

// Apply copies the stored state onto an item.
func (rs *ReviewState) Apply(it *content.Item) {
	it.Streak = rs.Streak
	it.Mastery = rs.Mastery
	it.EaseFactor = rs.EaseFactor
	it.Interval = rs.Interval
	it.LastReviewed = rs.LastReviewed
	it.NextReview = rs.NextReview
}
