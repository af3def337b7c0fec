package spacedrep

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/store"
)

// Scheduler tracks long-horizon review state for future sessions.
type Scheduler struct {
	reviews map[string]*ReviewState
}

// NewScheduler creates a scheduler seeded from stored progress.
func NewScheduler(progress []store.ItemProgress) *Scheduler {
	s := &Scheduler{reviews: make(map[string]*ReviewState, len(progress))}
	for _, p := range progress {
		rs := FromProgress(p)
		s.reviews[rs.Key()] = rs
	}
	return s
}

// LoadScheduler reads every stored progress record.
func LoadScheduler(ctx context.Context, repo store.ProgressRepo) (*Scheduler, error) {
	progress, err := repo.AllProgress(ctx)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	return NewScheduler(progress), nil
}

// Record replaces the review state with the one carried by an updated item.
func (s *Scheduler) Record(it content.Item) *ReviewState {
	rs := FromItem(it)
	s.reviews[rs.Key()] = rs
	return rs
}

// DueItems returns items due for review, most overdue first. An empty
// stage matches every stage.
func (s *Scheduler) DueItems(now time.Time, stage content.StageID) []*ReviewState {
	var due []*ReviewState
	for _, rs := range s.reviews {
		if stage != "" && rs.Stage != stage {
			continue
		}
		if rs.IsDue(now) {
			due = append(due, rs)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		oi, oj := due[i].OverdueDays(now), due[j].OverdueDays(now)
		if oi != oj {
			return oi > oj
		}
		return due[i].Key() < due[j].Key()
	})
	return due
}

// GetReviewState returns the review state for an item key, or nil if not tracked.
func (s *Scheduler) GetReviewState(key string) *ReviewState {
	return s.reviews[key]
}

// Len returns the number of tracked items.
func (s *Scheduler) Len() int {
	return len(s.reviews)
}

// Progress exports the tracked state for persistence, ordered by key.
func (s *Scheduler) Progress() []store.ItemProgress {
	keys := make([]string, 0, len(s.reviews))
	for k := range s.reviews {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]store.ItemProgress, len(keys))
	for i, k := range keys {
		out[i] = s.reviews[k].Progress()
	}
	return out
}
