// Package stats derives session statistics from deck state.
package stats

import (
	"math"

	"github.com/abhisek/harf/internal/content"
)

// Input is the deck state statistics are derived from.
type Input struct {
	Score      int
	Attempts   int
	MainDeck   int
	WrongStack int

	// Catalog is the full content set for the stage.
	Catalog []content.Item
}

// Stats is the display view of a session.
type Stats struct {
	Score     int `json:"score"`
	Attempts  int `json:"attempts"`
	Accuracy  int `json:"accuracy"`
	Remaining int `json:"remaining_cards"`
	Total     int `json:"total_cards"`
	Mastered  int `json:"mastered_cards"`
}

// Compute derives Stats. It never stores anything.
func Compute(in Input) Stats {
	mastered := 0
	for i := range in.Catalog {
		if in.Catalog[i].IsMastered() {
			mastered++
		}
	}
	return Stats{
		Score:     in.Score,
		Attempts:  in.Attempts,
		Accuracy:  Accuracy(in.Score, in.Attempts),
		Remaining: in.MainDeck + in.WrongStack,
		Total:     len(in.Catalog),
		Mastered:  mastered,
	}
}

// Accuracy returns round(score/attempts*100), or 0 with no attempts.
func Accuracy(score, attempts int) int {
	if attempts <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(attempts) * 100))
}

// MasteryPercent returns the share of the catalog mastered, rounded.
func (s Stats) MasteryPercent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Mastered) / float64(s.Total) * 100))
}
