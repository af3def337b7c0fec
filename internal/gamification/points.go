package gamification

import (
	"time"

	"github.com/abhisek/harf/internal/content"
)

const (
	basePoints  = 10
	fastBonus   = 5
	fastAnswer  = 2 * time.Second
	rapidAnswer = time.Second
)

// Points scores one answer. Streak is the consecutive-correct count
// including this answer.
func Points(level content.Difficulty, correct bool, rt time.Duration, streak int) int {
	if !correct {
		return 0
	}
	pts := float64(basePoints)
	if rt < fastAnswer {
		pts += fastBonus
	}
	if rt < rapidAnswer {
		pts += fastBonus
	}

	// Multipliers stack.
	if streak >= 5 {
		pts *= 1.5
	}
	if streak >= 10 {
		pts *= 2
	}
	if streak >= 20 {
		pts *= 3
	}

	switch level {
	case content.Intermediate:
		pts *= 1.5
	case content.Advanced:
		pts *= 2
	}
	return int(pts)
}
