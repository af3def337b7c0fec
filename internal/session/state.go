package session

import (
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/stats"
)

// Phase represents the current phase of the session.
type Phase int

const (
	PhaseIdle     Phase = iota // Not started
	PhaseActive                // Serving cards
	PhaseFeedback              // Showing the result of the last answer
	PhaseSummary               // Stage complete
)

func (p Phase) String() string {
	switch p {
	case PhaseActive:
		return "active"
	case PhaseFeedback:
		return "feedback"
	case PhaseSummary:
		return "summary"
	default:
		return "idle"
	}
}

// Summary holds the data displayed when a session ends.
type Summary struct {
	SessionID  string
	Stage      content.StageID
	Difficulty content.Difficulty
	Duration   time.Duration
	Stats      stats.Stats
	Complete   bool
	Points     int
	Awards     []gamification.Award
	NextStage  content.StageID
}
