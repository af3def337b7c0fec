package gamification

import "time"

// ChallengeKind says what a daily challenge counts.
type ChallengeKind string

const (
	ChallengeCompletion ChallengeKind = "completion"
	ChallengeAccuracy   ChallengeKind = "accuracy"
	ChallengeStreak     ChallengeKind = "streak"
	ChallengeVariety    ChallengeKind = "variety"
	ChallengeSpeed      ChallengeKind = "speed"
)

// ChallengeDef describes one daily challenge.
type ChallengeDef struct {
	ID          string
	Title       string
	Description string
	Kind        ChallengeKind
	Target      int
	XP          int
}

// DailyChallenges is the fixed set regenerated every day.
var DailyChallenges = []ChallengeDef{
	{ID: "daily_practice", Title: "Daily Practice", Description: "Review 10 cards today", Kind: ChallengeCompletion, Target: 10, XP: 50},
	{ID: "accuracy_challenge", Title: "Accuracy Challenge", Description: "Finish a session with 80% accuracy", Kind: ChallengeAccuracy, Target: 80, XP: 75},
	{ID: "streak_builder", Title: "Streak Builder", Description: "Keep a 3-day streak", Kind: ChallengeStreak, Target: 3, XP: 100},
	{ID: "stage_explorer", Title: "Stage Explorer", Description: "Practice 3 different stages", Kind: ChallengeVariety, Target: 3, XP: 60},
	{ID: "speed_demon", Title: "Speed Demon", Description: "Answer 5 cards in under 2 seconds", Kind: ChallengeSpeed, Target: 5, XP: 80},
}

// Challenge is a daily challenge with today's progress.
type Challenge struct {
	ChallengeDef
	Progress  int
	Completed bool
}

func freshChallenges() []Challenge {
	out := make([]Challenge, len(DailyChallenges))
	for i, d := range DailyChallenges {
		out[i] = Challenge{ChallengeDef: d}
	}
	return out
}

func findDef(id string) (ChallengeDef, bool) {
	for _, d := range DailyChallenges {
		if d.ID == id {
			return d, true
		}
	}
	return ChallengeDef{}, false
}

// set moves progress to v, capped at the target. It reports whether the
// challenge became complete.
func (c *Challenge) set(v int) bool {
	if c.Completed {
		return false
	}
	if v > c.Target {
		v = c.Target
	}
	if v > c.Progress {
		c.Progress = v
	}
	if c.Progress >= c.Target {
		c.Completed = true
		return true
	}
	return false
}

const dayLayout = "2006-01-02"

// Day formats t as a calendar day in its own location.
func Day(t time.Time) string {
	return t.Format(dayLayout)
}
