package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/abhisek/harf/internal/content"
)

// Priority orders recommendations.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityMedium
	PriorityHigh
)

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	default:
		return "low"
	}
}

// RecommendationType names the kind of practice suggested.
type RecommendationType string

const (
	TargetedPractice RecommendationType = "targeted_practice"
	MasteryPractice  RecommendationType = "mastery_practice"
	SpeedPractice    RecommendationType = "speed_practice"
)

// Recommendation is a suggested practice focus.
type Recommendation struct {
	Type         RecommendationType
	Priority     Priority
	Description  string
	Pattern      ErrorKey // TargetedPractice only
	Count        int      // TargetedPractice only
	Area         AreaKey  // Mastery and SpeedPractice
	Accuracy     float64  // MasteryPractice only
	ResponseTime time.Duration
}

const (
	patternsConsidered = 3
	patternMinCount    = 3
	masteryMinAttempts = 5
	masteryLowAcc      = 0.7
	masteryVeryLowAcc  = 0.5
	speedMinAttempts   = 3
	speedSlow          = 3 * time.Second
)

// Recommendations returns practice suggestions, highest priority first.
// Ties keep generation order: targeted, then mastery, then speed.
func (t *Tracker) Recommendations() []Recommendation {
	var recs []Recommendation

	patterns := t.ErrorPatterns()
	for _, p := range patterns[:min(len(patterns), patternsConsidered)] {
		if p.Count < patternMinCount {
			continue
		}
		recs = append(recs, Recommendation{
			Type:        TargetedPractice,
			Priority:    PriorityHigh,
			Description: "Practice " + p.Key.Description(),
			Pattern:     p.Key,
			Count:       p.Count,
		})
	}

	areas := t.Areas()
	keys := make([]AreaKey, 0, len(areas))
	for k := range areas {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b AreaKey) int { return cmp.Compare(a.String(), b.String()) })

	for _, k := range keys {
		s := areas[k]
		acc := s.Accuracy()
		if s.Attempts < masteryMinAttempts || acc >= masteryLowAcc {
			continue
		}
		pr := PriorityMedium
		if acc < masteryVeryLowAcc {
			pr = PriorityHigh
		}
		recs = append(recs, Recommendation{
			Type:        MasteryPractice,
			Priority:    pr,
			Description: fmt.Sprintf("Improve %s mastery (current: %d%%)", k, int(math.Round(acc*100))),
			Area:        k,
			Accuracy:    acc,
		})
	}
	for _, k := range keys {
		s := areas[k]
		if s.Attempts < speedMinAttempts || s.AvgResponseTime <= speedSlow {
			continue
		}
		recs = append(recs, Recommendation{
			Type:         SpeedPractice,
			Priority:     PriorityMedium,
			Description:  fmt.Sprintf("Increase speed in %s (avg: %ds)", k, int(math.Round(s.AvgResponseTime.Seconds()))),
			Area:         k,
			ResponseTime: s.AvgResponseTime,
		})
	}

	slices.SortStableFunc(recs, func(a, b Recommendation) int { return cmp.Compare(b.Priority, a.Priority) })
	return recs
}

// StepType names a learning path step.
type StepType string

const (
	StepRemedial    StepType = "remedial"
	StepImprovement StepType = "improvement"
	StepProgressive StepType = "progressive"
)

// Step is one entry of the adaptive learning path.
type Step struct {
	Type           StepType
	Duration       string // short, medium or long
	Description    string
	Recommendation *Recommendation
	Stage          content.StageID // StepProgressive only
}

const maxImprovementSteps = 2

// Path suggests what to do next: every high-priority recommendation as
// remedial work, else up to two medium ones, else the next stage.
func (t *Tracker) Path(current content.StageID) []Step {
	recs := t.Recommendations()

	var path []Step
	for i := range recs {
		if recs[i].Priority != PriorityHigh {
			continue
		}
		path = append(path, Step{
			Type:           StepRemedial,
			Duration:       "short",
			Description:    "Focus on: " + recs[i].Description,
			Recommendation: &recs[i],
		})
	}
	if len(path) > 0 {
		return path
	}

	for i := range recs {
		if recs[i].Priority != PriorityMedium || len(path) == maxImprovementSteps {
			continue
		}
		path = append(path, Step{
			Type:           StepImprovement,
			Duration:       "medium",
			Description:    "Work on: " + recs[i].Description,
			Recommendation: &recs[i],
		})
	}
	if len(path) > 0 {
		return path
	}

	next := content.NextStage(current)
	return []Step{{
		Type:        StepProgressive,
		Duration:    "long",
		Description: "Continue with " + content.StageDisplayName(next),
		Stage:       next,
	}}
}
