// Package analytics mines answer history for error patterns, weak areas,
// and a suggested learning path.
package analytics

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/store"
)

// Answer is one graded response as analytics sees it.
type Answer struct {
	Stage         content.StageID
	Kind          content.Kind
	ItemID        string
	Selected      string
	CorrectAnswer string
	Correct       bool
	ResponseTime  time.Duration
	At            time.Time
}

// ErrorKey identifies a recurring confusion.
type ErrorKey struct {
	Stage    content.StageID
	Kind     content.Kind
	Selected string
	Correct  string
}

// String joins the key fields with underscores.
func (k ErrorKey) String() string {
	return strings.Join([]string{string(k.Stage), string(k.Kind), k.Selected, k.Correct}, "_")
}

// Description renders the confusion for a learner.
func (k ErrorKey) Description() string {
	stage := content.StageDisplayName(k.Stage)
	switch {
	case k.Kind == content.KindLetter:
		return fmt.Sprintf("Confusing %s with %s in %s", k.Selected, k.Correct, stage)
	case k.Kind.IsListening() || k.Kind.IsDictation():
		return fmt.Sprintf("Mishearing %s as %s in %s", k.Selected, k.Correct, stage)
	case strings.Contains(string(k.Kind), "word"):
		return fmt.Sprintf("Confusing word %q with %q", k.Selected, k.Correct)
	default:
		return fmt.Sprintf("Difficulty with %s in %s", k.Kind, stage)
	}
}

// ErrorPattern is a confusion and how often it happened.
type ErrorPattern struct {
	Key   ErrorKey
	Count int
}

// AreaKey groups answers by stage and item kind.
type AreaKey struct {
	Stage content.StageID
	Kind  content.Kind
}

func (k AreaKey) String() string { return string(k.Stage) + "_" + string(k.Kind) }

// AreaStats is the running performance in one area.
type AreaStats struct {
	Attempts        int
	Correct         int
	AvgResponseTime time.Duration
}

// Accuracy returns the correct share in [0, 1].
func (s AreaStats) Accuracy() float64 {
	if s.Attempts == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Attempts)
}

// Tracker accumulates answers. It is safe for concurrent use and
// satisfies events.Observer.
type Tracker struct {
	mu      sync.RWMutex
	history []Answer
	errors  map[ErrorKey]int
	areas   map[AreaKey]AreaStats
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		errors: make(map[ErrorKey]int),
		areas:  make(map[AreaKey]AreaStats),
	}
}

// FromRecords rebuilds a tracker from stored answer events, oldest first.
func FromRecords(recs []store.AnswerEventRecord) *Tracker {
	t := NewTracker()
	for _, r := range recs {
		t.Record(Answer{
			Stage:         content.StageID(r.Stage),
			Kind:          content.Kind(r.Kind),
			ItemID:        r.ItemID,
			Selected:      r.Selected,
			CorrectAnswer: r.CorrectAnswer,
			Correct:       r.Correct,
			ResponseTime:  r.ResponseTime,
			At:            r.Timestamp,
		})
	}
	return t
}

// Observe records a deck outcome.
func (t *Tracker) Observe(o events.Outcome) {
	t.Record(Answer{
		Stage:         o.Stage,
		Kind:          o.Item.Kind,
		ItemID:        o.Item.ID,
		Selected:      o.Selected,
		CorrectAnswer: o.CorrectAnswer,
		Correct:       o.Correct,
		ResponseTime:  o.ResponseTime,
		At:            o.At,
	})
}

// Record adds one answer.
func (t *Tracker) Record(a Answer) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.history = append(t.history, a)
	if !a.Correct {
		t.errors[ErrorKey{Stage: a.Stage, Kind: a.Kind, Selected: a.Selected, Correct: a.CorrectAnswer}]++
	}

	k := AreaKey{Stage: a.Stage, Kind: a.Kind}
	s := t.areas[k]
	total := s.AvgResponseTime*time.Duration(s.Attempts) + a.ResponseTime
	s.Attempts++
	if a.Correct {
		s.Correct++
	}
	s.AvgResponseTime = total / time.Duration(s.Attempts)
	t.areas[k] = s
}

// Len returns the number of recorded answers.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.history)
}

// ErrorPatterns returns confusions, most frequent first.
func (t *Tracker) ErrorPatterns() []ErrorPattern {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]ErrorPattern, 0, len(t.errors))
	for k, n := range t.errors {
		out = append(out, ErrorPattern{Key: k, Count: n})
	}
	slices.SortFunc(out, func(a, b ErrorPattern) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key.String(), b.Key.String())
	})
	return out
}

// Areas returns a copy of the per-area statistics.
func (t *Tracker) Areas() map[AreaKey]AreaStats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[AreaKey]AreaStats, len(t.areas))
	for k, v := range t.areas {
		out[k] = v
	}
	return out
}

// Summary is a rolling view of recent performance.
type Summary struct {
	RecentAnswers int
	Accuracy      int // percent, over the recent window
	StruggleAreas []ErrorPattern
}

const (
	summaryWindow  = 7 * 24 * time.Hour
	summaryMaxRecs = 100
	struggleTop    = 5
)

// Summary covers the last 100 answers within the past week.
func (t *Tracker) Summary(now time.Time) Summary {
	t.mu.RLock()
	var recent []Answer
	cutoff := now.Add(-summaryWindow)
	for _, a := range t.history {
		if a.At.After(cutoff) {
			recent = append(recent, a)
		}
	}
	t.mu.RUnlock()

	if len(recent) > summaryMaxRecs {
		recent = recent[len(recent)-summaryMaxRecs:]
	}
	correct := 0
	for _, a := range recent {
		if a.Correct {
			correct++
		}
	}
	s := Summary{RecentAnswers: len(recent)}
	if len(recent) > 0 {
		s.Accuracy = int(math.Round(float64(correct) / float64(len(recent)) * 100))
	}
	patterns := t.ErrorPatterns()
	s.StruggleAreas = patterns[:min(len(patterns), struggleTop)]
	return s
}
