// Package spacedrep updates item mastery and long-horizon review schedules.
package spacedrep

import (
	"math"
	"time"

	"github.com/abhisek/harf/internal/content"
)

// Params tunes the update rules.
type Params struct {
	BaseInterval     time.Duration
	DefaultEase      float64
	MinEase          float64
	EaseBonus        float64       // added on a correct answer
	EasePenalty      float64       // subtracted on a miss or a slow correct answer
	SlowAnswer       time.Duration // correct answers slower than this lose EasePenalty
	MaxInterval      time.Duration // growth stops here; must stay below ~292 years
	MasteryThreshold int
}

// DefaultMaxInterval caps the review interval at roughly a century.
const DefaultMaxInterval = 100 * 365 * 24 * time.Hour

// DefaultParams returns the standard rules.
func DefaultParams() Params {
	return Params{
		BaseInterval:     content.BaseInterval,
		DefaultEase:      content.DefaultEaseFactor,
		MinEase:          content.MinEaseFactor,
		EaseBonus:        0.1,
		EasePenalty:      0.2,
		SlowAnswer:       5 * time.Second,
		MaxInterval:      DefaultMaxInterval,
		MasteryThreshold: content.MasteryThreshold,
	}
}

// UpdateItem applies an answer to item with the default rules.
func UpdateItem(item content.Item, correct bool, responseTime time.Duration, now time.Time) content.Item {
	return DefaultParams().Update(item, correct, responseTime, now)
}

// Update returns item after an answer. Session mastery and the long-horizon
// schedule are computed independently and merged into the result.
func (p Params) Update(item content.Item, correct bool, responseTime time.Duration, now time.Time) content.Item {
	out := item.Clone()

	// Session track.
	if correct {
		out.Streak++
		if out.Streak >= p.MasteryThreshold {
			out.Mastery = 1
		}
	} else {
		out.Streak = 0
		out.Mastery = 0
	}
	out.LastReviewed = now

	// Long-horizon track.
	ease := item.EaseFactor
	if ease == 0 {
		ease = p.DefaultEase
	}
	if correct {
		prev := item.Interval
		if prev == 0 {
			prev = p.BaseInterval
		}
		limit := p.MaxInterval
		if limit <= 0 || limit > DefaultMaxInterval {
			limit = DefaultMaxInterval
		}
		ms := math.Floor(float64(prev.Milliseconds()) * ease)
		if ms >= float64(limit.Milliseconds()) {
			out.Interval = limit
		} else {
			out.Interval = time.Duration(ms) * time.Millisecond
		}

		delta := p.EaseBonus
		if responseTime > p.SlowAnswer {
			delta -= p.EasePenalty
		}
		out.EaseFactor = math.Max(p.MinEase, ease+delta)
	} else {
		out.Interval = p.BaseInterval
		out.EaseFactor = math.Max(p.MinEase, ease-p.EasePenalty)
	}
	out.NextReview = now.Add(out.Interval)

	return out
}
