// Package screens holds what the terminal screens share: the collaborators
// a review needs and the current learner preferences.
package screens

import (
	"context"
	"log/slog"
	"time"

	"github.com/abhisek/harf/internal/analytics"
	"github.com/abhisek/harf/internal/audio"
	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/spacedrep"
	"github.com/abhisek/harf/internal/store"
)

// Env is passed by pointer to every screen so preference changes are seen
// everywhere.
type Env struct {
	Catalog  *content.Catalog
	Bus      *events.Bus
	Events   store.EventRepo
	Progress store.ProgressRepo
	Settings store.KV
	Rewards  *gamification.Service
	Tracker  *analytics.Tracker
	Player   audio.Player
	Logger   *slog.Logger
	Pending  session.Flusher

	Seed    uint64
	Durable bool
	Params  spacedrep.Params

	Stage         content.StageID
	Difficulty    content.Difficulty
	FeedbackDelay time.Duration

	Now func() time.Time
}

// NewSession builds an unstarted session from the environment.
func (e *Env) NewSession() (*session.Session, error) {
	return session.New(session.Options{
		Catalog:  e.Catalog,
		Bus:      e.Bus,
		Events:   e.Events,
		Progress: e.Progress,
		Rewards:  e.Rewards,
		Player:   e.Player,
		Logger:   e.Logger,
		Seed:     e.Seed,
		Durable:  e.Durable,
		Pending:  e.Pending,
		Params:   e.Params,
		Now:      e.Now,
	})
}

// DueCounts returns how many stored items are due per stage.
func (e *Env) DueCounts(ctx context.Context) map[content.StageID]int {
	out := make(map[content.StageID]int)
	if e.Progress == nil {
		return out
	}
	sched, err := spacedrep.LoadScheduler(ctx, e.Progress)
	if err != nil {
		e.logger().Warn("load review schedule failed", "error", err)
		return out
	}
	for _, rs := range sched.DueItems(e.Clock(), "") {
		out[rs.Stage]++
	}
	return out
}

// Status is the learner state for the header.
func (e *Env) Status() (points, level, streak int) {
	if e.Rewards == nil {
		return 0, 1, 0
	}
	p := e.Rewards.Profile()
	return p.TotalPoints, p.Level, p.Streak.Current
}

// Clock returns the current time from Now, or time.Now when unset.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// StartReviewMsg asks the app to open a review of Stage. From the home
// screen it is pushed; from any other screen it replaces the top.
type StartReviewMsg struct {
	Stage      content.StageID
	Difficulty content.Difficulty
}
