// Package session runs one stage review end to end: it drives the deck,
// times answers, publishes outcomes and records lifecycle events.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/harf/internal/audio"
	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/deck"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/options"
	"github.com/abhisek/harf/internal/spacedrep"
	"github.com/abhisek/harf/internal/stats"
	"github.com/abhisek/harf/internal/store"
)

// ErrNotActive is returned when answering outside the active phase.
var ErrNotActive = errors.New("session not accepting answers")

// Flusher waits until outcomes already published have been stored.
type Flusher interface {
	Flush()
}

// Options wires a session's collaborators. Only Catalog is required.
type Options struct {
	Catalog  *content.Catalog
	Bus      *events.Bus
	Events   store.EventRepo
	Progress store.ProgressRepo
	Rewards  *gamification.Service
	Player   audio.Player
	Logger   *slog.Logger

	// Seed drives shuffles and distractors; 0 picks one at random.
	Seed uint64

	// Durable seeds each deck with stored progress so mastery carries
	// across sessions. Requires Progress.
	Durable bool
	// Pending is flushed before a durable deck loads, so progress written
	// off the answer path is visible to the next pass.
	Pending Flusher

	Params spacedrep.Params
	Now    func() time.Time
}

// Session is a single learner's pass through a stage. It has one writer.
type Session struct {
	id     string
	opts   Options
	deck   *deck.Manager
	logger *slog.Logger

	phase     Phase
	startedAt time.Time
	shownAt   time.Time
	last      *deck.Result
	summary   *Summary
}

// New builds a session. Call Start before answering.
func New(opts Options) (*Session, error) {
	if opts.Catalog == nil {
		return nil, errors.New("session: catalog is required")
	}
	if opts.Durable && opts.Progress == nil {
		return nil, errors.New("session: durable mastery requires a progress repo")
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Params == (spacedrep.Params{}) {
		opts.Params = spacedrep.DefaultParams()
	}
	if opts.Player == nil {
		opts.Player = audio.Nop{}
	}
	seed := opts.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	var provider content.Provider = opts.Catalog
	if opts.Durable {
		provider = &durableProvider{inner: opts.Catalog, progress: opts.Progress}
	}
	rng := options.NewSource(seed)
	gen := options.New(opts.Catalog, options.NewSource(seed+1))

	return &Session{
		opts:   opts,
		deck:   deck.New(provider, gen, rng, deck.WithClock(opts.Now), deck.WithParams(opts.Params)),
		logger: opts.Logger,
	}, nil
}

// Start loads the stage and begins a new session ID.
func (s *Session) Start(ctx context.Context, stage content.StageID, level content.Difficulty) error {
	s.settle()
	if err := s.deck.Initialize(stage, level); err != nil {
		return err
	}
	if s.id != "" && s.opts.Rewards != nil {
		s.opts.Rewards.EndSession(s.id)
	}
	s.id = uuid.NewString()
	s.begin(ctx, store.SessionStart)
	return nil
}

// Restart reshuffles the same stage and difficulty under the same ID.
func (s *Session) Restart(ctx context.Context) error {
	s.settle()
	if err := s.deck.Restart(); err != nil {
		return err
	}
	s.begin(ctx, store.SessionRestart)
	return nil
}

func (s *Session) settle() {
	if s.opts.Durable && s.opts.Pending != nil {
		s.opts.Pending.Flush()
	}
}

func (s *Session) begin(ctx context.Context, action string) {
	now := s.opts.Now()
	s.startedAt = now
	s.shownAt = now
	s.last = nil
	s.summary = nil
	s.phase = PhaseActive

	s.logger.Info("session started", "session", s.id, "stage", s.deck.Stage(), "action", action, "cards", len(s.deck.MainDeck()))
	s.appendSessionEvent(ctx, action, stats.Stats{}, 0)
	if s.opts.Rewards != nil {
		s.opts.Rewards.StartSession(ctx, s.id, s.deck.Stage())
	}

	if s.deck.State() == deck.StateComplete {
		s.finish(ctx)
		s.phase = PhaseSummary
		return
	}
	s.playCurrent(ctx)
}

// Answer grades selected against the current card. The response time is
// measured from when the card was shown.
func (s *Session) Answer(ctx context.Context, selected string) (deck.Result, error) {
	if s.phase != PhaseActive {
		return deck.Result{}, ErrNotActive
	}
	now := s.opts.Now()
	rt := now.Sub(s.shownAt)

	res, err := s.deck.Submit(selected, rt)
	if err != nil {
		return deck.Result{}, err
	}
	s.last = &res
	s.phase = PhaseFeedback

	if s.opts.Bus != nil {
		s.opts.Bus.Publish(events.Outcome{
			SessionID:       s.id,
			Stage:           s.deck.Stage(),
			Difficulty:      s.deck.Difficulty(),
			Item:            res.Item,
			Correct:         res.Correct,
			ResponseTime:    rt,
			Selected:        res.Selected,
			CorrectAnswer:   res.CorrectAnswer,
			Retired:         res.Retired,
			SessionComplete: res.SessionComplete,
			At:              now,
		})
	}
	if res.SessionComplete {
		s.finish(ctx)
	}
	return res, nil
}

// Next leaves the feedback phase and shows the following card, or the
// summary once the stage is complete.
func (s *Session) Next(ctx context.Context) {
	if s.phase != PhaseFeedback {
		return
	}
	if s.summary != nil {
		s.phase = PhaseSummary
		return
	}
	s.phase = PhaseActive
	s.shownAt = s.opts.Now()
	s.playCurrent(ctx)
}

// End stops the session early, recording it as incomplete, and releases
// its reward counters.
func (s *Session) End(ctx context.Context) *Summary {
	if s.summary == nil {
		st := s.deck.Stats()
		dur := s.opts.Now().Sub(s.startedAt)
		s.appendSessionEvent(ctx, store.SessionEnd, st, dur)
		if s.opts.Rewards != nil {
			s.opts.Rewards.Save(ctx)
		}
		s.summary = s.buildSummary(st, dur, false, nil)
		s.phase = PhaseSummary
	}
	if s.opts.Rewards != nil {
		s.opts.Rewards.EndSession(s.id)
	}
	return s.summary
}

func (s *Session) finish(ctx context.Context) {
	st := s.deck.Stats()
	dur := s.opts.Now().Sub(s.startedAt)
	s.appendSessionEvent(ctx, store.SessionEnd, st, dur)

	var awards []gamification.Award
	if s.opts.Rewards != nil {
		mastered, total := s.catalogTotals(ctx, st)
		awards = s.opts.Rewards.CompleteSession(ctx, s.id, gamification.Completion{
			Stage:         s.deck.Stage(),
			Stats:         st,
			TotalMastered: mastered,
			TotalCards:    total,
		})
	}
	s.summary = s.buildSummary(st, dur, true, awards)
	s.logger.Info("session complete", "session", s.id, "stage", s.deck.Stage(), "accuracy", st.Accuracy, "attempts", st.Attempts)
}

func (s *Session) buildSummary(st stats.Stats, dur time.Duration, complete bool, awards []gamification.Award) *Summary {
	sum := &Summary{
		SessionID:  s.id,
		Stage:      s.deck.Stage(),
		Difficulty: s.deck.Difficulty(),
		Duration:   dur,
		Stats:      st,
		Complete:   complete,
		Awards:     awards,
		NextStage:  content.NextStage(s.deck.Stage()),
	}
	if s.opts.Rewards != nil {
		sum.Points = s.opts.Rewards.SessionPoints(s.id)
	}
	return sum
}

// catalogTotals counts mastered cards across every stage. With durable
// progress the stored mastery counts; otherwise only this session's.
func (s *Session) catalogTotals(ctx context.Context, st stats.Stats) (int, int) {
	total := 0
	for _, stage := range s.opts.Catalog.Stages() {
		total += s.opts.Catalog.Count(stage)
	}
	if !s.opts.Durable {
		return st.Mastered, total
	}
	all, err := s.opts.Progress.AllProgress(ctx)
	if err != nil {
		s.logger.Warn("load progress for totals failed", "error", err)
		return st.Mastered, total
	}
	mastered := make(map[string]bool)
	for _, p := range all {
		if p.Mastery == 1 {
			mastered[p.Stage+"/"+p.ItemID] = true
		}
	}
	// The recorder may not have flushed this session yet.
	for _, it := range s.deck.Catalog() {
		if it.IsMastered() {
			mastered[string(s.deck.Stage())+"/"+it.ID] = true
		}
	}
	return min(len(mastered), total), total
}

func (s *Session) appendSessionEvent(ctx context.Context, action string, st stats.Stats, dur time.Duration) {
	if s.opts.Events == nil {
		return
	}
	err := s.opts.Events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:  s.id,
		Action:     action,
		Stage:      string(s.deck.Stage()),
		Difficulty: string(s.deck.Difficulty()),
		Attempts:   st.Attempts,
		Score:      st.Score,
		Accuracy:   st.Accuracy,
		Duration:   dur,
		Timestamp:  s.opts.Now(),
	})
	if err != nil {
		s.logger.Warn("append session event failed", "session", s.id, "action", action, "error", err)
	}
}

func (s *Session) playCurrent(ctx context.Context) {
	if cur, ok := s.deck.Current(); ok {
		s.play(ctx, cur)
	}
}

func (s *Session) play(ctx context.Context, it content.Item) {
	if it.Audio == "" {
		return
	}
	if err := s.opts.Player.Play(ctx, it.Audio); err != nil {
		s.logger.Debug("audio playback skipped", "ref", it.Audio, "error", err)
	}
}

// Replay plays the card on screen again: the answered card during
// feedback, the current card otherwise.
func (s *Session) Replay(ctx context.Context) {
	switch s.phase {
	case PhaseActive:
		s.playCurrent(ctx)
	case PhaseFeedback:
		if s.last != nil {
			s.play(ctx, s.last.Item)
		}
	}
}

// Points returns the points scored in this session.
func (s *Session) Points() int {
	if s.summary != nil {
		return s.summary.Points
	}
	if s.opts.Rewards == nil {
		return 0
	}
	return s.opts.Rewards.SessionPoints(s.id)
}

// ID returns the session ID, empty before Start.
func (s *Session) ID() string { return s.id }

// Phase returns the session phase.
func (s *Session) Phase() Phase { return s.phase }

// Current returns the card being asked.
func (s *Session) Current() (content.Item, bool) { return s.deck.Current() }

// Options returns the current card's options.
func (s *Session) Options() []string { return s.deck.Options() }

// Stats returns live session statistics.
func (s *Session) Stats() stats.Stats { return s.deck.Stats() }

// Stage returns the loaded stage.
func (s *Session) Stage() content.StageID { return s.deck.Stage() }

// Difficulty returns the option difficulty.
func (s *Session) Difficulty() content.Difficulty { return s.deck.Difficulty() }

// LastResult returns the most recent answer result.
func (s *Session) LastResult() (deck.Result, bool) {
	if s.last == nil {
		return deck.Result{}, false
	}
	return *s.last, true
}

// Summary returns the end-of-session summary once the session is over.
func (s *Session) Summary() (*Summary, bool) {
	return s.summary, s.summary != nil
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration { return s.opts.Now().Sub(s.startedAt) }

// Deck exposes the underlying deck for read-only inspection.
func (s *Session) Deck() *deck.Manager { return s.deck }

func (s *Session) String() string {
	return fmt.Sprintf("session %s (%s, %s)", s.id, s.deck.Stage(), s.phase)
}
