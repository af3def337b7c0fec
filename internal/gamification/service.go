// Package gamification turns answer outcomes into points, badges, levels
// and daily challenges.
package gamification

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/stats"
	"github.com/abhisek/harf/internal/store"
)

const (
	snapshotVersion = 1
	snapshotsKept   = 20
)

// Profile is the learner's long-lived reward state.
type Profile struct {
	TotalPoints   int
	Level         int
	XP            int // carried toward the next level
	TotalXP       int
	Badges        []BadgeID
	Streak        DayStreak
	ChallengeDay  string
	Challenges    []Challenge
	StagesToday   []content.StageID
	VocabMastered int
}

func newProfile() Profile {
	return Profile{Level: 1}
}

func (p Profile) clone() Profile {
	p.Badges = slices.Clone(p.Badges)
	p.Challenges = slices.Clone(p.Challenges)
	p.StagesToday = slices.Clone(p.StagesToday)
	return p
}

// Service owns the profile and reacts to session events. It is safe for
// concurrent use.
type Service struct {
	mu        sync.Mutex
	snapshots store.SnapshotRepo
	logger    *slog.Logger
	now       func() time.Time

	profile  Profile
	earned   map[BadgeID]bool
	sessions map[string]*tally
}

// tally holds the counters of one live session.
type tally struct {
	stage          content.StageID
	start          time.Time
	answerStreak   int
	cardsReviewed  int
	points         int
	listenAttempts int
	listenCorrect  int
	awards         []Award
}

// tallyFor returns the counters for id, creating them on first use.
func (s *Service) tallyFor(id string, now time.Time) *tally {
	t, ok := s.sessions[id]
	if !ok {
		t = &tally{start: now}
		s.sessions[id] = t
	}
	return t
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService returns a service with a fresh level-1 profile. A nil
// snapshot repo keeps everything in memory.
func NewService(snapshots store.SnapshotRepo, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Service{
		snapshots: snapshots,
		logger:    logger,
		now:       time.Now,
		profile:   newProfile(),
		earned:    make(map[BadgeID]bool),
		sessions:  make(map[string]*tally),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load restores the profile from the latest snapshot, if any.
func (s *Service) Load(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snap, err := s.snapshots.Latest(ctx)
	if err != nil {
		return fmt.Errorf("load profile: %w", err)
	}
	if snap == nil || snap.Data.Profile == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profileFromSnapshot(snap.Data.Profile)
	s.earned = make(map[BadgeID]bool, len(s.profile.Badges))
	for _, b := range s.profile.Badges {
		s.earned[b] = true
	}
	return nil
}

// StartSession resets the counters of session id and records today's
// activity. Other live sessions keep their counters.
func (s *Service) StartSession(ctx context.Context, id string, stage content.StageID) {
	s.mu.Lock()
	now := s.now()
	s.rollDay(now)
	t := &tally{stage: stage, start: now}
	s.sessions[id] = t

	s.profile.Streak.Touch(now)
	s.progressChallenge(t, "streak_builder", s.profile.Streak.Current, now)
	if !slices.Contains(s.profile.StagesToday, stage) {
		s.profile.StagesToday = append(s.profile.StagesToday, stage)
	}
	s.progressChallenge(t, "stage_explorer", len(s.profile.StagesToday), now)
	s.checkBadges(t, BadgeInput{DayStreak: s.profile.Streak.Current}, now)
	s.mu.Unlock()

	s.Save(ctx)
}

// Observe scores one answer against the counters of its session. It
// satisfies events.Observer.
func (s *Service) Observe(o events.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := o.At
	if at.IsZero() {
		at = s.now()
	}
	s.rollDay(at)
	t := s.tallyFor(o.SessionID, at)

	if o.Correct {
		t.answerStreak++
	} else {
		t.answerStreak = 0
	}
	pts := Points(o.Difficulty, o.Correct, o.ResponseTime, t.answerStreak)
	s.profile.TotalPoints += pts
	t.points += pts
	t.cardsReviewed++

	if o.Stage == content.StageListening {
		t.listenAttempts++
		if o.Correct {
			t.listenCorrect++
		}
	}
	if o.Retired && content.IsVocabularyStage(o.Stage) {
		s.profile.VocabMastered++
	}

	s.progressChallenge(t, "daily_practice", s.challengeProgress("daily_practice")+1, at)
	if o.Correct && o.ResponseTime < fastAnswer {
		s.progressChallenge(t, "speed_demon", s.challengeProgress("speed_demon")+1, at)
	}

	s.checkBadges(t, BadgeInput{
		AnswerStreak:      t.answerStreak,
		CardsReviewed:     t.cardsReviewed,
		ListeningAttempts: t.listenAttempts,
		ListeningCorrect:  t.listenCorrect,
		VocabMastered:     s.profile.VocabMastered,
		DayStreak:         s.profile.Streak.Current,
	}, at)
}

// Completion describes a finished stage session.
type Completion struct {
	Stage         content.StageID
	Stats         stats.Stats
	TotalMastered int // across the whole catalog
	TotalCards    int
}

// CompleteSession applies end-of-session rewards and persists the profile.
// It returns every award session id earned since StartSession.
func (s *Service) CompleteSession(ctx context.Context, id string, c Completion) []Award {
	s.mu.Lock()
	now := s.now()
	s.rollDay(now)
	t := s.tallyFor(id, now)

	if c.Stats.Accuracy >= 80 {
		s.progressChallenge(t, "accuracy_challenge", 80, now)
	}
	s.checkBadges(t, BadgeInput{
		StageCompleted: true,
		StageMastery:   c.Stats.MasteryPercent(),
		StageTime:      now.Sub(t.start),
		TotalMastered:  c.TotalMastered,
		TotalCards:     c.TotalCards,
		DayStreak:      s.profile.Streak.Current,
	}, now)

	xp := SessionXP(c.Stats.Score, c.Stats.Accuracy)
	t.awards = append(t.awards, Award{
		Kind:      AwardSessionXP,
		XP:        xp,
		Reason:    fmt.Sprintf("Completed %s", content.StageDisplayName(c.Stage)),
		AwardedAt: now,
	})
	s.addXP(t, xp, now)
	awards := slices.Clone(t.awards)
	s.mu.Unlock()

	s.Save(ctx)
	return awards
}

// EndSession drops the counters of session id.
func (s *Service) EndSession(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

// LiveSessions returns how many sessions hold counters.
func (s *Service) LiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// ResetDaily regenerates today's challenges regardless of the stored day.
func (s *Service) ResetDaily(ctx context.Context) {
	s.mu.Lock()
	now := s.now()
	s.profile.ChallengeDay = ""
	s.rollDay(now)
	s.mu.Unlock()

	s.Save(ctx)
}

// Save persists the profile as a snapshot. Failures are logged, not
// returned: rewards never block a session.
func (s *Service) Save(ctx context.Context) {
	if s.snapshots == nil {
		return
	}
	s.mu.Lock()
	data := s.snapshotData()
	s.mu.Unlock()

	snap := &store.Snapshot{Timestamp: s.now(), Data: store.SnapshotData{Version: snapshotVersion, Profile: data}}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		s.logger.Warn("save profile snapshot failed", "error", err)
		return
	}
	if err := s.snapshots.Prune(ctx, snapshotsKept); err != nil {
		s.logger.Warn("prune profile snapshots failed", "error", err)
	}
}

// Profile returns a copy of the current profile.
func (s *Service) Profile() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile.clone()
}

// Challenges returns today's challenges, regenerating them on a new day.
func (s *Service) Challenges() []Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollDay(s.now())
	return slices.Clone(s.profile.Challenges)
}

// LevelProgress reports progress toward the next level.
func (s *Service) LevelProgress() LevelProgress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Progress(s.profile.Level, s.profile.XP)
}

// SessionAwards returns awards session id earned since StartSession.
func (s *Service) SessionAwards(id string) []Award {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.sessions[id]; ok {
		return slices.Clone(t.awards)
	}
	return nil
}

// SessionPoints returns points session id scored since StartSession.
func (s *Service) SessionPoints(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.sessions[id]; ok {
		return t.points
	}
	return 0
}

// AnswerStreak returns the consecutive-correct count of session id.
func (s *Service) AnswerStreak(id string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.sessions[id]; ok {
		return t.answerStreak
	}
	return 0
}

// rollDay regenerates challenges when the calendar day changes.
func (s *Service) rollDay(now time.Time) {
	day := Day(now)
	if s.profile.ChallengeDay == day {
		return
	}
	s.profile.ChallengeDay = day
	s.profile.Challenges = freshChallenges()
	s.profile.StagesToday = nil
}

func (s *Service) challengeProgress(id string) int {
	for _, c := range s.profile.Challenges {
		if c.ID == id {
			return c.Progress
		}
	}
	return 0
}

// progressChallenge records challenge progress. Awards go to t, which is
// nil when no session triggered the change.
func (s *Service) progressChallenge(t *tally, id string, v int, now time.Time) {
	for i := range s.profile.Challenges {
		c := &s.profile.Challenges[i]
		if c.ID != id || !c.set(v) {
			continue
		}
		t.add(Award{
			Kind:      AwardChallenge,
			Challenge: c.ID,
			XP:        c.XP,
			Reason:    fmt.Sprintf("Challenge complete: %s", c.Title),
			AwardedAt: now,
		})
		s.addXP(t, c.XP, now)
	}
}

func (s *Service) checkBadges(t *tally, in BadgeInput, now time.Time) {
	for _, b := range NewBadges(in, s.earned) {
		s.earned[b] = true
		s.profile.Badges = append(s.profile.Badges, b)
		t.add(Award{
			Kind:      AwardBadge,
			Badge:     b,
			Reason:    fmt.Sprintf("Earned %s", b.DisplayName()),
			AwardedAt: now,
		})
		s.logger.Info("badge earned", "badge", string(b))
	}
}

func (s *Service) addXP(t *tally, xp int, now time.Time) {
	if xp <= 0 {
		return
	}
	s.profile.TotalXP += xp
	var crossed []int
	s.profile.Level, s.profile.XP, crossed = addXP(s.profile.Level, s.profile.XP, xp)
	for _, l := range crossed {
		t.add(Award{
			Kind:      AwardLevelUp,
			Level:     l,
			Reason:    fmt.Sprintf("Reached level %d (%s)", l, RewardFor(l).Title),
			AwardedAt: now,
		})
	}
}

func (t *tally) add(a Award) {
	if t != nil {
		t.awards = append(t.awards, a)
	}
}

func (s *Service) snapshotData() *store.ProfileSnapshotData {
	p := s.profile
	d := &store.ProfileSnapshotData{
		TotalPoints:   p.TotalPoints,
		Level:         p.Level,
		XP:            p.XP,
		TotalXP:       p.TotalXP,
		DayStreak:     p.Streak.Current,
		LongestStreak: p.Streak.Longest,
		LastActiveDay: p.Streak.LastDay,
		ChallengeDay:  p.ChallengeDay,
		VocabMastered: p.VocabMastered,
	}
	for _, b := range p.Badges {
		d.Badges = append(d.Badges, string(b))
	}
	for _, c := range p.Challenges {
		d.Challenges = append(d.Challenges, store.ChallengeData{ID: c.ID, Progress: c.Progress, Completed: c.Completed})
	}
	for _, st := range p.StagesToday {
		d.StagesToday = append(d.StagesToday, string(st))
	}
	return d
}

func profileFromSnapshot(d *store.ProfileSnapshotData) Profile {
	p := Profile{
		TotalPoints:   d.TotalPoints,
		Level:         max(d.Level, 1),
		XP:            d.XP,
		TotalXP:       d.TotalXP,
		Streak:        DayStreak{Current: d.DayStreak, Longest: d.LongestStreak, LastDay: d.LastActiveDay},
		ChallengeDay:  d.ChallengeDay,
		VocabMastered: d.VocabMastered,
	}
	for _, b := range d.Badges {
		p.Badges = append(p.Badges, BadgeID(b))
	}
	for _, cd := range d.Challenges {
		def, ok := findDef(cd.ID)
		if !ok {
			continue
		}
		p.Challenges = append(p.Challenges, Challenge{ChallengeDef: def, Progress: cd.Progress, Completed: cd.Completed})
	}
	for _, st := range d.StagesToday {
		p.StagesToday = append(p.StagesToday, content.StageID(st))
	}
	return p
}
