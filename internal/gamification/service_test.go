package gamification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/stats"
	"github.com/abhisek/harf/internal/store"
)

// mockSnapshotRepo implements store.SnapshotRepo for gamification tests.
type mockSnapshotRepo struct {
	saved   []*store.Snapshot
	saveErr error
}

func (m *mockSnapshotRepo) Save(_ context.Context, snap *store.Snapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, snap)
	return nil
}

func (m *mockSnapshotRepo) Latest(_ context.Context) (*store.Snapshot, error) {
	if len(m.saved) == 0 {
		return nil, nil
	}
	return m.saved[len(m.saved)-1], nil
}

func (m *mockSnapshotRepo) Prune(_ context.Context, _ int) error { return nil }

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestService() (*Service, *mockSnapshotRepo, *clock) {
	repo := &mockSnapshotRepo{}
	c := &clock{t: time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)}
	return NewService(repo, nil, WithClock(c.now)), repo, c
}

const testSession = "s1"

func outcome(stage content.StageID, correct bool, rt time.Duration) events.Outcome {
	return events.Outcome{
		SessionID:    testSession,
		Stage:        stage,
		Difficulty:   content.Beginner,
		Correct:      correct,
		ResponseTime: rt,
	}
}

func TestObserve_AccumulatesPoints(t *testing.T) {
	svc, _, _ := newTestService()
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)

	svc.Observe(outcome(content.StageAlphabet, true, 3*time.Second))
	svc.Observe(outcome(content.StageAlphabet, true, 500*time.Millisecond))
	svc.Observe(outcome(content.StageAlphabet, false, time.Second))

	if got := svc.SessionPoints(testSession); got != 30 {
		t.Errorf("SessionPoints() = %d, want 30", got)
	}
	if got := svc.Profile().TotalPoints; got != 30 {
		t.Errorf("TotalPoints = %d, want 30", got)
	}
	if got := svc.AnswerStreak(testSession); got != 0 {
		t.Errorf("AnswerStreak() = %d, want 0 after miss", got)
	}
}

func TestObserve_PerfectStreakBadgeOnce(t *testing.T) {
	svc, _, _ := newTestService()
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)

	for range 25 {
		svc.Observe(outcome(content.StageAlphabet, true, 3*time.Second))
	}

	n := 0
	for _, a := range svc.SessionAwards(testSession) {
		if a.Kind == AwardBadge && a.Badge == BadgePerfectStreak {
			n++
		}
	}
	if n != 1 {
		t.Errorf("perfect_streak awarded %d times, want 1", n)
	}
}

func TestChallenges_DailyPracticeAwardsXPOnce(t *testing.T) {
	svc, _, _ := newTestService()
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)

	for range 15 {
		svc.Observe(outcome(content.StageAlphabet, false, 3*time.Second))
	}

	var practice Challenge
	for _, c := range svc.Challenges() {
		if c.ID == "daily_practice" {
			practice = c
		}
	}
	if !practice.Completed || practice.Progress != 10 {
		t.Errorf("daily_practice = %+v, want completed at 10", practice)
	}

	n := 0
	for _, a := range svc.SessionAwards(testSession) {
		if a.Kind == AwardChallenge && a.Challenge == "daily_practice" {
			n++
		}
	}
	if n != 1 {
		t.Errorf("daily_practice awarded %d times, want 1", n)
	}
	if got := svc.Profile().TotalXP; got != 50 {
		t.Errorf("TotalXP = %d, want 50", got)
	}
}

func TestChallenges_SpeedDemonCountsFastCorrectOnly(t *testing.T) {
	svc, _, _ := newTestService()
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)

	svc.Observe(outcome(content.StageAlphabet, false, time.Second))
	svc.Observe(outcome(content.StageAlphabet, true, 3*time.Second))
	svc.Observe(outcome(content.StageAlphabet, true, time.Second))

	for _, c := range svc.Challenges() {
		if c.ID == "speed_demon" && c.Progress != 1 {
			t.Errorf("speed_demon progress = %d, want 1", c.Progress)
		}
	}
}

func TestChallenges_RegenerateOnNewDay(t *testing.T) {
	svc, _, c := newTestService()
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)
	svc.Observe(outcome(content.StageAlphabet, true, 3*time.Second))

	c.t = c.t.Add(24 * time.Hour)
	for _, ch := range svc.Challenges() {
		if ch.Progress != 0 || ch.Completed {
			t.Errorf("challenge %s carried over: %+v", ch.ID, ch)
		}
	}
	if len(svc.Profile().StagesToday) != 0 {
		t.Errorf("StagesToday not reset")
	}
}

func TestStartSession_StageExplorer(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.StartSession(ctx, testSession, content.StageAlphabet)
	svc.StartSession(ctx, testSession, content.StageAlphabet)
	svc.StartSession(ctx, testSession, content.StageLongVowels)
	svc.StartSession(ctx, testSession, content.StageSimpleWords)

	for _, c := range svc.Challenges() {
		if c.ID == "stage_explorer" && !c.Completed {
			t.Errorf("stage_explorer = %+v, want completed", c)
		}
	}
}

func TestCompleteSession(t *testing.T) {
	svc, repo, c := newTestService()
	ctx := context.Background()
	svc.StartSession(ctx, testSession, content.StageAlphabet)
	c.t = c.t.Add(4 * time.Minute)

	awards := svc.CompleteSession(ctx, testSession, Completion{
		Stage:         content.StageAlphabet,
		Stats:         stats.Stats{Score: 10, Attempts: 12, Accuracy: 83, Total: 5, Mastered: 5},
		TotalMastered: 5,
		TotalCards:    200,
	})

	want := map[BadgeID]bool{BadgeStageMaster: true, BadgeFastLearner: true}
	var gotXP, gotChallenge bool
	for _, a := range awards {
		switch a.Kind {
		case AwardBadge:
			if !want[a.Badge] {
				t.Errorf("unexpected badge %s", a.Badge)
			}
			delete(want, a.Badge)
		case AwardSessionXP:
			gotXP = a.XP == 103
		case AwardChallenge:
			gotChallenge = gotChallenge || a.Challenge == "accuracy_challenge"
		}
	}
	if len(want) != 0 {
		t.Errorf("missing badges %v", want)
	}
	if !gotXP {
		t.Error("missing session XP award of 103")
	}
	if !gotChallenge {
		t.Error("accuracy_challenge not completed")
	}

	// 75 (accuracy) + 103 (session) = 178 -> level 2 with 78 carried.
	p := svc.Profile()
	if p.Level != 2 || p.XP != 78 {
		t.Errorf("level/xp = %d/%d, want 2/78", p.Level, p.XP)
	}
	if len(repo.saved) == 0 {
		t.Error("profile not persisted")
	}
}

func TestLoad_RestoresProfile(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	svc.StartSession(ctx, testSession, content.StageAlphabet)
	for range 20 {
		svc.Observe(outcome(content.StageAlphabet, true, 3*time.Second))
	}
	svc.Save(ctx)

	restored := NewService(repo, nil, WithClock(svc.now))
	if err := restored.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, want := restored.Profile(), svc.Profile()
	if got.TotalPoints != want.TotalPoints || got.Level != want.Level || got.XP != want.XP {
		t.Errorf("restored = %+v, want %+v", got, want)
	}
	if len(got.Badges) != 1 || got.Badges[0] != BadgePerfectStreak {
		t.Errorf("badges = %v", got.Badges)
	}

	// Restored badges are not awarded again.
	restored.StartSession(ctx, testSession, content.StageAlphabet)
	for range 20 {
		restored.Observe(outcome(content.StageAlphabet, true, 3*time.Second))
	}
	for _, a := range restored.SessionAwards(testSession) {
		if a.Kind == AwardBadge && a.Badge == BadgePerfectStreak {
			t.Error("perfect_streak awarded twice across restarts")
		}
	}
}

func TestSave_ErrorIsNotFatal(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.saveErr = errors.New("disk full")
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)
	svc.Observe(outcome(content.StageAlphabet, true, time.Second))
	if svc.Profile().TotalPoints == 0 {
		t.Error("points lost after failed save")
	}
}

func TestNilSnapshotRepo(t *testing.T) {
	svc := NewService(nil, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	svc.StartSession(context.Background(), testSession, content.StageAlphabet)
	svc.Save(context.Background())
}

func TestObserve_VocabularyAndListening(t *testing.T) {
	svc, _, _ := newTestService()
	svc.StartSession(context.Background(), testSession, content.StageListening)

	o := outcome(content.StageSimpleWords, true, 3*time.Second)
	o.Retired = true
	svc.Observe(o)
	svc.Observe(outcome(content.StageAlphabet, true, 3*time.Second))
	if got := svc.Profile().VocabMastered; got != 1 {
		t.Errorf("VocabMastered = %d, want 1", got)
	}

	svc.Observe(outcome(content.StageListening, true, 3*time.Second))
	found := false
	for _, a := range svc.SessionAwards(testSession) {
		found = found || a.Badge == BadgeListeningExpert
	}
	if !found {
		t.Error("listening_expert not awarded at 100% listening accuracy")
	}
}

func TestOverlappingSessions_KeepSeparateCounters(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	answer := func(id string, correct bool) {
		o := outcome(content.StageAlphabet, correct, 3*time.Second)
		o.SessionID = id
		svc.Observe(o)
	}

	svc.StartSession(ctx, "a", content.StageAlphabet)
	answer("a", true)
	svc.StartSession(ctx, "b", content.StageAlphabet)
	answer("b", false)
	answer("a", true)

	if got := svc.SessionPoints("a"); got != 20 {
		t.Errorf("SessionPoints(a) = %d, want 20", got)
	}
	if got := svc.AnswerStreak("a"); got != 2 {
		t.Errorf("AnswerStreak(a) = %d, want 2", got)
	}
	if got := svc.SessionPoints("b"); got != 0 {
		t.Errorf("SessionPoints(b) = %d, want 0", got)
	}

	svc.CompleteSession(ctx, "a", Completion{
		Stage: content.StageAlphabet,
		Stats: stats.Stats{Score: 2, Attempts: 2, Accuracy: 100, Total: 2},
	})
	if got := svc.SessionPoints("a"); got != 20 {
		t.Errorf("SessionPoints(a) after completion = %d, want 20", got)
	}
	for _, a := range svc.SessionAwards("b") {
		if a.Kind == AwardSessionXP {
			t.Errorf("session B received A's completion award %+v", a)
		}
	}
	if got := svc.Profile().TotalPoints; got != 20 {
		t.Errorf("TotalPoints = %d, want 20", got)
	}

	svc.EndSession("a")
	if got := svc.LiveSessions(); got != 1 {
		t.Errorf("LiveSessions() = %d, want 1", got)
	}
	if got := svc.SessionPoints("a"); got != 0 {
		t.Errorf("SessionPoints(a) after EndSession = %d, want 0", got)
	}
}
