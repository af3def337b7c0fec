package session

import (
	"context"
	"testing"
	"time"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/events"
	"github.com/abhisek/harf/internal/store"
)

func TestRecorder_PersistsAnswerAndProgress(t *testing.T) {
	st := openStore(t)
	rec := NewRecorder(st.EventRepo(), st.ProgressRepo(), nil)
	at := time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)

	rec.Observe(events.Outcome{
		SessionID:     "s1",
		Stage:         content.StageAlphabet,
		Difficulty:    content.Beginner,
		Item:          content.Item{ID: "ba", Kind: content.KindLetter, Streak: 1, EaseFactor: 2.6, Interval: 24 * time.Hour, LastReviewed: at, NextReview: at.Add(24 * time.Hour)},
		Correct:       true,
		ResponseTime:  1500 * time.Millisecond,
		Selected:      "ب",
		CorrectAnswer: "ب",
		At:            at,
	})

	ctx := context.Background()
	answers, err := st.EventRepo().QueryAnswerEvents(ctx, store.QueryOpts{SessionID: "s1"})
	if err != nil {
		t.Fatal(err)
	}
	if len(answers) != 1 || answers[0].ItemID != "ba" || !answers[0].Correct || answers[0].ResponseTime != 1500*time.Millisecond {
		t.Fatalf("answers = %+v", answers)
	}

	prog, err := st.ProgressRepo().LoadProgress(ctx, string(content.StageAlphabet))
	if err != nil {
		t.Fatal(err)
	}
	p, ok := prog["ba"]
	if !ok || p.Streak != 1 || p.Interval != 24*time.Hour {
		t.Errorf("progress = %+v, %v", p, ok)
	}
}

func TestDurableMastery_CarriesAcrossSessions(t *testing.T) {
	st := openStore(t)
	cat := testCatalog(t)
	ctx := context.Background()

	// ba was answered correctly once in an earlier session.
	err := st.ProgressRepo().SaveProgress(ctx, store.ItemProgress{Stage: string(content.StageAlphabet), ItemID: "ba", Streak: 1, EaseFactor: 2.5})
	if err != nil {
		t.Fatal(err)
	}

	s, err := New(Options{Catalog: cat, Progress: st.ProgressRepo(), Durable: true, Seed: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(ctx, content.StageAlphabet, content.Beginner); err != nil {
		t.Fatal(err)
	}

	attempts := 0
	for s.Phase() != PhaseSummary {
		cur, _ := s.Current()
		if _, err := s.Answer(ctx, cur.CorrectAnswer()); err != nil {
			t.Fatal(err)
		}
		s.Next(ctx)
		attempts++
	}
	// alif needs two correct answers, ba only one more.
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestSessionScopedMastery_Default(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	st.ProgressRepo().SaveProgress(ctx, store.ItemProgress{Stage: string(content.StageAlphabet), ItemID: "ba", Streak: 1, Mastery: 0})

	s, _ := New(Options{Catalog: testCatalog(t), Progress: st.ProgressRepo(), Seed: 4})
	if err := s.Start(ctx, content.StageAlphabet, content.Beginner); err != nil {
		t.Fatal(err)
	}
	for _, it := range s.Deck().Catalog() {
		if it.Streak != 0 {
			t.Errorf("item %s streak = %d, want 0 without durable mastery", it.ID, it.Streak)
		}
	}
}

func TestDurableMastery_RestartSeesQueuedProgress(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	release := make(chan struct{})
	rec := NewRecorder(st.EventRepo(), st.ProgressRepo(), nil)
	async := events.NewAsync(events.ObserverFunc(func(o events.Outcome) {
		<-release
		rec.Observe(o)
	}), 8, nil)
	defer async.Close()
	bus := events.NewBus(nil)
	bus.Subscribe(async)

	s, err := New(Options{Catalog: testCatalog(t), Bus: bus, Progress: st.ProgressRepo(), Durable: true, Pending: async, Seed: 4})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(ctx, content.StageAlphabet, content.Beginner); err != nil {
		t.Fatal(err)
	}
	cur, _ := s.Current()
	if _, err := s.Answer(ctx, cur.CorrectAnswer()); err != nil {
		t.Fatal(err)
	}

	restarted := make(chan error, 1)
	go func() { restarted <- s.Restart(ctx) }()
	select {
	case <-restarted:
		t.Fatal("Restart loaded progress before the queued answer was stored")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	if err := <-restarted; err != nil {
		t.Fatal(err)
	}

	for _, it := range s.Deck().Catalog() {
		want := 0
		if it.ID == cur.ID {
			want = 1
		}
		if it.Streak != want {
			t.Errorf("item %s streak = %d, want %d", it.ID, it.Streak, want)
		}
	}
}
