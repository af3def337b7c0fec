package review

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/router"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/screens/summary"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/ui/components"
)

func testEnv(t *testing.T, items ...content.Item) *screens.Env {
	t.Helper()
	cat, err := content.NewCatalog(content.StageFile{Stage: content.StageAlphabet, Items: items})
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return &screens.Env{
		Catalog:       cat,
		Seed:          7,
		FeedbackDelay: time.Second,
	}
}

func press(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func started(t *testing.T, env *screens.Env) *Screen {
	t.Helper()
	s := New(env, content.StageAlphabet, content.Beginner)
	s.Init()
	if s.err != nil {
		t.Fatalf("Init: %v", s.err)
	}
	return s
}

func TestReview_FullPassEndsInSummary(t *testing.T) {
	env := testEnv(t, content.Item{ID: "alif", Kind: content.KindLetter, Letter: "ا"})
	s := started(t, env)

	for i := 0; i < 2; i++ {
		if s.sess.Phase() != session.PhaseActive {
			t.Fatalf("answer %d: phase = %s, want active", i, s.sess.Phase())
		}
		_, cmd := s.Update(components.ChoiceMsg{Value: "ا"})
		if cmd == nil {
			t.Fatalf("answer %d: expected feedback tick", i)
		}
		if s.sess.Phase() != session.PhaseFeedback {
			t.Fatalf("answer %d: phase = %s, want feedback", i, s.sess.Phase())
		}

		_, cmd = s.Update(feedbackDoneMsg{seq: s.seq})
		if i == 0 {
			if cmd != nil {
				if _, ok := cmd().(router.ReplaceScreenMsg); ok {
					t.Fatal("summary shown before the card was mastered")
				}
			}
			continue
		}
		if cmd == nil {
			t.Fatal("expected navigation to summary")
		}
		msg, ok := cmd().(router.ReplaceScreenMsg)
		if !ok {
			t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
		}
		if _, ok := msg.Screen.(*summary.Screen); !ok {
			t.Errorf("expected summary screen, got %T", msg.Screen)
		}
	}
}

func TestReview_StaleFeedbackTickIgnored(t *testing.T) {
	env := testEnv(t,
		content.Item{ID: "alif", Kind: content.KindLetter, Letter: "ا"},
		content.Item{ID: "ba", Kind: content.KindLetter, Letter: "ب"},
	)
	s := started(t, env)

	s.Update(components.ChoiceMsg{Value: "nope"})
	stale := s.seq - 1
	s.Update(feedbackDoneMsg{seq: stale})
	if s.sess.Phase() != session.PhaseFeedback {
		t.Errorf("stale tick advanced the card, phase = %s", s.sess.Phase())
	}

	// Any key skips the pause.
	s.Update(press('x'))
	if s.sess.Phase() != session.PhaseActive {
		t.Errorf("key press should advance, phase = %s", s.sess.Phase())
	}
}

func TestReview_NumberKeySubmits(t *testing.T) {
	env := testEnv(t, content.Item{ID: "alif", Kind: content.KindLetter, Letter: "ا"})
	s := started(t, env)

	_, cmd := s.Update(press('1'))
	if cmd == nil {
		t.Fatal("expected choice command")
	}
	s.Update(cmd())
	res, ok := s.sess.LastResult()
	if !ok || !res.Correct {
		t.Errorf("LastResult = %+v, %v; want correct", res, ok)
	}
}

func TestReview_QuitConfirm(t *testing.T) {
	env := testEnv(t, content.Item{ID: "alif", Kind: content.KindLetter, Letter: "ا"})
	s := started(t, env)

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	if !s.quitConfirm {
		t.Fatal("expected quit confirmation")
	}
	s.Update(press('n'))
	if s.quitConfirm {
		t.Fatal("expected confirmation dismissed")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	_, cmd := s.Update(press('y'))
	if cmd == nil {
		t.Fatal("expected navigation after ending")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	sum, _ := s.sess.Summary()
	if sum == nil || sum.Complete {
		t.Errorf("summary = %+v, want incomplete", sum)
	}
	if msg.Screen.Title() != "Review Summary" {
		t.Errorf("Title = %q", msg.Screen.Title())
	}
}

func TestReview_TypedAnswer(t *testing.T) {
	env := testEnv(t, content.Item{ID: "alif", Kind: content.KindLetter, Letter: "ا"})
	s := started(t, env)

	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	if !s.typing {
		t.Fatal("tab should switch to typing")
	}
	s.input.Model.SetValue("ا")
	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})

	res, ok := s.sess.LastResult()
	if !ok || !res.Correct {
		t.Errorf("LastResult = %+v, %v; want correct", res, ok)
	}
}

func TestReview_EmptyStageGoesToSummary(t *testing.T) {
	env := testEnv(t)
	s := New(env, content.StageAlphabet, content.Beginner)
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected navigation for an empty stage")
	}
	if _, ok := cmd().(router.ReplaceScreenMsg); !ok {
		t.Errorf("expected ReplaceScreenMsg, got %T", cmd())
	}
}

func TestReview_UnknownStageShowsError(t *testing.T) {
	env := testEnv(t, content.Item{ID: "alif", Kind: content.KindLetter, Letter: "ا"})
	s := New(env, content.StageID("nope"), content.Beginner)
	s.Init()
	if s.err == nil {
		t.Fatal("expected an error for an unknown stage")
	}
	_, cmd := s.Update(press('x'))
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("any key should leave the error screen")
	}
}
