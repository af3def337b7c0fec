// Package review is the card-by-card review screen.
package review

import (
	"context"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/deck"
	"github.com/abhisek/harf/internal/router"
	"github.com/abhisek/harf/internal/screen"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/screens/summary"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/ui/components"
	"github.com/abhisek/harf/internal/ui/layout"
)

// feedbackDoneMsg ends the feedback pause for the answer numbered seq.
type feedbackDoneMsg struct {
	seq int
}

// Screen drives one session.
type Screen struct {
	env   *screens.Env
	stage content.StageID
	level content.Difficulty
	keys  keyMap

	sess        *session.Session
	choices     components.Choices
	input       components.AnswerInput
	typing      bool
	quitConfirm bool
	seq         int
	pointsDelta int
	err         error
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New returns a review of stage at the given difficulty. The session is
// started by Init.
func New(env *screens.Env, stage content.StageID, level content.Difficulty) *Screen {
	return &Screen{env: env, stage: stage, level: level, keys: defaultKeys()}
}

func (s *Screen) Init() tea.Cmd {
	sess, err := s.env.NewSession()
	if err != nil {
		s.err = err
		return nil
	}
	if err := sess.Start(context.Background(), s.stage, s.level); err != nil {
		s.err = err
		return nil
	}
	s.sess = sess
	if sess.Phase() == session.PhaseSummary {
		return s.toSummary()
	}
	return s.loadCard()
}

func (s *Screen) Title() string {
	return content.StageDisplayName(s.stage)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	switch {
	case s.err != nil:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.quitConfirm:
		return hints(s.keys.Yes, s.keys.No)
	case s.sess != nil && s.sess.Phase() == session.PhaseFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	case s.typing:
		return hints(s.keys.Submit, s.keys.Type, s.keys.Replay, s.keys.Quit)
	}
	return append([]layout.KeyHint{{Key: "1-3", Description: "Choose"}},
		hints(s.keys.Type, s.keys.Replay, s.keys.Quit)...)
}

func hints(bs ...key.Binding) []layout.KeyHint {
	out := make([]layout.KeyHint, len(bs))
	for i, b := range bs {
		out[i] = layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc}
	}
	return out
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case feedbackDoneMsg:
		if msg.seq != s.seq || s.sess == nil || s.sess.Phase() != session.PhaseFeedback {
			return s, nil
		}
		return s, s.advance()

	case components.ChoiceMsg:
		return s, s.submit(msg.Value)

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}

	if s.typing {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyMsg) tea.Cmd {
	ctx := context.Background()

	if s.err != nil || s.sess == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}

	if s.quitConfirm {
		switch {
		case key.Matches(msg, s.keys.Yes):
			s.quitConfirm = false
			return s.toSummary()
		case key.Matches(msg, s.keys.No):
			s.quitConfirm = false
		}
		return nil
	}

	switch s.sess.Phase() {
	case session.PhaseFeedback:
		return s.advance()
	case session.PhaseActive:
	default:
		return nil
	}

	switch {
	case key.Matches(msg, s.keys.Quit):
		s.quitConfirm = true
		return nil
	case key.Matches(msg, s.keys.Replay):
		s.sess.Replay(ctx)
		return nil
	case key.Matches(msg, s.keys.Type):
		s.typing = !s.typing
		if s.typing {
			return s.input.Init()
		}
		return nil
	}

	if s.typing {
		if key.Matches(msg, s.keys.Submit) {
			if v := s.input.Value(); v != "" {
				return s.submit(v)
			}
			return nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	s.choices, cmd = s.choices.Update(msg)
	return cmd
}

func (s *Screen) submit(value string) tea.Cmd {
	if s.sess == nil || s.sess.Phase() != session.PhaseActive {
		return nil
	}
	before := s.points()
	res, err := s.sess.Answer(context.Background(), value)
	if err != nil {
		s.err = err
		return nil
	}
	s.pointsDelta = s.points() - before
	s.choices.Reveal(value, res.CorrectAnswer)
	s.input.Submit(res.Correct)

	s.seq++
	if s.env.FeedbackDelay <= 0 {
		return nil
	}
	seq := s.seq
	return tea.Tick(s.env.FeedbackDelay, func(time.Time) tea.Msg {
		return feedbackDoneMsg{seq: seq}
	})
}

func (s *Screen) advance() tea.Cmd {
	s.sess.Next(context.Background())
	if s.sess.Phase() == session.PhaseSummary {
		return s.toSummary()
	}
	return s.loadCard()
}

func (s *Screen) loadCard() tea.Cmd {
	s.choices = components.NewChoices(s.sess.Options())
	s.input = components.NewAnswerInput("Type the answer...", 64)
	s.pointsDelta = 0
	if s.typing {
		return s.input.Init()
	}
	return nil
}

// toSummary ends the session, which keeps a completed summary, and shows it.
func (s *Screen) toSummary() tea.Cmd {
	sum := s.sess.End(context.Background())
	if sum == nil {
		return func() tea.Msg { return router.PopScreenMsg{} }
	}
	next := summary.New(s.env, sum)
	return func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) points() int {
	if s.sess == nil {
		return 0
	}
	return s.sess.Points()
}

// lastResult is the answer being shown as feedback.
func (s *Screen) lastResult() (deck.Result, bool) {
	if s.sess == nil || s.sess.Phase() != session.PhaseFeedback {
		return deck.Result{}, false
	}
	return s.sess.LastResult()
}
