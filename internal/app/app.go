// Package app is the root Bubble Tea model for the terminal reviewer.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/harf/internal/router"
	"github.com/abhisek/harf/internal/screen"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/screens/home"
	"github.com/abhisek/harf/internal/screens/review"
	"github.com/abhisek/harf/internal/ui/layout"
)

// Model is the root model. It owns navigation and the frame.
type Model struct {
	env    *screens.Env
	router *router.Router
	width  int
	height int
}

// New creates the model with the home screen at the root.
func New(env *screens.Env) Model {
	return Model{env: env, router: router.New(home.New(env))}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case screens.StartReviewMsg:
		m.env.Stage = msg.Stage
		next := review.New(m.env, msg.Stage, msg.Difficulty)
		if m.router.Depth() > 1 {
			return m, m.router.Update(router.ReplaceScreenMsg{Screen: next})
		}
		return m, m.router.Update(router.PushScreenMsg{Screen: next})
	}

	return m, m.router.Update(msg)
}

// Active returns the screen on top of the stack.
func (m Model) Active() screen.Screen {
	return m.router.Active()
}

func (m Model) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	points, level, streak := m.env.Status()
	header := layout.RenderHeader(active.Title(), layout.Status{Points: points, Level: level, DayStreak: streak}, m.width)

	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	}
	footer := layout.RenderFooter(hints, m.width)

	content := m.router.View(m.width, layout.ContentHeight(m.height))
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the program and blocks until the learner quits or ctx ends.
func Run(ctx context.Context, env *screens.Env) error {
	p := tea.NewProgram(New(env), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal app: %w", err)
	}
	return nil
}
