// Package home is the root screen: stage picker and preferences.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/router"
	"github.com/abhisek/harf/internal/screen"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/screens/progress"
	"github.com/abhisek/harf/internal/ui/components"
	"github.com/abhisek/harf/internal/ui/layout"
	"github.com/abhisek/harf/internal/ui/theme"
)

type cycleDifficultyMsg struct{}

type cycleThemeMsg struct{}

var difficulties = []content.Difficulty{content.Beginner, content.Intermediate, content.Advanced}

// Screen lists the stages and preference toggles.
type Screen struct {
	env  *screens.Env
	menu components.Menu
	due  map[content.StageID]int
	err  string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.Resumer = (*Screen)(nil)

// New builds the home screen.
func New(env *screens.Env) *Screen {
	h := &Screen{env: env}
	h.refresh()
	return h
}

func (h *Screen) Init() tea.Cmd {
	return nil
}

// Resume recounts due items after a review returns here.
func (h *Screen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *Screen) Title() string {
	return "Home"
}

func (h *Screen) refresh() {
	h.due = h.env.DueCounts(context.Background())
	selected := h.menu.Selected
	h.menu = components.NewMenu(h.items())
	if selected < len(h.menu.Items) && !h.menu.Items[selected].Disabled {
		h.menu.Selected = selected
	}
}

func (h *Screen) items() []components.MenuItem {
	var items []components.MenuItem
	for _, stage := range content.AllStages() {
		n := 0
		if its, err := h.env.Catalog.Items(stage); err == nil {
			n = len(its)
		}
		detail := fmt.Sprintf("%d cards", n)
		if d := h.due[stage]; d > 0 {
			detail += fmt.Sprintf(" · %d due", d)
		}
		items = append(items, components.MenuItem{
			Label:    content.StageDisplayName(stage),
			Detail:   detail,
			Disabled: n == 0,
			Action:   h.startAction(stage),
		})
	}

	items = append(items,
		components.MenuItem{
			Label:  "Difficulty: " + string(h.env.Difficulty),
			Action: func() tea.Cmd { return func() tea.Msg { return cycleDifficultyMsg{} } },
		},
		components.MenuItem{
			Label:  "Theme: " + theme.Current(),
			Action: func() tea.Cmd { return func() tea.Msg { return cycleThemeMsg{} } },
		},
		components.MenuItem{
			Label: "Progress",
			Action: func() tea.Cmd {
				next := progress.New(h.env)
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		},
		components.MenuItem{
			Label:  "Quit",
			Action: func() tea.Cmd { return tea.Quit },
		},
	)
	return items
}

func (h *Screen) startAction(stage content.StageID) func() tea.Cmd {
	return func() tea.Cmd {
		level := h.env.Difficulty
		return func() tea.Msg {
			return screens.StartReviewMsg{Stage: stage, Difficulty: level}
		}
	}
}

func (h *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case cycleDifficultyMsg:
		h.env.Difficulty = nextDifficulty(h.env.Difficulty)
		h.refresh()
		return h, nil
	case cycleThemeMsg:
		h.err = ""
		if h.env.Settings != nil {
			if err := theme.Save(context.Background(), h.env.Settings, theme.Next()); err != nil {
				h.err = err.Error()
			}
		} else {
			theme.Apply(theme.Next())
		}
		h.refresh()
		return h, nil
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func nextDifficulty(d content.Difficulty) content.Difficulty {
	for i, v := range difficulties {
		if v == d {
			return difficulties[(i+1)%len(difficulties)]
		}
	}
	return content.Beginner
}

func (h *Screen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Learn to read Arabic"))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render("pick a stage to review"))
	b.WriteString("\n\n")

	if h.env.Rewards != nil {
		lp := h.env.Rewards.LevelProgress()
		bar := components.NewProgressBar(
			fmt.Sprintf("Level %d · %s", lp.Level, gamification.RewardFor(lp.Level).Title),
			lp.Percent, components.ContentWidth(width))
		b.WriteString(bar.View())
		b.WriteString("\n\n")
	}

	b.WriteString(h.menu.View())
	if h.err != "" {
		b.WriteString("\n" + theme.Incorrect.Render(h.err))
	}
	if !layout.IsCompactHeight(height) {
		b.WriteString("\n" + theme.Hint.Render("Cards you miss come back until you know them."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, b.String())
}
