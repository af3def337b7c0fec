// Package summary shows the result of a finished or abandoned review.
package summary

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/router"
	"github.com/abhisek/harf/internal/screen"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/ui/components"
	"github.com/abhisek/harf/internal/ui/layout"
	"github.com/abhisek/harf/internal/ui/theme"
)

// Screen renders a session summary.
type Screen struct {
	env     *screens.Env
	summary *session.Summary
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates a summary screen.
func New(env *screens.Env, summary *session.Summary) *Screen {
	return &Screen{env: env, summary: summary}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return "Review Summary"
}

// canAdvance reports whether a following stage exists to move on to.
func (s *Screen) canAdvance() bool {
	return s.summary.Complete && s.summary.NextStage != s.summary.Stage
}

func (s *Screen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Home"},
		{Key: "R", Description: "Review again"},
	}
	if s.canAdvance() {
		hints = append(hints, layout.KeyHint{Key: "N", Description: "Next stage"})
	}
	return hints
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	switch kmsg.String() {
	case "enter", "esc":
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	case "r", "R":
		return s, s.start(s.summary.Stage)
	case "n", "N":
		if s.canAdvance() {
			return s, s.start(s.summary.NextStage)
		}
	}
	return s, nil
}

func (s *Screen) start(stage content.StageID) tea.Cmd {
	level := s.summary.Difficulty
	return func() tea.Msg {
		return screens.StartReviewMsg{Stage: stage, Difficulty: level}
	}
}

func (s *Screen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}
	center := func(str string) string { return lipgloss.PlaceHorizontal(width, lipgloss.Center, str) }

	var b strings.Builder
	heading := "Stage complete!"
	if !sum.Complete {
		heading = "Review ended"
	}
	b.WriteString(center(theme.Title.Render(heading)))
	b.WriteString("\n")
	b.WriteString(center(theme.Subtitle.Render(content.StageDisplayName(sum.Stage) + " · " + string(sum.Difficulty))))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	st := sum.Stats
	b.WriteString(center(theme.Body.Render(fmt.Sprintf(
		"Time %d:%02d      Score %d/%d      Accuracy %d%%",
		mins, secs, st.Score, st.Attempts, st.Accuracy))))
	b.WriteString("\n\n")

	cw := components.ContentWidth(width)
	b.WriteString(center(components.NewProgressBar(
		fmt.Sprintf("Mastered %d/%d", st.Mastered, st.Total), st.MasteryPercent(), cw).View()))
	b.WriteString("\n")
	if sum.Points > 0 {
		b.WriteString("\n")
		b.WriteString(center(lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("◆ %d points this review", sum.Points))))
		b.WriteString("\n")
	}

	if len(sum.Awards) > 0 {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render("Rewards")))
		b.WriteString("\n")
		b.WriteString(center(divider))
		b.WriteString("\n")
		for _, a := range sum.Awards {
			b.WriteString(center(lipgloss.NewStyle().Foreground(awardColor(a.Kind)).Render(awardLine(a))))
			b.WriteString("\n")
		}
	}

	if s.canAdvance() {
		b.WriteString("\n")
		b.WriteString(center(theme.Hint.Render("Up next: " + content.StageDisplayName(sum.NextStage))))
	}
	return b.String()
}

func awardLine(a gamification.Award) string {
	switch a.Kind {
	case gamification.AwardBadge:
		return fmt.Sprintf("%s %s · %s", a.Badge.Icon(), a.Badge.DisplayName(), a.Badge.Description())
	case gamification.AwardLevelUp:
		return fmt.Sprintf("▲ Level %d · %s", a.Level, gamification.RewardFor(a.Level).Title)
	case gamification.AwardChallenge:
		return fmt.Sprintf("✓ %s · +%d XP", a.Reason, a.XP)
	default:
		return fmt.Sprintf("+%d XP · %s", a.XP, a.Reason)
	}
}

func awardColor(k gamification.AwardKind) color.Color {
	switch k {
	case gamification.AwardBadge:
		return theme.Accent
	case gamification.AwardLevelUp:
		return theme.Primary
	case gamification.AwardChallenge:
		return theme.Success
	default:
		return theme.Text
	}
}
