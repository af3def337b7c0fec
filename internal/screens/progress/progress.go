// Package progress shows the learner's level, badges, daily challenges and
// practice recommendations.
package progress

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/analytics"
	"github.com/abhisek/harf/internal/gamification"
	"github.com/abhisek/harf/internal/router"
	"github.com/abhisek/harf/internal/screen"
	"github.com/abhisek/harf/internal/screens"
	"github.com/abhisek/harf/internal/ui/components"
	"github.com/abhisek/harf/internal/ui/layout"
	"github.com/abhisek/harf/internal/ui/theme"
)

const maxRecommendations = 3

// Screen is read-only.
type Screen struct {
	env *screens.Env
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the progress screen.
func New(env *screens.Env) *Screen {
	return &Screen{env: env}
}

func (s *Screen) Init() tea.Cmd { return nil }

func (s *Screen) Title() string { return "Progress" }

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "esc", "q", "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *Screen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string
	if s.env.Rewards != nil {
		sections = append(sections, s.renderLevel(cw), s.renderBadges(), s.renderChallenges(cw))
	}
	if s.env.Tracker != nil {
		sections = append(sections, s.renderInsights())
	}
	if len(sections) == 0 {
		sections = append(sections, theme.Hint.Render("Nothing recorded yet."))
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n")))
}

func heading(s string) string {
	return lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(s)
}

func (s *Screen) renderLevel(cw int) string {
	p := s.env.Rewards.Profile()
	lp := s.env.Rewards.LevelProgress()
	reward := gamification.RewardFor(lp.Level)

	lines := []string{
		heading(fmt.Sprintf("Level %d · %s", lp.Level, reward.Title)),
		components.NewProgressBar(fmt.Sprintf("%d/%d XP", lp.XP, lp.Needed), lp.Percent, cw).View(),
		theme.Body.Render(fmt.Sprintf("◆ %d points   ★ %d day streak (best %d)",
			p.TotalPoints, p.Streak.Current, p.Streak.Longest)),
	}
	if len(reward.Unlocks) > 0 {
		lines = append(lines, theme.Hint.Render("Unlocked: "+strings.Join(reward.Unlocks, ", ")))
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderBadges() string {
	earned := s.env.Rewards.Profile().Badges
	lines := []string{heading(fmt.Sprintf("Badges %d/%d", len(earned), len(gamification.AllBadges)))}
	for _, b := range gamification.AllBadges {
		if slices.Contains(earned, b) {
			lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).
				Render(fmt.Sprintf("%s %s", b.Icon(), b.DisplayName())))
		} else {
			lines = append(lines, theme.Hint.Render(fmt.Sprintf("· %s: %s", b.DisplayName(), b.Description())))
		}
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderChallenges(cw int) string {
	lines := []string{heading("Today's challenges")}
	for _, c := range s.env.Rewards.Challenges() {
		label := fmt.Sprintf("%s %d/%d", c.Title, c.Progress, c.Target)
		if c.Completed {
			lines = append(lines, theme.Correct.Render("✓ "+label))
			continue
		}
		pct := 0
		if c.Target > 0 {
			pct = c.Progress * 100 / c.Target
		}
		lines = append(lines, components.NewProgressBar(label, pct, cw).View())
	}
	return strings.Join(lines, "\n")
}

func (s *Screen) renderInsights() string {
	t := s.env.Tracker
	sum := t.Summary(s.env.Clock())
	lines := []string{heading("Insights")}
	if sum.RecentAnswers == 0 {
		return strings.Join(append(lines, theme.Hint.Render("Review a stage to see insights.")), "\n")
	}
	lines = append(lines, theme.Body.Render(fmt.Sprintf("%d answers this week · %d%% correct",
		sum.RecentAnswers, sum.Accuracy)))

	recs := t.Recommendations()
	for i, r := range recs {
		if i == maxRecommendations {
			break
		}
		lines = append(lines, fmt.Sprintf("%s %s", priorityTag(r.Priority), theme.Body.Render(r.Description)))
	}

	if path := t.Path(s.env.Stage); len(path) > 0 {
		lines = append(lines, theme.Hint.Render(fmt.Sprintf("Next: %s (%s)", path[0].Description, path[0].Duration)))
	}
	return strings.Join(lines, "\n")
}

func priorityTag(p analytics.Priority) string {
	switch p {
	case analytics.PriorityHigh:
		return theme.Incorrect.Render("[high]")
	case analytics.PriorityMedium:
		return lipgloss.NewStyle().Foreground(theme.Accent).Render("[medium]")
	default:
		return theme.Hint.Render("[low]")
	}
}
