package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/content"
	"github.com/abhisek/harf/internal/session"
	"github.com/abhisek/harf/internal/ui/components"
	"github.com/abhisek/harf/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	if s.err != nil {
		return components.Center(
			theme.Incorrect.Render("Could not start review")+"\n\n"+theme.Hint.Render(s.err.Error()),
			width, height)
	}
	if s.sess == nil {
		return ""
	}
	if s.quitConfirm {
		return components.Center(components.Card(
			theme.Body.Bold(true).Render("End this review?")+"\n\n"+
				theme.Hint.Render("Progress so far is kept."),
			components.ContentWidth(width)/2+10), width, height)
	}

	cw := components.ContentWidth(width)
	var b strings.Builder
	b.WriteString(s.renderStatus(cw))
	b.WriteString("\n\n")

	it, ok := s.cardItem()
	if !ok {
		return components.Center(b.String(), width, height)
	}
	b.WriteString(s.renderCard(it, cw))
	b.WriteString("\n\n")

	if res, ok := s.lastResult(); ok {
		b.WriteString(s.renderFeedback(res.Correct, res.CorrectAnswer, res.Retired, res.Recycled, it))
		b.WriteString("\n\n")
	}

	if s.typing {
		b.WriteString(s.input.View())
	} else {
		b.WriteString(lipgloss.NewStyle().Width(cw).Render(s.choices.View()))
	}
	return components.Center(b.String(), width, height)
}

// cardItem is the answered card during feedback and the current card
// otherwise.
func (s *Screen) cardItem() (content.Item, bool) {
	if res, ok := s.lastResult(); ok {
		return res.Item, true
	}
	return s.sess.Current()
}

func (s *Screen) renderStatus(cw int) string {
	st := s.sess.Stats()
	info := theme.Hint.Render(fmt.Sprintf("%s · score %d/%d · accuracy %d%%",
		s.level, st.Score, st.Attempts, st.Accuracy))
	bar := components.NewProgressBar("Mastered", st.MasteryPercent(), cw).View()
	return info + "\n" + bar
}

func (s *Screen) renderCard(it content.Item, cw int) string {
	var b strings.Builder
	if in := it.Instruction(); in != "" {
		b.WriteString(theme.Subtitle.Render(in))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Arabic.Render(it.DisplayText()))
	if it.Kind.IsListening() || it.Kind.IsDictation() {
		b.WriteString("\n" + theme.Hint.Render("ctrl+r to hear it again"))
	}
	return components.Card(b.String(), cw)
}

func (s *Screen) renderFeedback(correct bool, answer string, retired, recycled bool, it content.Item) string {
	var lines []string
	if correct {
		line := "✓ Correct!"
		if s.pointsDelta > 0 {
			line += fmt.Sprintf("  +%d", s.pointsDelta)
		}
		lines = append(lines, theme.Correct.Render(line))
	} else {
		lines = append(lines, theme.Incorrect.Render("✗ The answer is "+answer))
	}
	if h := it.Hint(); h != "" {
		lines = append(lines, theme.Hint.Render(h))
	}
	if retired {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("★ Mastered"))
	}
	if recycled {
		lines = append(lines, theme.Hint.Render("Now revisiting the cards you missed"))
	}
	if s.sess.Phase() == session.PhaseFeedback && s.env.FeedbackDelay <= 0 {
		lines = append(lines, theme.Hint.Render("press any key"))
	}
	return strings.Join(lines, "\n")
}
