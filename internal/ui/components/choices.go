package components

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/ui/theme"
)

// ChoiceKeys are the bindings Choices responds to.
type ChoiceKeys struct {
	Up     key.Binding
	Down   key.Binding
	Choose key.Binding
}

// DefaultChoiceKeys returns arrow/vim navigation with enter to choose.
func DefaultChoiceKeys() ChoiceKeys {
	return ChoiceKeys{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Choose: key.NewBinding(key.WithKeys("enter", "space"), key.WithHelp("enter", "choose")),
	}
}

// ChoiceMsg is emitted when the learner picks an option.
type ChoiceMsg struct {
	Value string
}

// Choices is a numbered option list. Number keys pick directly.
type Choices struct {
	Options  []string
	Selected int
	Keys     ChoiceKeys

	revealed bool
	chosen   int
	answer   string
}

// NewChoices returns an unrevealed list with the cursor on the first option.
func NewChoices(opts []string) Choices {
	return Choices{Options: opts, Keys: DefaultChoiceKeys(), chosen: -1}
}

// Update moves the cursor or emits a ChoiceMsg. It ignores input once
// revealed.
func (c Choices) Update(msg tea.Msg) (Choices, tea.Cmd) {
	if c.revealed || len(c.Options) == 0 {
		return c, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, nil
	}

	switch {
	case key.Matches(kmsg, c.Keys.Up):
		if c.Selected > 0 {
			c.Selected--
		}
	case key.Matches(kmsg, c.Keys.Down):
		if c.Selected < len(c.Options)-1 {
			c.Selected++
		}
	case key.Matches(kmsg, c.Keys.Choose):
		return c, c.choose(c.Selected)
	default:
		s := kmsg.String()
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(c.Options) {
			c.Selected = int(s[0] - '1')
			return c, c.choose(c.Selected)
		}
	}
	return c, nil
}

func (c Choices) choose(i int) tea.Cmd {
	v := c.Options[i]
	return func() tea.Msg { return ChoiceMsg{Value: v} }
}

// Reveal freezes the list and marks the chosen and correct options.
func (c *Choices) Reveal(chosen, answer string) {
	c.revealed = true
	c.answer = answer
	c.chosen = -1
	for i, o := range c.Options {
		if o == chosen {
			c.chosen = i
		}
	}
}

// Revealed reports whether Reveal was called.
func (c Choices) Revealed() bool { return c.revealed }

// View renders one line per option.
func (c Choices) View() string {
	var b strings.Builder
	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Selected && !c.revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d)  %s", prefix, i+1, opt)

		var style lipgloss.Style
		switch {
		case c.revealed && opt == c.answer:
			style = theme.Correct
		case c.revealed && i == c.chosen:
			style = theme.Incorrect
		case c.revealed:
			style = lipgloss.NewStyle().Foreground(theme.TextDim)
		case i == c.Selected:
			style = theme.Selected
		default:
			style = theme.Unselected
		}
		b.WriteString(style.Render(line))
		b.WriteByte('\n')
	}
	return b.String()
}
