package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/ui/theme"
)

// AnswerInput is a free-text answer field for dictation cards.
type AnswerInput struct {
	Model     textinput.Model
	submitted bool
	valid     bool
}

// NewAnswerInput returns a focused input.
func NewAnswerInput(placeholder string, limit int) AnswerInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if limit > 0 {
		ti.CharLimit = limit
	}
	ti.Focus()
	return AnswerInput{Model: ti}
}

// Init starts the cursor blink.
func (a AnswerInput) Init() tea.Cmd {
	return a.Model.Focus()
}

// Update forwards to the input until submitted.
func (a AnswerInput) Update(msg tea.Msg) (AnswerInput, tea.Cmd) {
	if a.submitted {
		return a, nil
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the input with a check or cross once submitted.
func (a AnswerInput) View() string {
	view := a.Model.View()
	if a.submitted {
		if a.valid {
			view += " " + lipgloss.NewStyle().Foreground(theme.Success).Render("✓")
		} else {
			view += " " + lipgloss.NewStyle().Foreground(theme.Error).Render("✗")
		}
	}
	return view
}

// Value returns the trimmed input.
func (a AnswerInput) Value() string {
	return strings.TrimSpace(a.Model.Value())
}

// Submit freezes the input with a grading result.
func (a *AnswerInput) Submit(valid bool) {
	a.submitted = true
	a.valid = valid
	a.Model.Blur()
}
