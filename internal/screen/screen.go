// Package screen defines the contract between the router and app screens.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/harf/internal/ui/layout"
)

// Screen is one page of the terminal app.
type Screen interface {
	// Init returns an initial command when the screen is first shown.
	Init() tea.Cmd

	// Update handles messages and returns the updated screen and command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider lets a screen supply its own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is notified when the screen becomes active again after the
// screens above it were popped.
type Resumer interface {
	Resume() tea.Cmd
}
