package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/ui/theme"
)

// ContentWidth returns the inner width screens lay cards out at.
func ContentWidth(frameWidth int) int {
	return min(max(frameWidth-6, 20), 64)
}

// Card wraps content in a rounded, centered box of the given width.
func Card(content string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width - 2).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
