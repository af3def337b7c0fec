package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/harf/internal/ui/theme"
)

// ProgressBar is a horizontal bar filled to Percent (0-100).
type ProgressBar struct {
	Label   string
	Percent int
	Width   int
}

// NewProgressBar clamps percent into range.
func NewProgressBar(label string, percent, width int) ProgressBar {
	return ProgressBar{Label: label, Percent: min(max(percent, 0), 100), Width: width}
}

// Filled returns how many cells of a bar of the given width are filled.
func (p ProgressBar) Filled(barWidth int) int {
	return barWidth * p.Percent / 100
}

// View renders the label, the bar and the percentage.
func (p ProgressBar) View() string {
	var label string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	barWidth := max(p.Width-lipgloss.Width(label)-6, 4)
	filled := p.Filled(barWidth)

	return label +
		lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
		lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled)) +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  %3d%%", p.Percent))
}
