package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/harf/internal/ui/theme"
)

// MenuItem is one entry of a Menu. Detail is rendered dimmed after the label.
type MenuItem struct {
	Label    string
	Detail   string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical menu skipping disabled entries.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu places the cursor on the first enabled item.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items}
	for i, it := range items {
		if !it.Disabled {
			m.Selected = i
			break
		}
	}
	return m
}

// Update handles navigation and runs the selected item's action on enter.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		for i := m.Selected - 1; i >= 0; i-- {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "down", "j":
		for i := m.Selected + 1; i < len(m.Items); i++ {
			if !m.Items[i].Disabled {
				m.Selected = i
				break
			}
		}
	case "enter":
		if m.Selected < len(m.Items) {
			it := m.Items[m.Selected]
			if it.Action != nil && !it.Disabled {
				return m, it.Action()
			}
		}
	}
	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, it := range m.Items {
		label := it.Label
		if it.Detail != "" {
			label += "  " + theme.Hint.Render(it.Detail)
		}
		switch {
		case it.Disabled:
			b.WriteString(theme.Hint.Render("    " + it.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ ") + theme.Selected.Render(label))
		default:
			b.WriteString(theme.Unselected.Render("    ") + theme.Unselected.Render(label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
