package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// TabBar renders horizontal tab selection.
type TabBar struct {
	Tabs      []string
	ActiveTab int
	Width     int
}

// Next returns the tab index after the active one, wrapping around.
func (t TabBar) Next() int {
	if len(t.Tabs) == 0 {
		return 0
	}
	return (t.ActiveTab + 1) % len(t.Tabs)
}

// Prev returns the tab index before the active one, wrapping around.
func (t TabBar) Prev() int {
	if len(t.Tabs) == 0 {
		return 0
	}
	return (t.ActiveTab - 1 + len(t.Tabs)) % len(t.Tabs)
}

// Render returns the styled tab bar string.
func (t TabBar) Render() string {
	if len(t.Tabs) == 0 {
		return ""
	}

	activeStyle := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Underline(true).
		Padding(0, 1)

	inactiveStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Padding(0, 1)

	tabs := make([]string, len(t.Tabs))
	for i, tab := range t.Tabs {
		if i == t.ActiveTab {
			tabs[i] = activeStyle.Render(tab)
		} else {
			tabs[i] = inactiveStyle.Render(tab)
		}
	}

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("│")
	return lipgloss.NewStyle().
		Background(styles.BgDeep).
		Width(t.Width).
		Render(strings.Join(tabs, sep))
}
