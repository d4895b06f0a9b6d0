package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// KeyHint describes a single keybinding hint for display in the footer.
type KeyHint struct {
	Key  string // "q", "tab", "1-5"
	Desc string // "quit", "switch", "instrument"
}

// Footer renders context-aware keybinding hints.
type Footer struct {
	Hints []KeyHint
	Width int
}

// Render returns the styled footer string.
func (f Footer) Render() string {
	width := f.Width
	if width <= 0 {
		width = 80
	}

	keyStyle := lipgloss.NewStyle().Foreground(styles.AccentPrimary).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)

	parts := make([]string, 0, len(f.Hints))
	for _, h := range f.Hints {
		parts = append(parts, keyStyle.Render(h.Key)+" "+descStyle.Render(h.Desc))
	}

	return lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextMuted).
		Width(width).
		PaddingLeft(1).
		PaddingRight(1).
		Render(strings.Join(parts, descStyle.Render(" • ")))
}

// FormFooter returns the hints shown while the parameter form has focus.
func FormFooter(width int) Footer {
	return Footer{
		Hints: []KeyHint{
			{Key: "tab", Desc: "next field"},
			{Key: "shift+tab", Desc: "prev field"},
			{Key: "enter", Desc: "optimize"},
			{Key: "esc", Desc: "leave form"},
		},
		Width: width,
	}
}

// DashboardFooter returns the hints shown while browsing results.
func DashboardFooter(width, instruments int) Footer {
	hints := []KeyHint{
		{Key: "q", Desc: "quit"},
		{Key: "tab", Desc: "switch view"},
		{Key: "e", Desc: "edit form"},
		{Key: "r", Desc: "re-run"},
		{Key: "p", Desc: "next preset"},
	}
	if instruments > 0 {
		hints = append(hints, KeyHint{Key: "1-" + strconv.Itoa(min(instruments, 9)), Desc: "instrument"})
	}
	return Footer{Hints: hints, Width: width}
}
