package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// Header renders the app header bar.
type Header struct {
	Preset  string // active preset name
	Service string // optimizer base URL
	Status  string // rendered status badge, may be empty
	Width   int
}

// Render returns the styled header string.
func (h Header) Render() string {
	width := h.Width
	if width <= 0 {
		width = 80
	}

	logo := lipgloss.NewStyle().
		Foreground(styles.AccentPrimary).
		Bold(true).
		Render(styles.CompactLogo)

	sep := lipgloss.NewStyle().Foreground(styles.TextMuted).Render("  │  ")

	preset := styles.Label.Render("Preset: ") +
		lipgloss.NewStyle().Foreground(styles.AccentGold).Bold(true).Render(strings.ToUpper(h.Preset))

	service := styles.Label.Render("Service: ") +
		lipgloss.NewStyle().Foreground(styles.TextPrimary).Render(styles.TruncateWithEllipsis(h.Service, 32))

	content := logo + sep + preset + sep + service
	if h.Status != "" {
		content += sep + h.Status
	}

	return lipgloss.NewStyle().
		Background(styles.BgDeep).
		Foreground(styles.TextPrimary).
		Width(width).
		PaddingLeft(1).
		PaddingRight(1).
		Render(content)
}
