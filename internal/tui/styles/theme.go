package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CompactLogo is the one-line product mark shown in the header.
const CompactLogo = "Σ OPTIMIZER"

// ---------------------------------------------------------------------------
// Panels
// ---------------------------------------------------------------------------

// Panel frames a dashboard section.
var Panel = lipgloss.NewStyle().
	Border(RoundedBorder).
	BorderForeground(BorderNormal).
	Padding(0, 1)

// PanelFocused is Panel with the focus border color.
var PanelFocused = Panel.
	BorderForeground(BorderFocused)

// Card is a compact tile for a single KPI.
var Card = lipgloss.NewStyle().
	Border(ThinBorder).
	BorderForeground(BorderNormal).
	Padding(0, 1).
	Align(lipgloss.Center)

// Titled renders content in a panel of the given outer width with a title
// line on top.
func Titled(title, content string, width int, focused bool) string {
	st := Panel
	if focused {
		st = PanelFocused
	}
	inner := width - 4 // border (2) + padding (2)
	if inner < 10 {
		inner = 10
	}
	return st.Width(inner).Render(Title.Render(title) + "\n" + content)
}

// ---------------------------------------------------------------------------
// Badges
// ---------------------------------------------------------------------------

// Badge returns an inline colored badge such as "● LOADING".
func Badge(text string, color lipgloss.Color) string {
	dot := lipgloss.NewStyle().Foreground(color).Render("●")
	label := lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
	return dot + " " + label
}

// PhaseBadge renders a request phase ("idle", "loading", "loaded",
// "failed") as a badge.
func PhaseBadge(phase string) string {
	switch strings.ToLower(phase) {
	case "loading":
		return Badge("LOADING", StatusInfo)
	case "loaded":
		return Badge("READY", StatusOK)
	case "failed":
		return Badge("FAILED", StatusError)
	default:
		return Badge("IDLE", TextMuted)
	}
}

// ---------------------------------------------------------------------------
// Typography
// ---------------------------------------------------------------------------

var (
	Title      = lipgloss.NewStyle().Foreground(AccentPrimary).Bold(true)
	Subtitle   = lipgloss.NewStyle().Foreground(TextSecondary)
	Label      = lipgloss.NewStyle().Foreground(TextMuted)
	Value      = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	ProfitText = lipgloss.NewStyle().Foreground(StatusOK).Bold(true)
	LossText   = lipgloss.NewStyle().Foreground(StatusError).Bold(true)
	ErrorText  = lipgloss.NewStyle().Foreground(StatusError)
)

// ---------------------------------------------------------------------------
// Tables
// ---------------------------------------------------------------------------

// TableHeader styles column headings.
var TableHeader = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Bold(true).
	Underline(true)

// TableRow returns a zebra-striped row style.
func TableRow(even bool) lipgloss.Style {
	bg := BgPanel
	if !even {
		bg = BgSurface
	}
	return lipgloss.NewStyle().Foreground(TextPrimary).Background(bg)
}

// Divider returns a horizontal rule width cells wide.
func Divider(width int) string {
	if width <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Foreground(BorderNormal).Render(strings.Repeat("─", width))
}
