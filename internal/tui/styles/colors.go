package styles

import "github.com/charmbracelet/lipgloss"

// Terminal ledger palette: slate backgrounds, teal accents, and a strict
// green/red split reserved for profit and loss.
var (
	// Backgrounds (darkest to lightest)
	BgDeep    = lipgloss.Color("#0b1016") // Main background
	BgPanel   = lipgloss.Color("#121922") // Panel background
	BgSurface = lipgloss.Color("#1b2430") // Alternate table rows
	BgHover   = lipgloss.Color("#26323f") // Selected instrument

	// Accents
	AccentPrimary   = lipgloss.Color("#38bdf8") // Sky: titles, focus
	AccentSecondary = lipgloss.Color("#2dd4bf") // Teal: categories, sources
	AccentTertiary  = lipgloss.Color("#a78bfa") // Violet: benchmark series
	AccentGold      = lipgloss.Color("#fbbf24") // Gold: best parameters

	// Status
	StatusOK    = lipgloss.Color("#22c55e")
	StatusWarn  = lipgloss.Color("#f59e0b")
	StatusError = lipgloss.Color("#ef4444")
	StatusInfo  = lipgloss.Color("#38bdf8")

	// Text
	TextPrimary   = lipgloss.Color("#e5e7eb")
	TextSecondary = lipgloss.Color("#9ca3af")
	TextMuted     = lipgloss.Color("#6b7280")

	// Borders
	BorderNormal  = lipgloss.Color("#334155")
	BorderFocused = lipgloss.Color("#38bdf8")

	// Trade markers
	MarkerBuy  = lipgloss.Color("#22c55e")
	MarkerSell = lipgloss.Color("#ef4444")
)
