package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// GridBar shows the size of a parameter grid as a product of its axes:
// tickers × drop × hold × take-profit = backtests.
type GridBar struct {
	Request backtest.OptimizationRequest
	Invalid string // form error; replaces the product when set
	Width   int
}

// Backtests is the number of simulations the service will run.
func (g GridBar) Backtests() int {
	return len(g.Request.Tickers) * g.Request.Combinations()
}

// Render returns the bar in a titled panel.
func (g GridBar) Render() string {
	width := g.Width
	if width <= 0 {
		width = 72
	}

	var line string
	if g.Invalid != "" {
		line = styles.ErrorText.Render("✗ " + g.Invalid)
	} else {
		times := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(" × ")
		axes := []struct {
			label string
			n     int
		}{
			{"tickers", len(g.Request.Tickers)},
			{"drop", len(g.Request.DropOptions)},
			{"hold", len(g.Request.HoldOptions)},
			{"tp", len(g.Request.TakeProfitOptions)},
		}
		for i, a := range axes {
			if i > 0 {
				line += times
			}
			color := styles.TextMuted
			if a.n > 0 {
				color = styles.AccentPrimary
			}
			line += lipgloss.NewStyle().Foreground(color).Bold(true).Render(itoa(a.n)) +
				" " + styles.Label.Render(a.label)
		}
		line += lipgloss.NewStyle().Foreground(styles.TextSecondary).Render(" ══▶ ") +
			styles.Gold(itoa(g.Backtests())) + " " + styles.Label.Render("backtests")
	}

	return styles.Titled("Grid", line, width, false)
}
