package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// MetricGauge displays a single KPI with color coding based on thresholds.
type MetricGauge struct {
	Label      string
	Value      float64
	Format     string     // "%+.2f%%", "%.1f%%", "%.0f"
	Thresholds [2]float64 // [warn, critical]
	HighIsGood bool       // true for ROI and win rate
	Neutral    bool       // no coloring, e.g. trade count
	Width      int
}

func (m MetricGauge) gaugeColor() lipgloss.Color {
	if m.Neutral {
		return styles.TextPrimary
	}
	warn, critical := m.Thresholds[0], m.Thresholds[1]
	if m.HighIsGood {
		switch {
		case m.Value <= critical:
			return styles.StatusError
		case m.Value <= warn:
			return styles.StatusWarn
		default:
			return styles.StatusOK
		}
	}
	switch {
	case m.Value >= critical:
		return styles.StatusError
	case m.Value >= warn:
		return styles.StatusWarn
	default:
		return styles.StatusOK
	}
}

// Render returns the gauge as a bordered tile.
func (m MetricGauge) Render() string {
	format := m.Format
	if format == "" {
		format = "%.2f"
	}
	value := lipgloss.NewStyle().Foreground(m.gaugeColor()).Bold(true).Render(fmt.Sprintf(format, m.Value))
	label := lipgloss.NewStyle().Foreground(styles.TextMuted).Render(m.Label)

	card := styles.Card
	if m.Width > 0 {
		card = card.Width(m.Width - 2)
	}
	return card.Render(lipgloss.JoinVertical(lipgloss.Center, value, label))
}

// KPIRow renders the four result gauges side by side. ROI below zero is
// critical; a win rate under 50% warns and under 30% is critical.
func KPIRow(roiPct, profit, winRate float64, trades int, width int) string {
	w := max(width/4, 12)
	gauges := []MetricGauge{
		{Label: "ROI", Value: roiPct, Format: "%+.2f%%", Thresholds: [2]float64{5, 0}, HighIsGood: true, Width: w},
		{Label: "Total profit", Value: profit, Format: "%+.2f", Thresholds: [2]float64{0, 0}, HighIsGood: true, Width: w},
		{Label: "Win rate", Value: winRate, Format: "%.1f%%", Thresholds: [2]float64{50, 30}, HighIsGood: true, Width: w},
		{Label: "Trades", Value: float64(trades), Format: "%.0f", Neutral: true, Width: w},
	}
	tiles := make([]string, len(gauges))
	for i, g := range gauges {
		tiles[i] = g.Render()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tiles...)
}
