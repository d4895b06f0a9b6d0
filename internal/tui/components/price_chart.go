package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/chart"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

// PriceChart draws a merged chart series as a close-price sparkline with a
// buy row (▲) and a sell row (▼) underneath.
type PriceChart struct {
	Ticker  string
	Records []backtest.ChartRecord
	Width   int
}

// columns is the plot width: never wider than the series.
func (p PriceChart) columns() int {
	w := p.Width
	if w <= 0 {
		w = 60
	}
	return min(w, len(p.Records))
}

// MarkerRows returns the buy and sell rows, one rune per column. A column
// shows a marker when any record it covers carries one.
func (p PriceChart) MarkerRows() (buys, sells string) {
	cols := p.columns()
	if cols == 0 {
		return "", ""
	}
	b := []rune(strings.Repeat(" ", cols))
	s := []rune(strings.Repeat(" ", cols))
	n := len(p.Records)
	for i, r := range p.Records {
		col := i * cols / n
		if r.BuyPoint != nil {
			b[col] = '▲'
		}
		if r.SellPoint != nil {
			s[col] = '▼'
		}
	}
	return string(b), string(s)
}

// Render returns the chart with axis labels.
func (p PriceChart) Render() string {
	if len(p.Records) == 0 {
		return styles.Dim("No price data.")
	}
	closes := make([]float64, len(p.Records))
	for i, r := range p.Records {
		closes[i] = r.Close
	}
	lo, hi := styles.Bounds(closes)
	cols := p.columns()

	buys, sells := p.MarkerRows()
	mc := chart.Markers(p.Records)
	first, last := p.Records[0], p.Records[len(p.Records)-1]

	scale := styles.Label.Render("high ") + styles.Value.Render(styles.Price(hi)) +
		styles.Label.Render("  low ") + styles.Value.Render(styles.Price(lo)) +
		styles.Label.Render("  last ") + styles.Value.Render(styles.Price(last.Close))

	span := styles.Dim(first.Date)
	if gap := cols - len(first.Date) - len(last.Date); gap > 0 {
		span += strings.Repeat(" ", gap) + styles.Dim(last.Date)
	} else {
		span += styles.Dim(" → " + last.Date)
	}

	legend := lipgloss.NewStyle().Foreground(styles.MarkerBuy).Render("▲ buy ") + styles.Dim(itoa(mc.Buys)) +
		"   " + lipgloss.NewStyle().Foreground(styles.MarkerSell).Render("▼ sell ") + styles.Dim(itoa(mc.Sells))

	return strings.Join([]string{
		scale,
		styles.Sparkline(closes, cols, lo, hi, styles.AccentPrimary),
		lipgloss.NewStyle().Foreground(styles.MarkerBuy).Render(buys),
		lipgloss.NewStyle().Foreground(styles.MarkerSell).Render(sells),
		span,
		legend,
	}, "\n")
}

// EquityChart draws the strategy equity and the buy-and-hold benchmark on a
// shared scale.
type EquityChart struct {
	Points []backtest.EquityPoint
	Width  int
}

// Render returns both curves with their final values.
func (e EquityChart) Render() string {
	if len(e.Points) == 0 {
		return styles.Dim("No equity curve.")
	}
	w := e.Width
	if w <= 0 {
		w = 60
	}
	w = min(w, len(e.Points))

	equity := make([]float64, len(e.Points))
	bench := make([]float64, len(e.Points))
	for i, p := range e.Points {
		equity[i] = p.Equity
		bench[i] = p.BuyAndHold
	}
	lo1, hi1 := styles.Bounds(equity)
	lo2, hi2 := styles.Bounds(bench)
	lo, hi := min(lo1, lo2), max(hi1, hi2)

	last := e.Points[len(e.Points)-1]
	label := func(name string, v float64) string {
		return styles.Label.Render(name) + " " + styles.Value.Render(styles.Price(v))
	}
	return strings.Join([]string{
		styles.Sparkline(equity, w, lo, hi, styles.AccentSecondary) + "  " + label("strategy", last.Equity),
		styles.Sparkline(bench, w, lo, hi, styles.AccentTertiary) + "  " + label("buy & hold", last.BuyAndHold),
	}, "\n")
}
