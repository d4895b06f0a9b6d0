// Package report formats optimization results as Markdown for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Dallionking/sigma-optimizer/internal/aggregate"
	"github.com/Dallionking/sigma-optimizer/internal/backtest"
)

// maxTradeRows caps the trade table; the full list is available via --json.
const maxTradeRows = 50

// Markdown renders res as a Markdown document. req may be zero.
func Markdown(req backtest.OptimizationRequest, res *backtest.OptimizationResult) string {
	var b strings.Builder
	b.WriteString("# Optimization result\n\n")

	if len(req.Tickers) > 0 {
		fmt.Fprintf(&b, "Instruments: **%s** · %d parameter combinations · capital %s\n\n",
			strings.Join(req.Tickers, ", "), req.Combinations(), Money(req.InitialCapital))
	}

	if res.IsEmpty() {
		b.WriteString("> No trades were generated for the selected parameter ranges.\n")
		return b.String()
	}

	b.WriteString("## Performance\n\n")
	b.WriteString("| ROI | Total profit | Win rate | Trades |\n")
	b.WriteString("|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %.1f%% | %d |\n\n",
		SignedPct(res.ROIPct), Money(res.TotalProfit), res.WinRate, res.TotalTrades)

	b.WriteString("## Best parameters\n\n")
	fmt.Fprintf(&b, "- Drop: **%g%%**\n", res.BestDrop)
	fmt.Fprintf(&b, "- Hold: **%g days**\n", res.BestHold)
	fmt.Fprintf(&b, "- Take profit: **%g%%**\n\n", res.BestTP)

	if sum, ok := res.Summary(); ok {
		b.WriteString("## Equity vs buy & hold\n\n")
		fmt.Fprintf(&b, "Strategy ends at %s, buy & hold at %s (%s).\n\n",
			Money(sum.FinalEquity), Money(sum.FinalBuyAndHold), signedMoney(sum.Outperformance))
	}

	b.WriteString("## Instruments\n\n")
	b.WriteString("| Ticker | Trades |\n|---|---:|\n")
	for _, ic := range aggregate.Rank(res.Trades) {
		fmt.Fprintf(&b, "| %s | %d |\n", ic.Ticker, ic.Trades)
	}
	b.WriteString("\n")

	b.WriteString("## Trades\n\n")
	b.WriteString("| Ticker | Buy | Sell | Entry | Exit | Reason | P&L |\n")
	b.WriteString("|---|---|---|---:|---:|---|---:|\n")
	for i, t := range res.Trades {
		if i == maxTradeRows {
			fmt.Fprintf(&b, "\n_%d more trades not shown._\n", len(res.Trades)-maxTradeRows)
			break
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f | %.2f | %s | %s |\n",
			t.Ticker, t.BuyDate, t.SellDate, t.EntryPrice, t.ExitPrice, t.ExitReason, signedMoney(t.ProfitAbs))
	}
	return b.String()
}

// Render formats md for a terminal of the given width. On renderer failure
// the raw Markdown is returned.
func Render(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimSpace(out)
}

// Money formats v with two decimals and thousands separators.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

// SignedPct formats a percentage with an explicit sign.
func SignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

func signedMoney(v float64) string {
	if v >= 0 {
		return "+" + Money(v)
	}
	return Money(v)
}
