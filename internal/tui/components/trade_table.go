package components

import (
	"fmt"
	"strings"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
)

type column struct {
	title string
	width int
	right bool
}

var tradeColumns = []column{
	{"Ticker", 9, false},
	{"Buy", 10, false},
	{"Sell", 10, false},
	{"Entry", 10, true},
	{"Exit", 10, true},
	{"Reason", 12, false},
	{"P&L", 11, true},
}

// TradeTable renders trades as a zebra-striped table. Ticker filters the
// rows when set.
type TradeTable struct {
	Trades []backtest.Trade
	Ticker string
}

// Rows returns the trades the table shows.
func (t TradeTable) Rows() []backtest.Trade {
	if t.Ticker == "" {
		return t.Trades
	}
	out := make([]backtest.Trade, 0, len(t.Trades))
	for _, tr := range t.Trades {
		if tr.Ticker == t.Ticker {
			out = append(out, tr)
		}
	}
	return out
}

// Render returns the header and one line per trade.
func (t TradeTable) Render() string {
	rows := t.Rows()
	if len(rows) == 0 {
		return styles.Dim("No trades.")
	}

	var b strings.Builder
	head := make([]string, len(tradeColumns))
	for i, c := range tradeColumns {
		head[i] = pad(c.title, c.width, c.right)
	}
	b.WriteString(styles.TableHeader.Render(strings.Join(head, " ")))

	var total float64
	for i, tr := range rows {
		total += tr.ProfitAbs
		cells := []string{
			styles.TruncateWithEllipsis(tr.Ticker, tradeColumns[0].width),
			tr.BuyDate,
			tr.SellDate,
			styles.Price(tr.EntryPrice),
			styles.Price(tr.ExitPrice),
			styles.TruncateWithEllipsis(tr.ExitReason, tradeColumns[5].width),
		}
		line := make([]string, 0, len(tradeColumns))
		for j, c := range cells {
			line = append(line, pad(c, tradeColumns[j].width, tradeColumns[j].right))
		}
		pnl := pad(fmt.Sprintf("%+.2f", tr.ProfitAbs), tradeColumns[6].width, true)
		b.WriteByte('\n')
		b.WriteString(styles.TableRow(i%2 == 0).Render(strings.Join(line, " ") + " "))
		b.WriteString(styles.Signed(tr.ProfitAbs, pnl))
	}

	b.WriteByte('\n')
	b.WriteString(styles.Label.Render(fmt.Sprintf("%d trades, net ", len(rows))))
	b.WriteString(styles.Signed(total, fmt.Sprintf("%+.2f", total)))
	return b.String()
}
