// Package aggregate ranks the instruments of an optimization result.
//
// Ties on trade count are broken by first appearance in trade order, so the
// ranking never depends on map iteration.
package aggregate

import (
	"sort"

	"github.com/samber/lo"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
)

// InstrumentCount is a ticker with its number of trades.
type InstrumentCount struct {
	Ticker string `json:"ticker"`
	Trades int    `json:"trades"`
}

// CountByTicker returns the number of trades per ticker.
func CountByTicker(trades []backtest.Trade) map[string]int {
	return lo.CountValuesBy(trades, func(t backtest.Trade) string { return t.Ticker })
}

// Rank returns every traded ticker ordered by trade count, descending.
func Rank(trades []backtest.Trade) []InstrumentCount {
	counts := CountByTicker(trades)
	order := lo.Uniq(lo.Map(trades, func(t backtest.Trade, _ int) string { return t.Ticker }))

	ranked := lo.Map(order, func(ticker string, _ int) InstrumentCount {
		return InstrumentCount{Ticker: ticker, Trades: counts[ticker]}
	})
	// Stable sort keeps first-appearance order among equal counts.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Trades > ranked[j].Trades
	})
	return ranked
}

// PickDefaultInstrument returns the ticker with the most trades. ok is false
// only when trades is empty.
func PickDefaultInstrument(trades []backtest.Trade) (ticker string, ok bool) {
	ranked := Rank(trades)
	if len(ranked) == 0 {
		return "", false
	}
	return ranked[0].Ticker, true
}

// TopInstruments returns at most n tickers in Rank order.
func TopInstruments(trades []backtest.Trade, n int) []string {
	if n <= 0 {
		return nil
	}
	ranked := Rank(trades)
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return lo.Map(ranked, func(ic InstrumentCount, _ int) string { return ic.Ticker })
}
