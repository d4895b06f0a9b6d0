package chart

import (
	"encoding/json"
	"slices"

	"github.com/samber/lo"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
)

// Merge joins a price series with the trades of one ticker. It returns a new
// slice with exactly one record per price point, in input order. Buy and sell
// matches are independent, so a day can carry both markers. When several
// trades share a date the first one in trade order wins.
func Merge(prices []backtest.PricePoint, trades []backtest.Trade, ticker string) []backtest.ChartRecord {
	mine := lo.Filter(trades, func(t backtest.Trade, _ int) bool { return t.Ticker == ticker })

	buys := make(map[string]float64, len(mine))
	sells := make(map[string]float64, len(mine))
	for _, t := range mine {
		if _, seen := buys[t.BuyDate]; !seen {
			buys[t.BuyDate] = t.EntryPrice
		}
		if _, seen := sells[t.SellDate]; !seen {
			sells[t.SellDate] = t.ExitPrice
		}
	}

	out := make([]backtest.ChartRecord, len(prices))
	for i, p := range prices {
		rec := backtest.ChartRecord{PricePoint: copyPoint(p)}
		if v, ok := buys[p.Date]; ok {
			rec.BuyPoint = lo.ToPtr(v)
		}
		if v, ok := sells[p.Date]; ok {
			rec.SellPoint = lo.ToPtr(v)
		}
		switch {
		case rec.BuyPoint != nil:
			rec.Action = backtest.ActionBuy
		case rec.SellPoint != nil:
			rec.Action = backtest.ActionSell
		}
		out[i] = rec
	}
	return out
}

// MarkerCounts summarises the markers of a merged series.
type MarkerCounts struct {
	Buys  int
	Sells int
}

// Markers counts the buy and sell markers in records.
func Markers(records []backtest.ChartRecord) MarkerCounts {
	var mc MarkerCounts
	for _, r := range records {
		if r.BuyPoint != nil {
			mc.Buys++
		}
		if r.SellPoint != nil {
			mc.Sells++
		}
	}
	return mc
}

// copyPoint detaches the optional fields and Extra so records never alias
// caller data.
func copyPoint(p backtest.PricePoint) backtest.PricePoint {
	p.Open, p.High, p.Low = clonePtr(p.Open), clonePtr(p.High), clonePtr(p.Low)
	if p.Extra != nil {
		extra := make(map[string]json.RawMessage, len(p.Extra))
		for k, v := range p.Extra {
			extra[k] = slices.Clone(v)
		}
		p.Extra = extra
	}
	return p
}

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
