package backtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// DateLayout is the wire format of every date the service emits.
const DateLayout = "2006-01-02"

// OptimizationRequest is the POST /optimize payload.
type OptimizationRequest struct {
	Tickers           []string  `json:"tickers"`
	DropOptions       []float64 `json:"drop_options"`
	HoldOptions       []float64 `json:"hold_options"`
	TakeProfitOptions []float64 `json:"take_profit_options"`
	InitialCapital    float64   `json:"initial_capital"`
}

// Combinations returns how many parameter sets the service will evaluate.
func (r OptimizationRequest) Combinations() int {
	return len(r.DropOptions) * len(r.HoldOptions) * len(r.TakeProfitOptions)
}

// Trade is a single simulated round trip.
type Trade struct {
	Ticker     string  `json:"ticker"`
	BuyDate    string  `json:"buy_date"`
	SellDate   string  `json:"sell_date"`
	EntryPrice float64 `json:"entry_price"`
	ExitPrice  float64 `json:"exit_price"`
	ExitReason string  `json:"exit_reason"`
	ProfitAbs  float64 `json:"profit_abs"`
}

// EquityPoint is one day of the strategy vs buy-and-hold comparison.
type EquityPoint struct {
	Date       string  `json:"date"`
	Equity     float64 `json:"equity"`
	BuyAndHold float64 `json:"buy_and_hold"`
}

// OptimizationResult is the best parameter set found by the service.
type OptimizationResult struct {
	ROIPct          float64       `json:"roi_pct"`
	TotalProfit     float64       `json:"total_profit"`
	WinRate         float64       `json:"win_rate"`
	TotalTrades     int           `json:"total_trades"`
	BestDrop        float64       `json:"best_drop"`
	BestHold        float64       `json:"best_hold"`
	BestTP          float64       `json:"best_tp"`
	Trades          []Trade       `json:"trades"`
	EquityCurveData []EquityPoint `json:"equity_curve_data"`
}

// IsEmpty reports whether the optimization produced no trades.
func (r *OptimizationResult) IsEmpty() bool {
	return r == nil || len(r.Trades) == 0
}

// WinningTrades counts trades that closed with a positive P&L.
func (r *OptimizationResult) WinningTrades() int {
	n := 0
	for _, t := range r.Trades {
		if t.ProfitAbs > 0 {
			n++
		}
	}
	return n
}

// EquitySummary compares the final strategy equity with the benchmark.
type EquitySummary struct {
	FinalEquity     float64
	FinalBuyAndHold float64
	Outperformance  float64 // FinalEquity - FinalBuyAndHold
}

// Summary returns the last point of the equity curve. ok is false when the
// curve is empty.
func (r *OptimizationResult) Summary() (s EquitySummary, ok bool) {
	if r == nil || len(r.EquityCurveData) == 0 {
		return s, false
	}
	last := r.EquityCurveData[len(r.EquityCurveData)-1]
	return EquitySummary{
		FinalEquity:     last.Equity,
		FinalBuyAndHold: last.BuyAndHold,
		Outperformance:  last.Equity - last.BuyAndHold,
	}, true
}

// PricePoint is one trading day of the /chart series. Only date and close
// are required; open, high and low stay nil when the service omits them.
// Every other field is kept verbatim in Extra and written back untouched.
type PricePoint struct {
	Date  string
	Open  *float64
	High  *float64
	Low   *float64
	Close float64
	Extra map[string]json.RawMessage
}

// UnmarshalJSON decodes a point and requires date and close to be present.
func (p *PricePoint) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = PricePoint{}

	dateRaw, ok := raw["date"]
	if !ok {
		return fmt.Errorf("price point: missing date")
	}
	if err := json.Unmarshal(dateRaw, &p.Date); err != nil {
		return fmt.Errorf("price point: date: %w", err)
	}
	closeRaw, ok := raw["close"]
	if !ok || string(closeRaw) == "null" {
		return fmt.Errorf("price point %s: missing close", p.Date)
	}
	if err := json.Unmarshal(closeRaw, &p.Close); err != nil {
		return fmt.Errorf("price point %s: close: %w", p.Date, err)
	}

	delete(raw, "date")
	delete(raw, "close")

	// An explicit null open/high/low stays in Extra so it is written back.
	optional := map[string]**float64{"open": &p.Open, "high": &p.High, "low": &p.Low}
	for key, dst := range optional {
		v, ok := raw[key]
		if !ok || string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, dst); err != nil {
			return fmt.Errorf("price point %s: %s: %w", p.Date, key, err)
		}
		delete(raw, key)
	}

	if len(raw) > 0 {
		p.Extra = raw
	}
	return nil
}

// MarshalJSON writes the price fields that are set, then extras in key order.
func (p PricePoint) MarshalJSON() ([]byte, error) {
	return marshalFields(p, nil)
}

// Action marks what happened on a chart day.
type Action int

const (
	ActionNone Action = iota
	ActionBuy
	ActionSell
)

// String returns "BUY", "SELL" or "".
func (a Action) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return ""
	}
}

// MarshalJSON encodes ActionNone as null.
func (a Action) MarshalJSON() ([]byte, error) {
	if a == ActionNone {
		return []byte("null"), nil
	}
	return json.Marshal(a.String())
}

// ChartRecord is a PricePoint with optional trade markers.
type ChartRecord struct {
	PricePoint
	BuyPoint  *float64
	SellPoint *float64
	Action    Action
}

// MarshalJSON flattens the record: price fields, then buyPoint/sellPoint
// (omitted when unset) and action.
func (r ChartRecord) MarshalJSON() ([]byte, error) {
	tail := []jsonField{}
	if r.BuyPoint != nil {
		tail = append(tail, jsonField{"buyPoint", *r.BuyPoint})
	}
	if r.SellPoint != nil {
		tail = append(tail, jsonField{"sellPoint", *r.SellPoint})
	}
	tail = append(tail, jsonField{"action", r.Action})
	return marshalFields(r.PricePoint, tail)
}

type jsonField struct {
	key   string
	value any
}

func marshalFields(p PricePoint, tail []jsonField) ([]byte, error) {
	fields := []jsonField{{"date", p.Date}}
	for _, f := range []jsonField{{"open", p.Open}, {"high", p.High}, {"low", p.Low}} {
		if f.value.(*float64) != nil {
			fields = append(fields, f)
		}
	}
	fields = append(fields, jsonField{"close", p.Close})
	extraKeys := make([]string, 0, len(p.Extra))
	for k := range p.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		fields = append(fields, jsonField{k, p.Extra[k]})
	}
	fields = append(fields, tail...)

	var b bytes.Buffer
	b.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(f.key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.value)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}
