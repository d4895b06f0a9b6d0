package backtest

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrSchema marks a payload that does not match the service contract.
var ErrSchema = errors.New("schema violation")

var resultFields = []string{
	"roi_pct", "total_profit", "win_rate", "total_trades",
	"best_drop", "best_hold", "best_tp", "trades", "equity_curve_data",
}

var tradeFields = []string{
	"ticker", "buy_date", "sell_date", "entry_price", "exit_price", "exit_reason", "profit_abs",
}

// DecodeOptimizationResult parses and validates a /optimize response body.
func DecodeOptimizationResult(data []byte) (*OptimizationResult, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: result is not a JSON object: %v", ErrSchema, err)
	}
	if err := requireFields("result", fields, resultFields); err != nil {
		return nil, err
	}
	var trades []map[string]json.RawMessage
	if err := json.Unmarshal(fields["trades"], &trades); err != nil {
		return nil, fmt.Errorf("%w: trades: %v", ErrSchema, err)
	}
	for i, t := range trades {
		if err := requireFields(fmt.Sprintf("trades[%d]", i), t, tradeFields); err != nil {
			return nil, err
		}
	}

	var res OptimizationResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if err := res.Validate(); err != nil {
		return nil, err
	}
	return &res, nil
}

// DecodePriceSeries parses and validates a /chart response body.
func DecodePriceSeries(data []byte) ([]PricePoint, error) {
	var points []PricePoint
	if err := json.Unmarshal(data, &points); err != nil {
		return nil, fmt.Errorf("%w: price series: %v", ErrSchema, err)
	}
	if points == nil {
		return nil, fmt.Errorf("%w: price series is null", ErrSchema)
	}
	if err := ValidatePriceSeries(points); err != nil {
		return nil, err
	}
	return points, nil
}

// Validate checks the invariants the chart and aggregation stages rely on.
func (r *OptimizationResult) Validate() error {
	if r.TotalTrades < 0 {
		return fmt.Errorf("%w: total_trades is negative (%d)", ErrSchema, r.TotalTrades)
	}
	for i, t := range r.Trades {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("trades[%d]: %w", i, err)
		}
	}
	for i, p := range r.EquityCurveData {
		if _, err := ParseDate(p.Date); err != nil {
			return fmt.Errorf("%w: equity_curve_data[%d]: %v", ErrSchema, i, err)
		}
	}
	return nil
}

// Validate checks a single trade.
func (t Trade) Validate() error {
	if t.Ticker == "" {
		return fmt.Errorf("%w: empty ticker", ErrSchema)
	}
	buy, err := ParseDate(t.BuyDate)
	if err != nil {
		return fmt.Errorf("%w: buy_date: %v", ErrSchema, err)
	}
	sell, err := ParseDate(t.SellDate)
	if err != nil {
		return fmt.Errorf("%w: sell_date: %v", ErrSchema, err)
	}
	if sell.Before(buy) {
		return fmt.Errorf("%w: %s sells on %s before buying on %s", ErrSchema, t.Ticker, t.SellDate, t.BuyDate)
	}
	if !(t.EntryPrice > 0) || !(t.ExitPrice > 0) {
		return fmt.Errorf("%w: %s prices must be > 0 (entry %g, exit %g)", ErrSchema, t.Ticker, t.EntryPrice, t.ExitPrice)
	}
	return nil
}

// ValidatePriceSeries requires parseable, strictly ascending dates and
// finite closes.
func ValidatePriceSeries(points []PricePoint) error {
	var prev time.Time
	for i, p := range points {
		d, err := ParseDate(p.Date)
		if err != nil {
			return fmt.Errorf("%w: prices[%d]: %v", ErrSchema, i, err)
		}
		if i > 0 && !d.After(prev) {
			return fmt.Errorf("%w: prices[%d]: date %s is not after %s", ErrSchema, i, p.Date, points[i-1].Date)
		}
		if math.IsNaN(p.Close) || math.IsInf(p.Close, 0) {
			return fmt.Errorf("%w: prices[%d]: close is not finite", ErrSchema, i)
		}
		prev = d
	}
	return nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func requireFields(what string, obj map[string]json.RawMessage, keys []string) error {
	if obj == nil {
		return fmt.Errorf("%w: %s is null", ErrSchema, what)
	}
	for _, k := range keys {
		v, ok := obj[k]
		if !ok || string(v) == "null" {
			return fmt.Errorf("%w: %s: missing %q", ErrSchema, what, k)
		}
	}
	return nil
}
