package backtest

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

const sampleResult = `{
  "best_drop": 5.0, "best_hold": 250, "best_tp": 6.0,
  "total_profit": 1234.5, "roi_pct": 12.35, "win_rate": 66.67, "total_trades": 3,
  "equity_curve_data": [
    {"date": "2024-01-01", "equity": 10000, "buy_and_hold": 10000},
    {"date": "2024-01-02", "equity": 11234.5, "buy_and_hold": 10500}
  ],
  "trades": [
    {"ticker": "MSFT", "buy_date": "2024-01-01", "sell_date": "2024-01-02", "entry_price": 100, "exit_price": 105, "profit_abs": 50, "exit_reason": "TP"},
    {"ticker": "IBM", "buy_date": "2024-01-01", "sell_date": "2024-01-01", "entry_price": 10, "exit_price": 9, "profit_abs": -10, "exit_reason": "Time"},
    {"ticker": "IBM", "buy_date": "2024-01-02", "sell_date": "2024-01-05", "entry_price": 9, "exit_price": 12, "profit_abs": 30, "exit_reason": "TP"}
  ]
}`

func TestDecodeOptimizationResult(t *testing.T) {
	res, err := DecodeOptimizationResult([]byte(sampleResult))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.TotalTrades != 3 || len(res.Trades) != 3 {
		t.Fatalf("trades = %d/%d", res.TotalTrades, len(res.Trades))
	}
	if res.BestHold != 250 || res.BestTP != 6 {
		t.Fatalf("best params = %+v", res)
	}
	if res.WinningTrades() != 2 {
		t.Fatalf("winning = %d", res.WinningTrades())
	}
	s, ok := res.Summary()
	if !ok || s.FinalEquity != 11234.5 || s.Outperformance != 734.5 {
		t.Fatalf("summary = %+v, %v", s, ok)
	}
}

func TestDecodeOptimizationResultRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `<html>`,
		"array":           `[]`,
		"missing field":   strings.Replace(sampleResult, `"roi_pct": 12.35,`, ``, 1),
		"null trades":     `{"roi_pct":0,"total_profit":0,"win_rate":0,"total_trades":0,"best_drop":0,"best_hold":0,"best_tp":0,"trades":null,"equity_curve_data":[]}`,
		"trade missing":   strings.Replace(sampleResult, `"exit_reason": "TP"}`, `"extra": 1}`, 1),
		"sell before buy": strings.Replace(sampleResult, `"sell_date": "2024-01-05"`, `"sell_date": "2023-12-31"`, 1),
		"bad date":        strings.Replace(sampleResult, `"buy_date": "2024-01-01", "sell_date": "2024-01-02"`, `"buy_date": "01/01/2024", "sell_date": "2024-01-02"`, 1),
		"zero price":      strings.Replace(sampleResult, `"entry_price": 100`, `"entry_price": 0`, 1),
		"wrong type":      strings.Replace(sampleResult, `"total_trades": 3`, `"total_trades": "3"`, 1),
	}
	for name, body := range cases {
		if _, err := DecodeOptimizationResult([]byte(body)); !errors.Is(err, ErrSchema) {
			t.Errorf("%s: want ErrSchema, got %v", name, err)
		}
	}
}

func TestEmptyResult(t *testing.T) {
	body := `{"roi_pct":0,"total_profit":0,"win_rate":0,"total_trades":0,"best_drop":5,"best_hold":250,"best_tp":5,"trades":[],"equity_curve_data":[]}`
	res, err := DecodeOptimizationResult([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.IsEmpty() {
		t.Fatal("want empty result")
	}
	if _, ok := res.Summary(); ok {
		t.Fatal("summary of empty curve should not be ok")
	}
}

func TestDecodePriceSeries(t *testing.T) {
	body := `[
	  {"date":"2024-01-01","open":99,"high":101,"low":98,"close":100,"volume":1200},
	  {"date":"2024-01-02","open":100,"high":106,"low":99,"close":105,"note":"x"}
	]`
	pts, err := DecodePriceSeries([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(pts) != 2 || pts[1].Close != 105 || pts[0].High == nil || *pts[0].High != 101 {
		t.Fatalf("points = %+v", pts)
	}
	if string(pts[0].Extra["volume"]) != "1200" {
		t.Fatalf("extra not preserved: %+v", pts[0].Extra)
	}
	if string(pts[1].Extra["note"]) != `"x"` {
		t.Fatalf("string extra not preserved: %+v", pts[1].Extra)
	}
}

func TestPricePointRoundTripKeepsFieldsVerbatim(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"close only",
			`{"date":"2024-01-01","close":100}`,
			`{"date":"2024-01-01","close":100}`,
		},
		{
			"null and string extras",
			`{"date":"2024-01-01","close":100,"note":"split","volume":null}`,
			`{"date":"2024-01-01","close":100,"note":"split","volume":null}`,
		},
		{
			"partial ohlc",
			`{"close":100,"high":101.5,"date":"2024-01-01","adj":{"f":1}}`,
			`{"date":"2024-01-01","high":101.5,"close":100,"adj":{"f":1}}`,
		},
		{
			"null open",
			`{"date":"2024-01-01","open":null,"close":100}`,
			`{"date":"2024-01-01","close":100,"open":null}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PricePoint
			if err := json.Unmarshal([]byte(tt.in), &p); err != nil {
				t.Fatalf("decode: %v", err)
			}
			out, err := json.Marshal(p)
			if err != nil {
				t.Fatal(err)
			}
			if string(out) != tt.want {
				t.Fatalf("got  %s\nwant %s", out, tt.want)
			}
		})
	}
}

func TestChartRecordKeepsUnsetPriceFieldsOut(t *testing.T) {
	var p PricePoint
	if err := json.Unmarshal([]byte(`{"date":"2024-01-01","close":100,"note":"split","volume":null}`), &p); err != nil {
		t.Fatal(err)
	}
	out, err := json.Marshal(ChartRecord{PricePoint: p})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"date":"2024-01-01","close":100,"note":"split","volume":null,"action":null}`
	if string(out) != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}
}

func TestDecodePriceSeriesRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"object":        `{"date":"2024-01-01","close":1}`,
		"null":          `null`,
		"missing close": `[{"date":"2024-01-01","open":1}]`,
		"missing date":  `[{"close":1}]`,
		"null close":    `[{"date":"2024-01-01","close":null}]`,
		"descending":    `[{"date":"2024-01-02","close":1},{"date":"2024-01-01","close":2}]`,
		"duplicate":     `[{"date":"2024-01-01","close":1},{"date":"2024-01-01","close":2}]`,
	}
	for name, body := range cases {
		if _, err := DecodePriceSeries([]byte(body)); err == nil {
			t.Errorf("%s: want error", name)
		}
	}
}

func TestChartRecordJSON(t *testing.T) {
	buy := 100.0
	rec := ChartRecord{
		PricePoint: PricePoint{Date: "2024-01-01", Close: 100, Extra: map[string]json.RawMessage{"volume": json.RawMessage("5")}},
		BuyPoint:   &buy,
		Action:     ActionBuy,
	}
	out, err := json.Marshal(rec)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"date":"2024-01-01","close":100,"volume":5,"buyPoint":100,"action":"BUY"}`
	if string(out) != want {
		t.Fatalf("got  %s\nwant %s", out, want)
	}

	plain, err := json.Marshal(ChartRecord{PricePoint: PricePoint{Date: "2024-01-02", Close: 1}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(string(plain), `"close":1,"action":null}`) {
		t.Fatalf("unmarked record = %s", plain)
	}
}
