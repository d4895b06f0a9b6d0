package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/chart"
)

const rawResult = `{
  "roi_pct": 1.5, "total_profit": 150, "win_rate": 100, "total_trades": 1,
  "best_drop": 5, "best_hold": 250, "best_tp": 6,
  "trades": [{"ticker": "IBM", "buy_date": "2024-01-02", "sell_date": "2024-01-03",
              "entry_price": 100, "exit_price": 101.5, "exit_reason": "take_profit", "profit_abs": 150}],
  "equity_curve_data": []
}`

func TestReadResultFile(t *testing.T) {
	dir := t.TempDir()

	raw := filepath.Join(dir, "raw.json")
	if err := os.WriteFile(raw, []byte(rawResult), 0644); err != nil {
		t.Fatal(err)
	}
	wrapped := filepath.Join(dir, "wrapped.json")
	if err := os.WriteFile(wrapped, []byte(`{"request": {}, "result": `+rawResult+`}`), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{raw, wrapped} {
		res, err := readResultFile(path)
		if err != nil {
			t.Fatalf("readResultFile(%s): %v", filepath.Base(path), err)
		}
		if len(res.Trades) != 1 || res.Trades[0].Ticker != "IBM" {
			t.Errorf("%s: trades = %+v", filepath.Base(path), res.Trades)
		}
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"trades": []}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readResultFile(bad); err == nil {
		t.Error("result without required fields accepted")
	}
}

func TestExportRecords(t *testing.T) {
	buy := 100.0
	records := []backtest.ChartRecord{
		{PricePoint: backtest.PricePoint{Date: "2024-01-02", Close: 100}, BuyPoint: &buy, Action: backtest.ActionBuy},
		{PricePoint: backtest.PricePoint{Date: "2024-01-03", Close: 101}},
	}
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "nested", "ibm.csv")
	if err := exportRecords(csvPath, records); err != nil {
		t.Fatalf("csv export: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Split(strings.TrimSpace(string(data)), "\n"); len(lines) != 3 {
		t.Errorf("csv has %d lines, want header + 2", len(lines))
	}

	pqPath := filepath.Join(dir, "ibm.parquet")
	if err := exportRecords(pqPath, records); err != nil {
		t.Fatalf("parquet export: %v", err)
	}
	back, err := chart.ReadParquet(pqPath)
	if err != nil {
		t.Fatalf("ReadParquet: %v", err)
	}
	if len(back) != 2 || back[0].BuyPoint == nil || *back[0].BuyPoint != 100 {
		t.Errorf("parquet round trip = %+v", back)
	}

	if err := exportRecords(filepath.Join(dir, "ibm.xlsx"), records); err == nil {
		t.Error("unsupported extension accepted")
	}
}

func TestSanitizeTicker(t *testing.T) {
	for in, want := range map[string]string{"^GDAXI": "GDAXI", "BRK.B": "BRK.B", "EUR=X": "EUR_X", "a/b": "ab"} {
		if got := sanitizeTicker(in); got != want {
			t.Errorf("sanitizeTicker(%q) = %q, want %q", in, got, want)
		}
	}
}
