package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

const okResult = `{"roi_pct":12.5,"total_profit":1250,"win_rate":50,"total_trades":2,
"best_drop":5,"best_hold":250,"best_tp":6,
"trades":[
 {"ticker":"MSFT","buy_date":"2024-01-01","sell_date":"2024-01-02","entry_price":100,"exit_price":105,"exit_reason":"TP","profit_abs":50},
 {"ticker":"IBM","buy_date":"2024-01-03","sell_date":"2024-01-04","entry_price":10,"exit_price":9,"exit_reason":"Time","profit_abs":-10}],
"equity_curve_data":[{"date":"2024-01-01","equity":10000,"buy_and_hold":10000}]}`

func newTestClient(url string) *Client {
	return New(url, 5*time.Second, zerolog.Nop())
}

func TestSubmitOptimization(t *testing.T) {
	var got backtest.OptimizationRequest
	mux := http.NewServeMux()
	mux.HandleFunc("/optimize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID")
		}
		body, _ := io.ReadAll(r.Body)
		var raw map[string]any
		if err := json.Unmarshal(body, &raw); err != nil {
			t.Errorf("body: %v", err)
		}
		for _, k := range []string{"tickers", "drop_options", "hold_options", "take_profit_options", "initial_capital"} {
			if _, ok := raw[k]; !ok {
				t.Errorf("request missing %q", k)
			}
		}
		_ = json.Unmarshal(body, &got)
		_, _ = io.WriteString(w, okResult)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := newTestClient(srv.URL)
	res, err := c.Submit(context.Background(),
		[]string{" MSFT", "IBM ", "", "^GDAXI"},
		grid.Range{Min: 5, Max: 8, Step: 1},
		grid.Range{Min: 250, Max: 255, Step: 5},
		grid.Range{Min: 5, Max: 8, Step: 1},
		10000,
	)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.TotalTrades != 2 || res.Trades[0].Ticker != "MSFT" {
		t.Fatalf("result = %+v", res)
	}
	if !reflect.DeepEqual(got.Tickers, []string{"MSFT", "IBM", "^GDAXI"}) {
		t.Fatalf("tickers = %v", got.Tickers)
	}
	if !reflect.DeepEqual(got.HoldOptions, []float64{250, 255}) {
		t.Fatalf("hold = %v", got.HoldOptions)
	}
	if !reflect.DeepEqual(got.DropOptions, []float64{5, 6, 7, 8}) {
		t.Fatalf("drop = %v", got.DropOptions)
	}
	if got.InitialCapital != 10000 {
		t.Fatalf("capital = %v", got.InitialCapital)
	}
}

func TestSubmitOptimizationFailures(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"not found detail", http.StatusNotFound, `{"detail":"Keine profitablen Trades gefunden."}`, "Keine profitablen"},
		{"validation detail", http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","tickers"],"msg":"field required"}]}`, "invalid request"},
		{"server error", http.StatusInternalServerError, `Internal Server Error`, "Internal Server Error"},
		{"malformed body", http.StatusOK, `{"roi_pct": 1}`, "malformed response"},
		{"html body", http.StatusOK, `<html></html>`, "malformed response"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			req := backtest.OptimizationRequest{Tickers: []string{"X"}, DropOptions: []float64{1}, HoldOptions: []float64{1}, TakeProfitOptions: []float64{1}, InitialCapital: 1}
			_, err := newTestClient(srv.URL).SubmitOptimization(context.Background(), req)
			if !errors.Is(err, ErrRequestFailed) {
				t.Fatalf("want ErrRequestFailed, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tc.wantMsg)
			}
			var re *RequestError
			if !errors.As(err, &re) || re.Op != "optimize" {
				t.Fatalf("want *RequestError for optimize, got %#v", err)
			}
		})
	}
}

func TestSubmitOptimizationUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req := backtest.OptimizationRequest{Tickers: []string{"X"}, InitialCapital: 1}
	_, err := newTestClient(url).SubmitOptimization(context.Background(), req)
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("want ErrRequestFailed, got %v", err)
	}
}

func TestFetchPriceSeries(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = io.WriteString(w, `[{"date":"2024-01-01","open":1,"high":2,"low":0.5,"close":1.5},{"date":"2024-01-02","open":1.5,"high":2,"low":1,"close":1.8}]`)
	}))
	defer srv.Close()

	pts, err := newTestClient(srv.URL).FetchPriceSeries(context.Background(), "^GDAXI")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(pts) != 2 || pts[1].Close != 1.8 {
		t.Fatalf("points = %+v", pts)
	}
	if gotPath != "/chart/%5EGDAXI" {
		t.Fatalf("path = %q", gotPath)
	}
}

func TestFetchPriceSeriesFailures(t *testing.T) {
	cases := map[string]struct {
		status int
		body   string
	}{
		"not found":    {http.StatusNotFound, `{"detail":"Ticker nicht gefunden."}`},
		"unsorted":     {http.StatusOK, `[{"date":"2024-01-02","close":1},{"date":"2024-01-01","close":1}]`},
		"not an array": {http.StatusOK, `{"date":"2024-01-01"}`},
	}
	for name, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = io.WriteString(w, tc.body)
		}))
		_, err := newTestClient(srv.URL).FetchPriceSeries(context.Background(), "X")
		srv.Close()
		if !errors.Is(err, ErrRequestFailed) {
			t.Errorf("%s: want ErrRequestFailed, got %v", name, err)
		}
	}
}

func TestContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := newTestClient(srv.URL).FetchPriceSeries(ctx, "X")
	if !errors.Is(err, ErrRequestFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("want deadline request failure, got %v", err)
	}
}

func TestBuildRequestValidation(t *testing.T) {
	ok := grid.Range{Min: 1, Max: 2, Step: 1}
	cases := map[string]struct {
		instruments []string
		drop        grid.Range
		capital     float64
	}{
		"no instruments":   {[]string{" ", ""}, ok, 100},
		"zero step":        {[]string{"X"}, grid.Range{Min: 1, Max: 2, Step: 0}, 100},
		"empty range":      {[]string{"X"}, grid.Range{Min: 3, Max: 2, Step: 1}, 100},
		"non-positive cap": {[]string{"X"}, ok, 0},
	}
	for name, tc := range cases {
		_, err := BuildRequest(tc.instruments, tc.drop, ok, ok, tc.capital)
		if !errors.Is(err, grid.ErrInvalidArgument) {
			t.Errorf("%s: want ErrInvalidArgument, got %v", name, err)
		}
	}

	req, err := BuildRequest([]string{"X"}, ok, ok, ok, 1)
	if err != nil {
		t.Fatal(err)
	}
	if req.Combinations() != 8 {
		t.Fatalf("combinations = %d", req.Combinations())
	}
}

func TestParseInstruments(t *testing.T) {
	got := ParseInstruments("MSFT, IBM , ,^GDAXI,")
	want := []string{"MSFT", "IBM", "^GDAXI"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
