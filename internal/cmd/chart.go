package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/sigma-optimizer/internal/app"
	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/chart"
	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
	"github.com/Dallionking/sigma-optimizer/internal/tui/views"
)

var (
	chartParams paramFlags
	chartTrades string
	chartOut    string
	chartFormat string
	chartJSON   bool
	chartWidth  int
)

var chartCmd = &cobra.Command{
	Use:   "chart <ticker>",
	Short: "Merge a ticker's prices with its trades",
	Long: `Fetch the daily price series of a ticker and mark the days a trade
was opened (buy) or closed (sell).

Trades come from --trades, a saved optimization result (the "result" of
'optimize --json' or a raw /optimize response). Without it an optimization
is run first with the same flags as 'optimize'.

Output:
  default      price chart with buy/sell markers
  --json       merged records as JSON
  --out FILE   export to FILE (.csv or .parquet)
  --format F   export to exports/<ticker>.F in the project root`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker := strings.TrimSpace(args[0])
		root, cfg, err := loadConfig()
		if err != nil {
			return err
		}

		log := newLogger()
		ctx, cancel := signalContext()
		defer cancel()
		svc := newClient(cfg, log)

		var records []backtest.ChartRecord
		if chartTrades != "" {
			res, err := readResultFile(chartTrades)
			if err != nil {
				return err
			}
			prices, err := svc.FetchPriceSeries(ctx, ticker)
			if err != nil {
				return err
			}
			records = chart.Merge(prices, res.Trades, ticker)
		} else {
			req, err := chartParams.request(cmd, cfg)
			if err != nil {
				return err
			}
			driver := app.NewDriver(svc, cfg.Dashboard.TopInstruments, log)
			s := driver.Dispatch(ctx, app.SubmitRequested{Request: req})
			if s.Optimization.Phase == app.PhaseFailed {
				return fmt.Errorf("%w: %s", errOptimizationFailed, s.Optimization.Reason)
			}
			if s.Chart.Ticker != ticker {
				s = driver.Dispatch(ctx, app.InstrumentSelected{Ticker: ticker})
			}
			switch {
			case s.Chart.Ticker == ticker && s.Chart.Phase == app.PhaseLoaded:
				records = s.Chart.Records
			case s.Chart.Ticker == ticker && s.Chart.Phase == app.PhaseFailed:
				return fmt.Errorf("loading %s: %s", ticker, s.Chart.Reason)
			default:
				// The ticker did not trade, so there is no chart in the state
				// machine; show its prices without markers.
				log.Info().Str("ticker", ticker).Msg("no trades for ticker")
				prices, err := svc.FetchPriceSeries(ctx, ticker)
				if err != nil {
					return err
				}
				records = chart.Merge(prices, s.Optimization.Result.Trades, ticker)
			}
		}

		out := chartOut
		if out == "" && chartFormat != "" {
			out = filepath.Join(config.NewPaths(root).Exports, sanitizeTicker(ticker)+"."+chartFormat)
		}
		if out != "" {
			if err := exportRecords(out, records); err != nil {
				return err
			}
			mc := chart.Markers(records)
			fmt.Printf("%s %d records (%d buys, %d sells) to %s\n",
				styles.Green("Wrote"), len(records), mc.Buys, mc.Sells, styles.Value.Render(out))
			return nil
		}

		if chartJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(records)
		}
		fmt.Println(views.RenderChart(ticker, records, chartWidth))
		return nil
	},
}

// readResultFile loads trades from a saved result: either the --json output
// of optimize or a raw /optimize body.
func readResultFile(path string) (*backtest.OptimizationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading trades: %w", err)
	}
	var wrapped struct {
		Result json.RawMessage `json:"result"`
	}
	if json.Unmarshal(data, &wrapped) == nil && len(wrapped.Result) > 0 && string(wrapped.Result) != "null" {
		data = wrapped.Result
	}
	res, err := backtest.DecodeOptimizationResult(data)
	if err != nil {
		return nil, fmt.Errorf("reading trades from %s: %w", path, err)
	}
	return res, nil
}

func exportRecords(path string, records []backtest.ChartRecord) error {
	format, err := chart.ExportFormat(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if format == "parquet" {
		return chart.WriteParquet(path, records)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := chart.WriteCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// sanitizeTicker makes a ticker safe as a file name: "^GDAXI" -> "GDAXI".
func sanitizeTicker(t string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '.':
			return r
		case r == '=' || r == '_':
			return '_'
		}
		return -1
	}, t)
}

func init() {
	chartParams.register(chartCmd)
	chartCmd.Flags().StringVar(&chartTrades, "trades", "", "saved optimization result to take trades from")
	chartCmd.Flags().StringVar(&chartOut, "out", "", "export file (.csv or .parquet)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "", "export to the exports directory: csv or parquet")
	chartCmd.Flags().BoolVar(&chartJSON, "json", false, "print merged records as JSON")
	chartCmd.Flags().IntVar(&chartWidth, "width", 100, "render width")
	rootCmd.AddCommand(chartCmd)
}
