package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dallionking/sigma-optimizer/internal/aggregate"
	"github.com/Dallionking/sigma-optimizer/internal/app"
	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/report"
	"github.com/Dallionking/sigma-optimizer/internal/tui/styles"
	"github.com/Dallionking/sigma-optimizer/internal/tui/views"
)

var (
	optimizeParams  paramFlags
	optimizeJSON    bool
	optimizeWidth   int
	optimizeNoChart bool
)

// errOptimizationFailed is returned when the service rejected or failed the run.
var errOptimizationFailed = errors.New("optimization failed")

// optimizeOutput is the --json document.
type optimizeOutput struct {
	Request     backtest.OptimizationRequest `json:"request"`
	Result      *backtest.OptimizationResult `json:"result"`
	Instruments []aggregate.InstrumentCount  `json:"instruments"`
	Selected    string                       `json:"selected,omitempty"`
	Chart       []backtest.ChartRecord       `json:"chart,omitempty"`
	ChartError  string                       `json:"chartError,omitempty"`
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Run one optimization and print the best parameter set",
	Long: `Submit the active preset (or the ranges given by flags) to the
optimizer and print a report: KPIs, best drop / hold / take-profit, equity
against buy and hold, per-instrument trade counts and the trade list.

The most traded instrument is charted below the report unless --no-chart
is set. --json prints the raw result, ranking and merged chart instead.

Examples:
  sigma-optimizer optimize
  sigma-optimizer optimize --tickers "AAPL, MSFT" --drop 3:6:1 --hold 20:60:20
  sigma-optimizer optimize --preset dax --json > result.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig()
		if err != nil {
			return err
		}
		req, err := optimizeParams.request(cmd, cfg)
		if err != nil {
			return err
		}

		log := newLogger()
		ctx, cancel := signalContext()
		defer cancel()

		driver := app.NewDriver(newClient(cfg, log), cfg.Dashboard.TopInstruments, log)
		if optimizeNoChart {
			// Resolve only the submit effect; the chart request it leads to is
			// never run.
			var eff app.Effect
			driver.State, eff = app.Reduce(driver.State, app.SubmitRequested{Request: req})
			driver.State, _ = app.Reduce(driver.State, app.Run(ctx, driver.Service, eff))
		} else {
			driver.Dispatch(ctx, app.SubmitRequested{Request: req})
		}
		s := driver.State

		if s.Optimization.Phase == app.PhaseFailed {
			return fmt.Errorf("%w: %s", errOptimizationFailed, s.Optimization.Reason)
		}
		res := s.Optimization.Result

		if optimizeJSON {
			out := optimizeOutput{
				Request:     req,
				Result:      res,
				Instruments: aggregate.Rank(res.Trades),
				Selected:    s.Selected,
			}
			switch s.Chart.Phase {
			case app.PhaseLoaded:
				out.Chart = s.Chart.Records
			case app.PhaseFailed:
				out.ChartError = s.Chart.Reason
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		fmt.Println(report.Render(report.Markdown(req, res), optimizeWidth))
		if !res.IsEmpty() {
			fmt.Println(views.RenderEquity(res, optimizeWidth))
		}
		switch s.Chart.Phase {
		case app.PhaseLoaded:
			fmt.Println(views.RenderChart(s.Chart.Ticker, s.Chart.Records, optimizeWidth))
		case app.PhaseFailed:
			fmt.Println(styles.Gold("Chart unavailable for "+s.Chart.Ticker) + "  " + styles.Dim(s.Chart.Reason))
		}
		return nil
	},
}

func init() {
	optimizeParams.register(optimizeCmd)
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "output the result as JSON")
	optimizeCmd.Flags().IntVar(&optimizeWidth, "width", 100, "render width")
	optimizeCmd.Flags().BoolVar(&optimizeNoChart, "no-chart", false, "skip loading the chart of the most traded instrument")
	rootCmd.AddCommand(optimizeCmd)
}
