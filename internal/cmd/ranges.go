package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/client"
	"github.com/Dallionking/sigma-optimizer/internal/config"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

// paramFlags are the request overrides shared by optimize and chart.
type paramFlags struct {
	preset  string
	tickers string
	drop    string
	hold    string
	tp      string
	capital float64
}

func (p *paramFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&p.preset, "preset", "", "preset to start from (default: activePreset)")
	f.StringVar(&p.tickers, "tickers", "", `comma-separated tickers, e.g. "MSFT, IBM"`)
	f.StringVar(&p.drop, "drop", "", "drop % range as min:max:step")
	f.StringVar(&p.hold, "hold", "", "hold days range as min:max:step")
	f.StringVar(&p.tp, "tp", "", "take-profit % range as min:max:step")
	f.Float64Var(&p.capital, "capital", 0, "initial capital")
}

// request layers the flags over the selected preset and builds the request.
func (p *paramFlags) request(cmd *cobra.Command, cfg *config.Config) (backtest.OptimizationRequest, error) {
	preset, err := cfg.Active()
	if p.preset != "" {
		var ok bool
		if preset, ok = cfg.Presets[p.preset]; !ok {
			return backtest.OptimizationRequest{}, fmt.Errorf("preset %q not found; available: %v", p.preset, cfg.PresetNames())
		}
	} else if err != nil {
		return backtest.OptimizationRequest{}, err
	}

	if cmd.Flags().Changed("tickers") {
		preset.Tickers = p.tickers
	}
	for _, o := range []struct {
		flag string
		raw  string
		dst  *grid.Range
	}{
		{"drop", p.drop, &preset.Drop},
		{"hold", p.hold, &preset.Hold},
		{"tp", p.tp, &preset.TakeProfit},
	} {
		if !cmd.Flags().Changed(o.flag) {
			continue
		}
		r, err := parseRange(o.raw)
		if err != nil {
			return backtest.OptimizationRequest{}, fmt.Errorf("--%s: %w", o.flag, err)
		}
		*o.dst = r
	}
	if cmd.Flags().Changed("capital") {
		preset.Capital = p.capital
	}

	return client.BuildRequest(preset.Instruments(), preset.Drop, preset.Hold, preset.TakeProfit, preset.Capital)
}

// parseRange reads "min:max:step".
func parseRange(s string) (grid.Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return grid.Range{}, fmt.Errorf("%w: range %q must be min:max:step", grid.ErrInvalidArgument, s)
	}
	var v [3]float64
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return grid.Range{}, fmt.Errorf("%w: range %q: %q is not a number", grid.ErrInvalidArgument, s, part)
		}
		v[i] = f
	}
	return grid.Range{Min: v[0], Max: v[1], Step: v[2]}, nil
}
