package client

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/grid"
)

// ParseInstruments splits a comma-separated ticker list as typed by a user.
func ParseInstruments(s string) []string {
	return CleanInstruments(strings.Split(s, ","))
}

// CleanInstruments trims each entry and drops empty ones, keeping order.
func CleanInstruments(raw []string) []string {
	trimmed := lo.Map(raw, func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Compact(trimmed)
}

// BuildRequest validates the user inputs and expands the parameter ranges.
// Errors wrap grid.ErrInvalidArgument.
func BuildRequest(instruments []string, drop, hold, tp grid.Range, capital float64) (backtest.OptimizationRequest, error) {
	var req backtest.OptimizationRequest

	tickers := CleanInstruments(instruments)
	if len(tickers) == 0 {
		return req, fmt.Errorf("%w: at least one instrument is required", grid.ErrInvalidArgument)
	}
	if !(capital > 0) {
		return req, fmt.Errorf("%w: initial capital must be > 0, got %g", grid.ErrInvalidArgument, capital)
	}

	ranges := []struct {
		name string
		r    grid.Range
		dst  *[]float64
	}{
		{"drop", drop, &req.DropOptions},
		{"hold", hold, &req.HoldOptions},
		{"take-profit", tp, &req.TakeProfitOptions},
	}
	for _, x := range ranges {
		vals, err := x.r.Values()
		if err != nil {
			return backtest.OptimizationRequest{}, fmt.Errorf("%s range: %w", x.name, err)
		}
		if len(vals) == 0 {
			return backtest.OptimizationRequest{}, fmt.Errorf("%w: %s range %s is empty (min > max)", grid.ErrInvalidArgument, x.name, x.r)
		}
		*x.dst = vals
	}

	req.Tickers = tickers
	req.InitialCapital = capital
	return req, nil
}
