package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/Dallionking/sigma-optimizer/internal/client"
)

// Run performs eff against svc and returns the event that resolves it, or nil
// for a nil effect.
func Run(ctx context.Context, svc client.Service, eff Effect) Event {
	switch e := eff.(type) {
	case SubmitEffect:
		res, err := svc.SubmitOptimization(ctx, e.Request)
		return OptimizationResolved{Seq: e.Seq, Result: res, Err: err}
	case FetchPricesEffect:
		prices, err := svc.FetchPriceSeries(ctx, e.Ticker)
		return PricesResolved{Seq: e.Seq, Ticker: e.Ticker, Prices: prices, Err: err}
	}
	return nil
}

// Driver runs the state machine synchronously. Each dispatched event is
// reduced and its effects executed until the machine settles, which suits
// the non-interactive commands.
type Driver struct {
	Service client.Service
	State   State
	Log     zerolog.Logger
}

// NewDriver creates a Driver offering topN instruments.
func NewDriver(svc client.Service, topN int, log zerolog.Logger) *Driver {
	return &Driver{Service: svc, State: State{TopN: topN}, Log: log}
}

// Dispatch applies ev and every follow-up resolution, then returns the
// settled state.
func (d *Driver) Dispatch(ctx context.Context, ev Event) State {
	for ev != nil {
		var eff Effect
		d.State, eff = Reduce(d.State, ev)
		d.Log.Debug().
			Str("optimization", d.State.Optimization.Phase.String()).
			Str("chart", d.State.Chart.Phase.String()).
			Str("selected", d.State.Selected).
			Msgf("%T", ev)
		ev = Run(ctx, d.Service, eff)
	}
	return d.State
}
