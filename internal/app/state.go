// Package app holds the dashboard's state machine.
//
// Reduce is pure: it never performs I/O. Remote calls are described by the
// returned Effect, executed by the host (the Bubble Tea model or Driver), and
// fed back as a resolution event carrying the sequence number it was issued
// with. A resolution whose sequence number is no longer the in-flight one for
// its slot is discarded.
package app

import (
	"errors"

	"github.com/Dallionking/sigma-optimizer/internal/aggregate"
	"github.com/Dallionking/sigma-optimizer/internal/backtest"
	"github.com/Dallionking/sigma-optimizer/internal/chart"
)

// DefaultTopN is how many instruments are offered for selection when
// State.TopN is unset.
const DefaultTopN = 5

// Phase is the lifecycle of one remote resource.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseLoaded
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseLoaded:
		return "loaded"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// OptimizationSlot tracks the current optimization run.
type OptimizationSlot struct {
	Phase   Phase
	Seq     uint64
	Request backtest.OptimizationRequest
	Result  *backtest.OptimizationResult
	Reason  string
}

// Empty reports a finished run that produced no trades.
func (o OptimizationSlot) Empty() bool {
	return o.Phase == PhaseLoaded && o.Result.IsEmpty()
}

// ChartSlot tracks the price chart of the selected instrument.
type ChartSlot struct {
	Phase   Phase
	Seq     uint64
	Ticker  string
	Records []backtest.ChartRecord
	Reason  string
}

// State is the whole dashboard state. The zero value is the initial state.
type State struct {
	Optimization OptimizationSlot
	Chart        ChartSlot
	// Selected is the instrument whose chart is shown or loading.
	Selected string
	// Instruments are the selectable tickers, most traded first.
	Instruments []string
	// TopN caps Instruments; zero means DefaultTopN.
	TopN int

	nextSeq uint64
}

// Busy reports whether any request is in flight.
func (s State) Busy() bool {
	return s.Optimization.Phase == PhaseLoading || s.Chart.Phase == PhaseLoading
}

// Event is an input to Reduce.
type Event interface{ event() }

// SubmitRequested starts a new optimization run.
type SubmitRequested struct {
	Request backtest.OptimizationRequest
}

// OptimizationResolved delivers the outcome of a SubmitEffect.
type OptimizationResolved struct {
	Seq    uint64
	Result *backtest.OptimizationResult
	Err    error
}

// InstrumentSelected asks for the chart of another traded instrument.
type InstrumentSelected struct {
	Ticker string
}

// PricesResolved delivers the outcome of a FetchPricesEffect.
type PricesResolved struct {
	Seq    uint64
	Ticker string
	Prices []backtest.PricePoint
	Err    error
}

func (SubmitRequested) event()      {}
func (OptimizationResolved) event() {}
func (InstrumentSelected) event()   {}
func (PricesResolved) event()       {}

// Effect is a remote call requested by Reduce.
type Effect interface{ effect() }

// SubmitEffect asks the host to post Request to the optimizer.
type SubmitEffect struct {
	Seq     uint64
	Request backtest.OptimizationRequest
}

// FetchPricesEffect asks the host to load the price series of Ticker.
type FetchPricesEffect struct {
	Seq    uint64
	Ticker string
}

func (SubmitEffect) effect()      {}
func (FetchPricesEffect) effect() {}

var errNoResult = errors.New("service returned no result")

// Reduce applies ev to s and returns the next state together with the remote
// call to start, if any.
func Reduce(s State, ev Event) (State, Effect) {
	switch ev := ev.(type) {
	case SubmitRequested:
		seq := s.issue()
		s.Optimization = OptimizationSlot{Phase: PhaseLoading, Seq: seq, Request: ev.Request}
		s.Chart = ChartSlot{}
		s.Selected = ""
		s.Instruments = nil
		return s, SubmitEffect{Seq: seq, Request: ev.Request}

	case OptimizationResolved:
		if IsStale(s, ev) {
			return s, nil
		}
		err := ev.Err
		if err == nil && ev.Result == nil {
			err = errNoResult
		}
		if err != nil {
			s.Optimization.Phase = PhaseFailed
			s.Optimization.Reason = err.Error()
			s.Chart = ChartSlot{}
			return s, nil
		}
		s.Optimization.Phase = PhaseLoaded
		s.Optimization.Result = ev.Result
		s.Instruments = aggregate.TopInstruments(ev.Result.Trades, s.topN())
		ticker, ok := aggregate.PickDefaultInstrument(ev.Result.Trades)
		if !ok {
			return s, nil
		}
		return s.loadChart(ticker)

	case InstrumentSelected:
		if s.Optimization.Phase != PhaseLoaded || s.Optimization.Result.IsEmpty() {
			return s, nil
		}
		if aggregate.CountByTicker(s.Optimization.Result.Trades)[ev.Ticker] == 0 {
			return s, nil
		}
		return s.loadChart(ev.Ticker)

	case PricesResolved:
		if IsStale(s, ev) {
			return s, nil
		}
		c := s.Chart
		if ev.Err != nil {
			s.Chart = ChartSlot{Phase: PhaseFailed, Seq: c.Seq, Ticker: c.Ticker, Reason: ev.Err.Error()}
			return s, nil
		}
		s.Chart = ChartSlot{
			Phase:   PhaseLoaded,
			Seq:     c.Seq,
			Ticker:  c.Ticker,
			Records: chart.Merge(ev.Prices, s.Optimization.Result.Trades, c.Ticker),
		}
		return s, nil
	}
	return s, nil
}

// IsStale reports whether ev is a resolution that Reduce would discard
// because a newer request has superseded it.
func IsStale(s State, ev Event) bool {
	switch ev := ev.(type) {
	case OptimizationResolved:
		return s.Optimization.Phase != PhaseLoading || s.Optimization.Seq != ev.Seq
	case PricesResolved:
		c := s.Chart
		return c.Phase != PhaseLoading || c.Seq != ev.Seq || c.Ticker != ev.Ticker
	}
	return false
}

func (s *State) issue() uint64 {
	s.nextSeq++
	return s.nextSeq
}

func (s State) loadChart(ticker string) (State, Effect) {
	seq := s.issue()
	s.Selected = ticker
	s.Chart = ChartSlot{Phase: PhaseLoading, Seq: seq, Ticker: ticker}
	return s, FetchPricesEffect{Seq: seq, Ticker: ticker}
}

func (s State) topN() int {
	if s.TopN > 0 {
		return s.TopN
	}
	return DefaultTopN
}
