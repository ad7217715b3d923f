package backtest

import (
	"math"

	"github.com/stratlab-io/stratlab/internal/indicator"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// CompileWeightedReturns builds the returns frame for signal-weighted
// strategies (TSM): daily strategy return = signal * position size *
// underlying return, benchmarked against buy-and-hold of the underlying.
func CompileWeightedReturns(frame *types.SignalFrame, baseValue float64) (*types.ReturnsFrame, error) {
	if frame.Len() == 0 {
		return nil, errors.New(errors.ErrCodeNoSignals, "no signals available: calculate signals first")
	}
	if frame.Signal == nil || frame.PositionSize == nil {
		return nil, errors.New(errors.ErrCodeNoSignals, "signal frame has no signal/position size columns")
	}

	strategy := make([]float64, frame.Len())
	for i := range strategy {
		strategy[i] = frame.Signal[i] * frame.PositionSize[i] * frame.Returns[i]
	}

	return compile(frame, strategy, baseValue), nil
}

// CompileTradeReturns builds the returns frame for the event-driven RSI
// strategy: inside each trade window the daily strategy return is the trade's
// direction times the underlying's daily return, zero outside any window.
//
// This daily attribution is authoritative for the equity curve; it does not
// compound to exactly the trade's entry/exit ReturnPct over multi-day trades,
// which is used only for trade statistics.
func CompileTradeReturns(frame *types.SignalFrame, trades []types.TradeRecord, baseValue float64) (*types.ReturnsFrame, error) {
	if frame.Len() == 0 {
		return nil, errors.New(errors.ErrCodeNoSignals, "no signals available: calculate signals first")
	}
	if trades == nil {
		return nil, errors.New(errors.ErrCodeNoTrades, "no trades available: simulate trades first")
	}

	strategy := make([]float64, frame.Len())
	for _, trade := range trades {
		direction := 1.0
		if trade.Direction == types.DirectionShort {
			direction = -1
		}

		for i, d := range frame.Dates {
			if d.Before(trade.EntryDate) || d.After(trade.ExitDate) {
				continue
			}
			strategy[i] = direction * frame.Returns[i]
		}
	}

	return compile(frame, strategy, baseValue), nil
}

// CompileSwitchedReturns builds the returns frame for the SMA trend strategy:
// the LETF's return while risk-on, the daily risk-free rate while flat. The
// risk flag is the pre-shifted Signal column, so day t uses the stance decided
// at the close of day t-1. The signal index's buy-and-hold curve is kept as a
// second benchmark.
func CompileSwitchedReturns(frame *types.SignalFrame, riskFreeRate, baseValue float64) (*types.ReturnsFrame, error) {
	if frame.Len() == 0 {
		return nil, errors.New(errors.ErrCodeNoSignals, "no signals available: calculate signals first")
	}
	if frame.Signal == nil {
		return nil, errors.New(errors.ErrCodeNoSignals, "signal frame has no shifted signal column")
	}

	dailyRF := math.Pow(1+riskFreeRate, 1.0/indicator.TradingDaysPerYear) - 1

	strategy := make([]float64, frame.Len())
	for i := range strategy {
		if frame.Signal[i] == 1 {
			strategy[i] = frame.Returns[i]
		} else {
			strategy[i] = dailyRF
		}
	}

	out := compile(frame, strategy, baseValue)
	if indexReturns := frame.Indicator(types.ColSignalRet); indexReturns != nil {
		out.IndexBenchmarkReturn = indexReturns
		out.CumulativeIndexBenchmark = cumulate(indexReturns, baseValue)
	}

	return out, nil
}

// compile assembles the cumulative curves, running peak, and drawdown from the
// daily strategy returns and the frame's underlying (benchmark) returns.
// Undefined daily returns contribute zero to the cumulative product.
func compile(frame *types.SignalFrame, strategy []float64, baseValue float64) *types.ReturnsFrame {
	if baseValue <= 0 {
		baseValue = types.DefaultBaseValue
	}

	out := &types.ReturnsFrame{
		Dates:               frame.Dates,
		StrategyReturn:      strategy,
		BenchmarkReturn:     frame.Returns,
		CumulativeStrategy:  cumulate(strategy, baseValue),
		CumulativeBenchmark: cumulate(frame.Returns, baseValue),
		BaseValue:           baseValue,
	}

	out.Peak = make([]float64, len(strategy))
	out.Drawdown = make([]float64, len(strategy))
	peak := math.Inf(-1)
	for i, v := range out.CumulativeStrategy {
		if v > peak {
			peak = v
		}
		out.Peak[i] = peak
		out.Drawdown[i] = (v - peak) / peak
	}

	return out
}

func cumulate(returns []float64, baseValue float64) []float64 {
	out := make([]float64, len(returns))
	value := baseValue
	for i, r := range returns {
		if !math.IsNaN(r) {
			value *= 1 + r
		}
		out[i] = value
	}

	return out
}
