// Package tsm implements the time-series momentum strategy: long when past
// returns are positive, short or cash when negative, with volatility-scaled
// position sizing and a holding-period filter on signal changes.
package tsm

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratlab/internal/indicator"
	"github.com/stratlab-io/stratlab/internal/types"
)

const (
	tradingDaysPerMonth = 21
	// volatilityFloor prevents explosive position sizes in near-zero
	// volatility regimes.
	volatilityFloor = 0.05
	maxPositionSize = 2.0
)

// Strategy generates TSM signal frames for a fixed parameter record.
type Strategy struct {
	params Params
}

// New creates a TSM strategy, validating the parameters.
func New(params Params) (*Strategy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Strategy{params: params}, nil
}

// Name returns the name of the strategy.
func (s *Strategy) Name() string {
	return fmt.Sprintf("TSM_%dm_%dd", s.params.LookbackMonths, s.params.HoldingPeriodDays)
}

// Params returns the strategy's parameter record.
func (s *Strategy) Params() Params {
	return s.params
}

// CalculateSignals builds the TSM signal frame from a price series, optionally
// restricted to a date range. The Signal and PositionSize columns are shifted
// forward one bar: the position held on day t reflects only information
// available at the close of day t-1.
func (s *Strategy) CalculateSignals(prices types.PriceSeries, start, end optional.Option[time.Time]) (*types.SignalFrame, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	prices = prices.Between(start, end)
	if err := prices.Validate(); err != nil {
		return nil, err
	}

	closes := prices.Closes()
	returns := prices.Returns()

	lookbackDays := s.params.LookbackMonths * tradingDaysPerMonth
	momentum := indicator.PctChange(closes, lookbackDays)
	volatility := indicator.AnnualizedVolatility(
		indicator.RollingStd(returns, s.params.VolatilityWindow), volatilityFloor)

	raw := s.rawSignals(momentum)
	filtered := applyHoldingPeriod(raw, s.params.HoldingPeriodDays)
	size := s.positionSizes(filtered, volatility)

	return &types.SignalFrame{
		Dates:        prices.Dates(),
		Close:        closes,
		Returns:      returns,
		RawSignal:    filtered,
		Signal:       types.Shift(filtered),
		PositionSize: types.Shift(size),
		Indicators: map[string][]float64{
			types.ColMomentum:   momentum,
			types.ColVolatility: volatility,
		},
	}, nil
}

// rawSignals maps momentum onto directional stances. In long/cash mode an
// undefined momentum maps to cash; in long/short mode it stays undefined.
func (s *Strategy) rawSignals(momentum []float64) []float64 {
	out := make([]float64, len(momentum))
	for i, m := range momentum {
		switch s.params.PositionType {
		case PositionLongCash:
			if m > 0 {
				out[i] = 1
			} else {
				out[i] = 0
			}
		default:
			switch {
			case math.IsNaN(m):
				out[i] = math.NaN()
			case m > 0:
				out[i] = 1
			case m < 0:
				out[i] = -1
			default:
				out[i] = 0
			}
		}
	}

	return out
}

func (s *Strategy) positionSizes(signals, volatility []float64) []float64 {
	out := make([]float64, len(signals))
	for i, sig := range signals {
		if !s.params.EnableVolatilityScaling {
			out[i] = math.Abs(sig)
			continue
		}

		scale := s.params.VolatilityTarget / volatility[i]
		out[i] = math.Min(scale, maxPositionSize) * math.Abs(sig)
	}

	return out
}

// applyHoldingPeriod walks the signal sequence forward, accepting a new signal
// value only when at least holdingDays bars have elapsed since the last
// accepted change; otherwise the last accepted value holds. Undefined entries
// are passed through untouched. A longer holding period never increases the
// accepted-change count for the NaN-prefixed, run-length signal shapes the
// momentum pipeline produces; densely alternating inputs can resonate with
// the acceptance walk and break that monotonicity.
func applyHoldingPeriod(signals []float64, holdingDays int) []float64 {
	if holdingDays <= 1 {
		return signals
	}

	out := slices.Clone(signals)
	lastChange := 0
	last := 0.0
	for i, sig := range signals {
		if math.IsNaN(sig) {
			continue
		}

		if i == 0 || i-lastChange >= holdingDays {
			if sig != last {
				lastChange = i
				last = sig
			}
		}
		out[i] = last
	}

	return out
}
