// Package rsimr implements the RSI mean-reversion strategy: enter long when
// RSI is oversold and price sits below the lower band, enter short when RSI is
// overbought and price sits above the upper band. The generator emits raw
// entry triggers only; exits (take profit, stop loss) are event-driven and
// belong to the trade simulator.
package rsimr

import (
	"fmt"
	"math"

	"github.com/stratlab-io/stratlab/internal/indicator"
	"github.com/stratlab-io/stratlab/internal/types"
)

// Strategy generates mean-reversion entry triggers for a fixed parameter record.
type Strategy struct {
	params Params
}

// New creates an RSI mean-reversion strategy, validating the parameters.
func New(params Params) (*Strategy, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Strategy{params: params}, nil
}

// Name returns the name of the strategy.
func (s *Strategy) Name() string {
	return fmt.Sprintf("RSI_MR_%d_%.0f_%.0f", s.params.RSIPeriod, s.params.Oversold, s.params.Overbought)
}

// Params returns the strategy's parameter record.
func (s *Strategy) Params() Params {
	return s.params
}

// CalculateSignals builds the signal frame: RSI, moving average, bands, and
// the RawSignal entry-trigger column. Bars whose indicators are still warming
// up never trigger an entry.
func (s *Strategy) CalculateSignals(prices types.PriceSeries) (*types.SignalFrame, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}

	closes := prices.Closes()
	rsi := indicator.RSI(closes, s.params.RSIPeriod)
	ma := indicator.RollingMean(closes, s.params.MAPeriod)
	std := indicator.RollingStd(closes, s.params.MAPeriod)

	upper := make([]float64, len(closes))
	lower := make([]float64, len(closes))
	raw := make([]float64, len(closes))
	for i := range closes {
		upper[i] = ma[i] + s.params.StdDevMultiplier*std[i]
		lower[i] = ma[i] - s.params.StdDevMultiplier*std[i]

		longCondition := !math.IsNaN(rsi[i]) && !math.IsNaN(lower[i]) &&
			rsi[i] < s.params.Oversold && closes[i] < lower[i]
		shortCondition := !math.IsNaN(rsi[i]) && !math.IsNaN(upper[i]) &&
			rsi[i] > s.params.Overbought && closes[i] > upper[i]

		switch {
		case longCondition && s.allowsLong():
			raw[i] = 1
		case shortCondition && s.allowsShort():
			raw[i] = -1
		default:
			raw[i] = 0
		}
	}

	return &types.SignalFrame{
		Dates:     prices.Dates(),
		Close:     closes,
		Returns:   prices.Returns(),
		RawSignal: raw,
		Indicators: map[string][]float64{
			types.ColRSI:       rsi,
			types.ColMA:        ma,
			types.ColStdDev:    std,
			types.ColUpperBand: upper,
			types.ColLowerBand: lower,
		},
	}, nil
}

func (s *Strategy) allowsLong() bool {
	return s.params.PositionType == PositionLongOnly || s.params.PositionType == PositionLongShort
}

func (s *Strategy) allowsShort() bool {
	return s.params.PositionType == PositionShortOnly || s.params.PositionType == PositionLongShort
}
