// Package smaletf implements the SMA trend-following strategy with
// leveraged-ETF substitution: a binary risk-on/risk-off signal computed on a
// signal-generating index drives holding a different tradeable instrument.
// Risk-on while the index closes above its SMA, cash otherwise.
package smaletf

import (
	"fmt"
	"math"
	"time"

	"github.com/stratlab-io/stratlab/internal/indicator"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Strategy generates risk-on/off signal frames for a fixed configuration.
type Strategy struct {
	config Config
}

// New creates an SMA trend strategy, validating the configuration.
func New(config Config) (*Strategy, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Strategy{config: config}, nil
}

// Name returns the name of the strategy.
func (s *Strategy) Name() string {
	return fmt.Sprintf("SMA%d_%s_%s", s.config.SMAPeriod, s.config.SignalTicker, s.config.TradeTicker)
}

// Config returns the strategy's configuration record.
func (s *Strategy) Config() Config {
	return s.config
}

// CalculateSignals computes the SMA on the signal series, aligns the tradeable
// instrument's closes onto the signal dates, and emits the risk flag. Rows
// before the configured start date, inside the SMA warm-up, or without a
// matching trade close are dropped. The Signal column is the risk flag shifted
// forward one bar; trading happens the day after a cross.
func (s *Strategy) CalculateSignals(signalPrices, tradePrices types.PriceSeries) (*types.SignalFrame, error) {
	if err := signalPrices.Validate(); err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "signal series %s", s.config.SignalTicker)
	}
	if err := tradePrices.Validate(); err != nil {
		return nil, errors.Wrapf(errors.GetCode(err), err, "trade series %s", s.config.TradeTicker)
	}

	tradeCloseByDate := make(map[time.Time]float64, len(tradePrices))
	for _, pt := range tradePrices {
		tradeCloseByDate[pt.Date] = pt.Close
	}

	signalCloses := signalPrices.Closes()
	sma := indicator.RollingMean(signalCloses, s.config.SMAPeriod)

	frame := &types.SignalFrame{
		Indicators: map[string][]float64{
			types.ColSMA:         nil,
			types.ColSignalClose: nil,
			types.ColSignalRet:   nil,
		},
	}
	var smaCol, signalCloseCol, rawCol []float64
	for i, pt := range signalPrices {
		if s.config.StartDate.IsSome() && pt.Date.Before(s.config.StartDate.Unwrap()) {
			continue
		}
		if s.config.EndDate.IsSome() && pt.Date.After(s.config.EndDate.Unwrap()) {
			continue
		}
		tradeClose, ok := tradeCloseByDate[pt.Date]
		if !ok || math.IsNaN(sma[i]) {
			continue
		}

		risk := 0.0
		if pt.Close > sma[i] {
			risk = 1
		}

		frame.Dates = append(frame.Dates, pt.Date)
		frame.Close = append(frame.Close, tradeClose)
		rawCol = append(rawCol, risk)
		smaCol = append(smaCol, sma[i])
		signalCloseCol = append(signalCloseCol, pt.Close)
	}

	if len(frame.Dates) == 0 {
		return nil, errors.Newf(errors.ErrCodeInsufficientData,
			"no overlapping bars for %s/%s after SMA(%d) warm-up",
			s.config.SignalTicker, s.config.TradeTicker, s.config.SMAPeriod)
	}

	frame.RawSignal = rawCol
	frame.Signal = types.Shift(rawCol)
	frame.Returns = pctChange(frame.Close)
	frame.Indicators[types.ColSMA] = smaCol
	frame.Indicators[types.ColSignalClose] = signalCloseCol
	frame.Indicators[types.ColSignalRet] = pctChange(signalCloseCol)

	return frame, nil
}

func pctChange(values []float64) []float64 {
	return indicator.PctChange(values, 1)
}
