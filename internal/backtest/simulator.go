// Package backtest turns signal frames into trade logs, daily return frames,
// and performance metrics. Each stage consumes its predecessor's output as an
// explicit argument and produces a new immutable value; nothing here mutates
// its inputs.
package backtest

import (
	"math"
	"time"

	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// ExitRules holds the percentage thresholds that force an exit from an open
// position. Take profit is checked before stop loss on a given bar: with only
// daily closes the true intraday order is unknown, so profit-taking wins.
type ExitRules struct {
	TakeProfitPct float64
	StopLossPct   float64
}

// position is the simulator's single-position state: 0 flat, +1 long, -1 short.
type position struct {
	direction  float64
	entryDate  time.Time
	entryPrice float64
}

func (p *position) open() bool {
	return p.direction != 0
}

func (p *position) tradeDirection() types.TradeDirection {
	if p.direction > 0 {
		return types.DirectionLong
	}

	return types.DirectionShort
}

// ReplaySignals converts a pre-shifted signal sequence (TSM, SMA trend) into
// discrete trade records. A position opens when the signal becomes non-zero,
// closes on a signal change, and transitions flat-to-open on the same bar. Any
// position still open at the final bar is liquidated with an end-of-period
// exit.
func ReplaySignals(frame *types.SignalFrame) ([]types.TradeRecord, error) {
	if frame.Len() == 0 {
		return nil, errors.New(errors.ErrCodeNoSignals, "no signals available: calculate signals first")
	}
	if frame.Signal == nil {
		return nil, errors.New(errors.ErrCodeNoSignals, "signal frame has no shifted signal column")
	}

	trades := []types.TradeRecord{}
	var pos position
	for i, sig := range frame.Signal {
		if math.IsNaN(sig) || math.IsNaN(frame.Close[i]) {
			continue
		}

		if sig == pos.direction {
			continue
		}

		if pos.open() {
			trades = append(trades, types.NewTradeRecord(
				pos.entryDate, frame.Dates[i], pos.entryPrice, frame.Close[i],
				pos.tradeDirection(), types.ExitSignalChange))
			pos = position{}
		}
		if sig != 0 {
			pos = position{direction: sig, entryDate: frame.Dates[i], entryPrice: frame.Close[i]}
		}
	}

	return closeAtEnd(trades, frame, pos), nil
}

// ReplayTriggers converts raw entry triggers (RSI mean-reversion) into trade
// records. While a position is open each bar is first checked against the exit
// rules; an exit bar never re-enters, so flat-to-flat requires at least one
// bar gap. While flat, a non-zero trigger opens a position at that day's
// close.
func ReplayTriggers(frame *types.SignalFrame, rules ExitRules) ([]types.TradeRecord, error) {
	if frame.Len() == 0 {
		return nil, errors.New(errors.ErrCodeNoSignals, "no signals available: calculate signals first")
	}
	if frame.RawSignal == nil {
		return nil, errors.New(errors.ErrCodeNoSignals, "signal frame has no raw trigger column")
	}

	trades := []types.TradeRecord{}
	var pos position
	for i, trigger := range frame.RawSignal {
		if math.IsNaN(trigger) || math.IsNaN(frame.Close[i]) {
			continue
		}

		if pos.open() {
			movePct := types.TradeReturnPct(pos.entryPrice, frame.Close[i], pos.tradeDirection())

			if rules.TakeProfitPct > 0 && movePct >= rules.TakeProfitPct {
				trades = append(trades, types.NewTradeRecord(
					pos.entryDate, frame.Dates[i], pos.entryPrice, frame.Close[i],
					pos.tradeDirection(), types.ExitTakeProfit))
				pos = position{}
				continue
			}
			if rules.StopLossPct > 0 && movePct <= -rules.StopLossPct {
				trades = append(trades, types.NewTradeRecord(
					pos.entryDate, frame.Dates[i], pos.entryPrice, frame.Close[i],
					pos.tradeDirection(), types.ExitStopLoss))
				pos = position{}
				continue
			}

			continue
		}

		if trigger != 0 {
			pos = position{direction: trigger, entryDate: frame.Dates[i], entryPrice: frame.Close[i]}
		}
	}

	return closeAtEnd(trades, frame, pos), nil
}

// closeAtEnd liquidates a still-open position at the final bar.
func closeAtEnd(trades []types.TradeRecord, frame *types.SignalFrame, pos position) []types.TradeRecord {
	if !pos.open() {
		return trades
	}

	last := frame.Len() - 1

	return append(trades, types.NewTradeRecord(
		pos.entryDate, frame.Dates[last], pos.entryPrice, frame.Close[last],
		pos.tradeDirection(), types.ExitEndOfPeriod))
}
