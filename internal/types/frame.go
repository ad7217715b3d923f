package types

import (
	"math"
	"time"

	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Indicator column names used by the signal generators.
const (
	ColMomentum    = "momentum"
	ColVolatility  = "volatility"
	ColRSI         = "rsi"
	ColMA          = "ma"
	ColStdDev      = "std"
	ColUpperBand   = "upper_band"
	ColLowerBand   = "lower_band"
	ColSMA         = "sma"
	ColSignalClose = "signal_close"
	ColSignalRet   = "signal_return"
)

// SignalFrame is a date-indexed table produced by a signal generator. All
// columns are aligned to Dates; undefined warm-up values carry NaN.
//
// Signal holds the tradeable stance for each day: for the calendar-driven
// strategies (TSM, SMA trend) it is already shifted forward one bar so the
// position on day t reflects information known at the close of day t-1.
// RawSignal holds the unshifted value; for the event-driven RSI strategy it is
// the entry trigger and Signal is left nil, since exits are decided by the
// trade simulator.
type SignalFrame struct {
	Dates        []time.Time
	Close        []float64
	Returns      []float64
	Signal       []float64
	RawSignal    []float64
	PositionSize []float64
	Indicators   map[string][]float64
}

// Len returns the number of rows in the frame.
func (f *SignalFrame) Len() int {
	if f == nil {
		return 0
	}

	return len(f.Dates)
}

// Indicator returns the named indicator column, or nil if absent.
func (f *SignalFrame) Indicator(name string) []float64 {
	if f == nil || f.Indicators == nil {
		return nil
	}

	return f.Indicators[name]
}

// Validate checks that every populated column matches the date index length.
func (f *SignalFrame) Validate() error {
	if f.Len() == 0 {
		return errors.New(errors.ErrCodeNoSignals, "signal frame is empty")
	}

	n := len(f.Dates)
	columns := [][]float64{f.Close, f.Returns, f.Signal, f.RawSignal, f.PositionSize}
	for _, col := range columns {
		if col != nil && len(col) != n {
			return errors.Newf(errors.ErrCodeFrameMismatch,
				"signal frame column length %d does not match %d dates", len(col), n)
		}
	}
	for name, col := range f.Indicators {
		if len(col) != n {
			return errors.Newf(errors.ErrCodeFrameMismatch,
				"indicator column %q length %d does not match %d dates", name, len(col), n)
		}
	}

	return nil
}

// Shift returns a copy of values moved forward by one row, with NaN in the
// first slot. Used to prevent look-ahead: the value computed at the close of
// day t-1 becomes effective on day t.
func Shift(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(out) == 0 {
		return out
	}

	out[0] = math.NaN()
	copy(out[1:], values[:len(values)-1])

	return out
}
