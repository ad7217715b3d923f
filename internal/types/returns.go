package types

import "time"

// DefaultBaseValue is the index base for cumulative return curves when no
// initial capital is supplied.
const DefaultBaseValue = 100.0

// ReturnsFrame maps a strategy run back onto the full daily timeline. The
// cumulative columns start at BaseValue on the first observation; Drawdown is
// always <= 0 and equals (value - running max) / running max.
type ReturnsFrame struct {
	Dates               []time.Time
	StrategyReturn      []float64
	BenchmarkReturn     []float64
	CumulativeStrategy  []float64
	CumulativeBenchmark []float64
	Peak                []float64
	Drawdown            []float64
	BaseValue           float64

	// IndexBenchmarkReturn and CumulativeIndexBenchmark track buy-and-hold of
	// the signal-generating index for the SMA trend strategy, where the traded
	// instrument and the signal instrument differ. Nil for the other families.
	IndexBenchmarkReturn     []float64
	CumulativeIndexBenchmark []float64
}

// Len returns the number of rows in the frame.
func (f *ReturnsFrame) Len() int {
	if f == nil {
		return 0
	}

	return len(f.Dates)
}
