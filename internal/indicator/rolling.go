// Package indicator provides the rolling statistics and oscillators used by
// the signal generators. All functions are pure: series in, series out, with
// NaN marking warm-up rows that lack enough history.
package indicator

import (
	"math"

	"github.com/montanaflynn/stats"
)

// TradingDaysPerYear is the annualization convention for daily bars.
const TradingDaysPerYear = 252

// PctChange computes the percentage change over the given number of periods:
// value[i]/value[i-periods] - 1. The first `periods` rows carry NaN.
func PctChange(values []float64, periods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < periods || values[i-periods] == 0 {
			out[i] = math.NaN()
			continue
		}

		out[i] = values[i]/values[i-periods] - 1
	}

	return out
}

// RollingMean computes the simple moving average over the given window.
// Rows without a full window, or whose window contains NaN, carry NaN.
func RollingMean(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		m, err := stats.Mean(w)
		if err != nil {
			return math.NaN()
		}

		return m
	})
}

// RollingStd computes the rolling sample standard deviation over the given
// window. Rows without a full window, or whose window contains NaN, carry NaN.
func RollingStd(values []float64, window int) []float64 {
	return rolling(values, window, func(w []float64) float64 {
		s, err := stats.StandardDeviationSample(w)
		if err != nil {
			return math.NaN()
		}

		return s
	})
}

// AnnualizedVolatility scales a rolling daily standard deviation by sqrt(252)
// and floors the result to keep position sizing bounded in near-zero
// volatility regimes.
func AnnualizedVolatility(dailyStd []float64, floor float64) []float64 {
	out := make([]float64, len(dailyStd))
	for i, v := range dailyStd {
		if math.IsNaN(v) {
			out[i] = math.NaN()
			continue
		}

		annualized := v * math.Sqrt(TradingDaysPerYear)
		if annualized < floor {
			annualized = floor
		}
		out[i] = annualized
	}

	return out
}

func rolling(values []float64, window int, agg func([]float64) float64) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < window-1 {
			out[i] = math.NaN()
			continue
		}

		w := values[i-window+1 : i+1]
		if containsNaN(w) {
			out[i] = math.NaN()
			continue
		}

		out[i] = agg(w)
	}

	return out
}

func containsNaN(values []float64) bool {
	for _, v := range values {
		if math.IsNaN(v) {
			return true
		}
	}

	return false
}
