package backtest

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/stratlab-io/stratlab/internal/indicator"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// epsilon floors denominators (downside deviation, gross loss) so degenerate
// runs produce large-but-finite ratios instead of dividing by zero.
const epsilon = 0.0001

// Calculate reduces a returns frame and its trade log into the flat
// performance metrics record. A run with zero trades yields an all-zero
// record.
func Calculate(frame *types.ReturnsFrame, trades []types.TradeRecord, riskFreeRate float64) (types.PerformanceMetrics, error) {
	if frame.Len() == 0 {
		return types.PerformanceMetrics{}, errors.New(errors.ErrCodeNoReturns,
			"no returns available: compile returns first")
	}
	if trades == nil {
		return types.PerformanceMetrics{}, errors.New(errors.ErrCodeNoTrades,
			"no trades available: simulate trades first")
	}
	if len(trades) == 0 {
		return types.PerformanceMetrics{}, nil
	}

	strategyReturns := dropNaN(frame.StrategyReturn)
	benchmarkReturns := dropNaN(frame.BenchmarkReturn)

	totalReturn := frame.CumulativeStrategy[frame.Len()-1]/frame.BaseValue - 1
	benchmarkTotal := frame.CumulativeBenchmark[frame.Len()-1]/frame.BaseValue - 1

	numYears := float64(len(strategyReturns)) / indicator.TradingDaysPerYear
	annualizedReturn := annualize(totalReturn, numYears)
	benchmarkAnnualized := annualize(benchmarkTotal, numYears)

	volatility := sampleStd(strategyReturns) * math.Sqrt(indicator.TradingDaysPerYear)
	benchmarkVol := sampleStd(benchmarkReturns) * math.Sqrt(indicator.TradingDaysPerYear)

	maxDD, ddDuration := drawdownStats(frame.Drawdown)

	downside := negatives(strategyReturns)
	downsideVol := sampleStd(downside) * math.Sqrt(indicator.TradingDaysPerYear)
	if downsideVol < epsilon {
		downsideVol = epsilon
	}

	calmar := 0.0
	if maxDD != 0 {
		calmar = annualizedReturn / math.Abs(maxDD)
	}

	m := types.PerformanceMetrics{
		TotalReturn:             totalReturn,
		AnnualizedReturn:        annualizedReturn,
		AnnualizedVolatility:    volatility,
		SharpeRatio:             ratioOrZero(annualizedReturn-riskFreeRate, volatility),
		SortinoRatio:            (annualizedReturn - riskFreeRate) / downsideVol,
		CalmarRatio:             calmar,
		MaxDrawdown:             maxDD,
		MaxDrawdownDurationDays: ddDuration,
		BenchmarkTotalReturn:    benchmarkTotal,
		BenchmarkSharpeRatio:    ratioOrZero(benchmarkAnnualized-riskFreeRate, benchmarkVol),
		ExcessReturn:            totalReturn - benchmarkTotal,
	}
	fillTradeStats(&m, trades)

	return m, nil
}

func fillTradeStats(m *types.PerformanceMetrics, trades []types.TradeRecord) {
	m.NumTrades = len(trades)
	if len(trades) == 0 {
		return
	}

	var wins int
	var sumReturn, sumHolding, grossProfit, grossLoss float64
	for _, t := range trades {
		sumReturn += t.ReturnPct
		sumHolding += float64(t.HoldingDays)
		if t.IsWinner() {
			wins++
			grossProfit += t.ReturnPct
		} else if t.ReturnPct < 0 {
			grossLoss += -t.ReturnPct
		}
	}

	m.WinRate = float64(wins) / float64(len(trades))
	m.AvgTradeReturn = sumReturn / float64(len(trades))
	m.AvgHoldingDays = sumHolding / float64(len(trades))
	if grossLoss < epsilon {
		grossLoss = epsilon
	}
	m.ProfitFactor = grossProfit / grossLoss
}

// drawdownStats returns the deepest drawdown and the length in trading days of
// the longest contiguous run spent below the running peak.
func drawdownStats(drawdown []float64) (maxDD float64, maxDuration int) {
	var current int
	for _, dd := range drawdown {
		if math.IsNaN(dd) {
			continue
		}
		if dd < maxDD {
			maxDD = dd
		}
		if dd < 0 {
			current++
			if current > maxDuration {
				maxDuration = current
			}
		} else {
			current = 0
		}
	}

	return maxDD, maxDuration
}

// CurveStats summarizes a single equity curve; the SMA runner uses it to print
// strategy vs buy-and-hold comparison rows. The Sharpe ratio here follows the
// daily-excess convention: mean(daily return - daily rf) / std * sqrt(252).
type CurveStats struct {
	EndValue             float64
	TotalReturn          float64
	CAGR                 float64
	AnnualizedVolatility float64
	SharpeRatio          float64
	MaxDrawdown          float64
}

// SummarizeCurve computes CurveStats from a daily return column and its
// cumulative value curve.
func SummarizeCurve(returns, cumulative []float64, baseValue, riskFreeRate float64) CurveStats {
	clean := dropNaN(returns)
	endValue := baseValue
	if len(cumulative) > 0 {
		endValue = cumulative[len(cumulative)-1]
	}

	numYears := float64(len(clean)) / indicator.TradingDaysPerYear
	totalReturn := endValue/baseValue - 1

	std := sampleStd(clean)
	mean, _ := stats.Mean(stats.Float64Data(clean))
	dailyRF := riskFreeRate / indicator.TradingDaysPerYear
	sharpe := 0.0
	if std > 0 {
		sharpe = (mean - dailyRF) / std * math.Sqrt(indicator.TradingDaysPerYear)
	}

	maxDD := 0.0
	peak := math.Inf(-1)
	for _, v := range cumulative {
		if v > peak {
			peak = v
		}
		if dd := (v - peak) / peak; dd < maxDD {
			maxDD = dd
		}
	}

	return CurveStats{
		EndValue:             endValue,
		TotalReturn:          totalReturn,
		CAGR:                 annualize(totalReturn, numYears),
		AnnualizedVolatility: std * math.Sqrt(indicator.TradingDaysPerYear),
		SharpeRatio:          sharpe,
		MaxDrawdown:          maxDD,
	}
}

func annualize(totalReturn, numYears float64) float64 {
	if numYears <= 0 {
		return 0
	}

	return math.Pow(1+totalReturn, 1/numYears) - 1
}

func ratioOrZero(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}

	return numerator / denominator
}

func sampleStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	std, err := stats.StandardDeviationSample(stats.Float64Data(values))
	if err != nil {
		return 0
	}

	return std
}

func negatives(values []float64) []float64 {
	out := []float64{}
	for _, v := range values {
		if v < 0 {
			out = append(out, v)
		}
	}

	return out
}

func dropNaN(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}

	return out
}
