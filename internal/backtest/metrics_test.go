package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

type MetricsTestSuite struct {
	suite.Suite
	start time.Time
}

func TestMetricsSuite(t *testing.T) {
	suite.Run(t, new(MetricsTestSuite))
}

func (suite *MetricsTestSuite) SetupSuite() {
	suite.start = time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
}

// makeReturnsFrame compiles a frame from alternating daily returns so the
// strategy has both up and down days.
func (suite *MetricsTestSuite) makeReturnsFrame(n int) *types.ReturnsFrame {
	closes := make([]float64, n)
	price := 100.0
	for i := 0; i < n; i++ {
		closes[i] = price
		if i%2 == 0 {
			price *= 1.01
		} else {
			price *= 0.995
		}
	}

	frame := &types.SignalFrame{Close: closes}
	frame.Returns = make([]float64, n)
	frame.Signal = make([]float64, n)
	frame.PositionSize = make([]float64, n)
	for i := 0; i < n; i++ {
		frame.Dates = append(frame.Dates, suite.start.AddDate(0, 0, i))
		if i == 0 {
			frame.Returns[i] = math.NaN()
		} else {
			frame.Returns[i] = closes[i]/closes[i-1] - 1
		}
		frame.Signal[i] = 1
		frame.PositionSize[i] = 1
	}

	out, err := CompileWeightedReturns(frame, 100)
	suite.Require().NoError(err)

	return out
}

func (suite *MetricsTestSuite) makeTrades(returnsPct ...float64) []types.TradeRecord {
	trades := make([]types.TradeRecord, len(returnsPct))
	for i, r := range returnsPct {
		entry := suite.start.AddDate(0, 0, i*5)
		exitPrice := 100 * (1 + r/100)
		trades[i] = types.NewTradeRecord(
			entry, entry.AddDate(0, 0, 3), 100, exitPrice, types.DirectionLong, types.ExitSignalChange)
	}

	return trades
}

func (suite *MetricsTestSuite) TestEmptyFrame() {
	_, err := Calculate(&types.ReturnsFrame{}, suite.makeTrades(1), 0.02)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoReturns))
}

func (suite *MetricsTestSuite) TestNilTrades() {
	_, err := Calculate(suite.makeReturnsFrame(50), nil, 0.02)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeNoTrades))
}

// A run that produced no trades is a valid outcome, reported as an all-zero
// record rather than an error.
func (suite *MetricsTestSuite) TestZeroTrades() {
	m, err := Calculate(suite.makeReturnsFrame(50), []types.TradeRecord{}, 0.02)

	suite.Require().NoError(err)
	suite.Equal(types.PerformanceMetrics{}, m)
}

func (suite *MetricsTestSuite) TestWinRateBounds() {
	testCases := []struct {
		name     string
		returns  []float64
		expected float64
	}{
		{name: "all winners", returns: []float64{2, 3, 1}, expected: 1.0},
		{name: "all losers", returns: []float64{-2, -3}, expected: 0.0},
		{name: "mixed", returns: []float64{2, -1, 3, -2}, expected: 0.5},
		{name: "flat trade is not a winner", returns: []float64{0, 2}, expected: 0.5},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			m, err := Calculate(suite.makeReturnsFrame(50), suite.makeTrades(tc.returns...), 0.02)
			suite.Require().NoError(err)
			suite.InDelta(tc.expected, m.WinRate, 1e-10)
			suite.GreaterOrEqual(m.WinRate, 0.0)
			suite.LessOrEqual(m.WinRate, 1.0)
		})
	}
}

func (suite *MetricsTestSuite) TestTradeStats() {
	m, err := Calculate(suite.makeReturnsFrame(50), suite.makeTrades(4, -2), 0.02)
	suite.Require().NoError(err)

	suite.Equal(2, m.NumTrades)
	suite.InDelta(1.0, m.AvgTradeReturn, 1e-9)
	suite.InDelta(3.0, m.AvgHoldingDays, 1e-10)
	suite.InDelta(2.0, m.ProfitFactor, 1e-6)
}

func (suite *MetricsTestSuite) TestTotalReturnMatchesCurve() {
	frame := suite.makeReturnsFrame(50)
	m, err := Calculate(frame, suite.makeTrades(1), 0.02)
	suite.Require().NoError(err)

	expected := frame.CumulativeStrategy[frame.Len()-1]/frame.BaseValue - 1
	suite.InDelta(expected, m.TotalReturn, 1e-12)
	suite.InDelta(0.0, m.ExcessReturn, 1e-12, "signal-always-on strategy tracks its benchmark")
}

func (suite *MetricsTestSuite) TestDrawdownStats() {
	drawdown := []float64{0, -0.01, -0.02, 0, -0.05, -0.04, -0.03, 0, math.NaN()}

	maxDD, duration := drawdownStats(drawdown)

	suite.InDelta(-0.05, maxDD, 1e-10)
	suite.Equal(3, duration)
}

func (suite *MetricsTestSuite) TestSummarizeCurve() {
	frame := suite.makeReturnsFrame(100)

	stats := SummarizeCurve(frame.StrategyReturn, frame.CumulativeStrategy, frame.BaseValue, 0.02)

	suite.InDelta(frame.CumulativeStrategy[99], stats.EndValue, 1e-10)
	suite.Positive(stats.AnnualizedVolatility)
	suite.LessOrEqual(stats.MaxDrawdown, 0.0)
	suite.InDelta(stats.EndValue/frame.BaseValue-1, stats.TotalReturn, 1e-12)
}

func (suite *MetricsTestSuite) TestRatioOrZero() {
	suite.Equal(0.0, ratioOrZero(1, 0))
	suite.InDelta(2.0, ratioOrZero(4, 2), 1e-12)
}
