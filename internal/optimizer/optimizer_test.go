package optimizer

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/stratlab-io/stratlab/internal/strategy/rsimr"
	"github.com/stratlab-io/stratlab/internal/strategy/tsm"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

type OptimizerTestSuite struct {
	suite.Suite
	prices types.PriceSeries
}

func TestOptimizerSuite(t *testing.T) {
	suite.Run(t, new(OptimizerTestSuite))
}

func (suite *OptimizerTestSuite) SetupSuite() {
	start := time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC)
	suite.prices = make(types.PriceSeries, 300)
	for i := range suite.prices {
		suite.prices[i] = types.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: 100 + 12*math.Sin(float64(i)/4) + 0.02*float64(i),
		}
	}
}

// smallGrid keeps sweep tests fast while still exercising several dimensions.
func smallGrid() Grid {
	return Grid{
		RSIPeriods:        []int{7, 14},
		OversoldLevels:    []float64{30, 40},
		OverboughtLevels:  []float64{60, 70},
		MAPeriods:         []int{10},
		StdDevMultipliers: []float64{0.5, 1.0},
		TakeProfits:       []float64{3.0},
		StopLosses:        []float64{2.0},
		PositionType:      rsimr.PositionLongShort,
		RiskFreeRate:      0.02,
	}
}

func (suite *OptimizerTestSuite) TestEnumerateSkipsInvertedThresholds() {
	grid := Grid{
		RSIPeriods:        []int{14},
		OversoldLevels:    []float64{30, 80},
		OverboughtLevels:  []float64{70},
		MAPeriods:         []int{20},
		StdDevMultipliers: []float64{1.0},
		TakeProfits:       []float64{5.0},
		StopLosses:        []float64{2.0},
		PositionType:      rsimr.PositionLongShort,
		RiskFreeRate:      0.02,
	}

	params := grid.Enumerate()

	suite.Require().Len(params, 1)
	suite.Equal(30.0, params[0].Oversold)
}

func (suite *OptimizerTestSuite) TestDefaultGridSize() {
	params := DefaultGrid().Enumerate()

	// 3^7 combinations, all threshold pairs valid with the default levels.
	suite.Len(params, 2187)
	for _, p := range params {
		suite.Require().NoError(p.Validate())
	}
}

func (suite *OptimizerTestSuite) TestUnknownObjective() {
	opt := New()

	_, err := opt.Run(suite.prices, smallGrid().Enumerate(), Objective("alpha"))

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownObjective))
}

func (suite *OptimizerTestSuite) TestEmptyGrid() {
	opt := New()

	_, err := opt.Run(suite.prices, nil, ObjectiveSharpeRatio)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyGrid))
}

func (suite *OptimizerTestSuite) TestEmptyPrices() {
	opt := New()

	_, err := opt.Run(types.PriceSeries{}, smallGrid().Enumerate(), ObjectiveSharpeRatio)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyPriceSeries))
}

func (suite *OptimizerTestSuite) TestRunEvaluatesEveryPoint() {
	grid := smallGrid().Enumerate()
	opt := New(WithWorkers(4))

	result, err := opt.Run(suite.prices, grid, ObjectiveTotalReturn)
	suite.Require().NoError(err)

	suite.Equal(len(grid), result.Evaluated+result.Skipped)
	suite.Len(result.Results.Rows, result.Evaluated)
	suite.Require().NoError(result.BestParams.Validate())
}

// Repeated sweeps over the same inputs pick the same best point regardless of
// worker scheduling.
func (suite *OptimizerTestSuite) TestRunIsDeterministic() {
	grid := smallGrid().Enumerate()

	first, err := New(WithWorkers(1)).Run(suite.prices, grid, ObjectiveSharpeRatio)
	suite.Require().NoError(err)
	second, err := New(WithWorkers(8)).Run(suite.prices, grid, ObjectiveSharpeRatio)
	suite.Require().NoError(err)

	suite.Equal(first.BestParams, second.BestParams)
	suite.InDelta(first.BestValue, second.BestValue, 1e-12)
	suite.Equal(len(first.Results.Rows), len(second.Results.Rows))
	for i := range first.Results.Rows {
		suite.Equal(first.Results.Rows[i].Params, second.Results.Rows[i].Params)
	}
}

func (suite *OptimizerTestSuite) TestTopNOrdering() {
	grid := smallGrid().Enumerate()

	result, err := New().Run(suite.prices, grid, ObjectiveTotalReturn)
	suite.Require().NoError(err)

	top := result.Results.TopN(3, ObjectiveTotalReturn)
	suite.Require().NotEmpty(top)
	for i := 1; i < len(top); i++ {
		suite.GreaterOrEqual(
			top[i-1].TotalReturn, top[i].TotalReturn,
			"rows must be ordered best first")
	}
	suite.InDelta(result.BestValue, ObjectiveTotalReturn.Value(top[0].PerformanceMetrics), 1e-12)
}

func (suite *OptimizerTestSuite) TestPivot() {
	set := ResultSet{Rows: []Result{
		{Params: rsimr.Params{RSIPeriod: 7, MAPeriod: 10}, PerformanceMetrics: types.PerformanceMetrics{SharpeRatio: 1.0}},
		{Params: rsimr.Params{RSIPeriod: 7, MAPeriod: 10}, PerformanceMetrics: types.PerformanceMetrics{SharpeRatio: 3.0}},
		{Params: rsimr.Params{RSIPeriod: 14, MAPeriod: 10}, PerformanceMetrics: types.PerformanceMetrics{SharpeRatio: 2.0}},
	}}

	hm, err := set.Pivot(DimRSIPeriod, DimMAPeriod, ObjectiveSharpeRatio)
	suite.Require().NoError(err)

	suite.Equal([]float64{7, 14}, hm.XValues)
	suite.Equal([]float64{10}, hm.YValues)
	// Duplicate cells aggregate by mean.
	suite.InDelta(2.0, hm.Cells[0][0], 1e-12)
	suite.InDelta(2.0, hm.Cells[0][1], 1e-12)
}

func (suite *OptimizerTestSuite) TestPivotUnknownDimension() {
	set := ResultSet{Rows: []Result{{}}}

	_, err := set.Pivot(Dimension("lookback"), DimMAPeriod, ObjectiveSharpeRatio)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownDimension))
}

// The exported table is ranked by the objective, best row first, matching the
// printed leaderboard rather than grid enumeration order.
func (suite *OptimizerTestSuite) TestWriteCSVRankedByObjective() {
	worse := rsimr.DefaultParams()
	worse.RSIPeriod = 10
	better := rsimr.DefaultParams()
	better.RSIPeriod = 21
	set := ResultSet{Rows: []Result{
		{Params: worse, PerformanceMetrics: types.PerformanceMetrics{SharpeRatio: 0.5}},
		{Params: better, PerformanceMetrics: types.PerformanceMetrics{SharpeRatio: 2.0}},
	}}

	var buf bytes.Buffer
	suite.Require().NoError(set.WriteCSV(&buf, ObjectiveSharpeRatio))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	suite.Require().Len(lines, 3)
	suite.Contains(lines[0], "rsi_period")
	suite.Contains(lines[0], "sharpe_ratio")
	suite.True(strings.HasPrefix(lines[1], "21,"), "best row first, got %q", lines[1])
	suite.True(strings.HasPrefix(lines[2], "10,"), "worst row last, got %q", lines[2])
}

func (suite *OptimizerTestSuite) TestWriteCSVUnknownObjective() {
	set := ResultSet{Rows: []Result{
		{Params: rsimr.DefaultParams(), PerformanceMetrics: types.PerformanceMetrics{SharpeRatio: 1.5}},
	}}

	var buf bytes.Buffer
	err := set.WriteCSV(&buf, Objective("alpha"))

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeUnknownObjective))
}

func (suite *OptimizerTestSuite) TestCompareScenarios() {
	fast := tsm.DefaultParams()
	fast.LookbackMonths = 1
	slow := tsm.DefaultParams()
	slow.LookbackMonths = 3

	results, err := CompareScenarios(suite.prices, []Scenario{
		{Name: "fast", Params: fast},
		{Name: "slow", Params: slow},
	})
	suite.Require().NoError(err)

	suite.Require().Len(results, 2)
	suite.Equal("fast", results[0].Name)
	suite.Equal("slow", results[1].Name)
}
