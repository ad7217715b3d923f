package smaletf

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

type SMATrendTestSuite struct {
	suite.Suite
	start time.Time
}

func TestSMATrendSuite(t *testing.T) {
	suite.Run(t, new(SMATrendTestSuite))
}

func (suite *SMATrendTestSuite) SetupSuite() {
	suite.start = time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC)
}

func (suite *SMATrendTestSuite) makeSeries(closes []float64) types.PriceSeries {
	series := make(types.PriceSeries, len(closes))
	for i, c := range closes {
		series[i] = types.PricePoint{Date: suite.start.AddDate(0, 0, i), Close: c}
	}

	return series
}

func (suite *SMATrendTestSuite) config(smaPeriod int) Config {
	return Config{
		SignalTicker:   "^GSPC",
		TradeTicker:    "UPRO",
		SMAPeriod:      smaPeriod,
		InitialCapital: 10000,
		RiskFreeRate:   0.02,
		StartDate:      optional.None[time.Time](),
		EndDate:        optional.None[time.Time](),
	}
}

func (suite *SMATrendTestSuite) TestInvalidConfig() {
	config := suite.config(0)

	_, err := New(config)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *SMATrendTestSuite) TestEndBeforeStart() {
	config := suite.config(5)
	config.StartDate = optional.Some(suite.start.AddDate(0, 0, 10))
	config.EndDate = optional.Some(suite.start)

	_, err := New(config)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidDateRange))
}

func (suite *SMATrendTestSuite) TestBinaryRiskFlag() {
	signal := suite.makeSeries([]float64{10, 11, 12, 13, 14, 13, 12, 11, 10, 9, 8, 9, 10, 11, 12})
	trade := suite.makeSeries([]float64{30, 33, 36, 39, 42, 39, 36, 33, 30, 27, 24, 27, 30, 33, 36})

	strategy, err := New(suite.config(3))
	suite.Require().NoError(err)

	frame, err := strategy.CalculateSignals(signal, trade)
	suite.Require().NoError(err)

	for i, raw := range frame.RawSignal {
		suite.Contains([]float64{0, 1}, raw, "index %d", i)
	}
	// The stance is the previous day's flag.
	suite.True(math.IsNaN(frame.Signal[0]))
	for i := 1; i < frame.Len(); i++ {
		suite.Equal(frame.RawSignal[i-1], frame.Signal[i], "index %d", i)
	}
}

// Bars without a matching trade close are dropped, so both columns stay
// aligned to the same dates.
func (suite *SMATrendTestSuite) TestAlignmentDropsMissingTradeBars() {
	signal := suite.makeSeries([]float64{10, 11, 12, 13, 14, 15, 16, 17})
	trade := suite.makeSeries([]float64{30, 31, 32, 33, 34, 35, 36, 37})
	// Remove two trade bars from the middle.
	trade = append(trade[:3], trade[5:]...)

	strategy, err := New(suite.config(2))
	suite.Require().NoError(err)

	frame, err := strategy.CalculateSignals(signal, trade)
	suite.Require().NoError(err)

	// 8 signal bars, minus 1 SMA warm-up bar, minus 2 missing trade bars.
	suite.Equal(5, frame.Len())
	suite.Require().NoError(frame.Validate())
}

func (suite *SMATrendTestSuite) TestDateRangeFilter() {
	signal := suite.makeSeries([]float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19})
	trade := suite.makeSeries([]float64{30, 31, 32, 33, 34, 35, 36, 37, 38, 39})

	config := suite.config(2)
	config.StartDate = optional.Some(suite.start.AddDate(0, 0, 5))
	strategy, err := New(config)
	suite.Require().NoError(err)

	frame, err := strategy.CalculateSignals(signal, trade)
	suite.Require().NoError(err)

	suite.Equal(5, frame.Len())
	suite.False(frame.Dates[0].Before(config.StartDate.Unwrap()))
}

func (suite *SMATrendTestSuite) TestNoOverlapAfterWarmup() {
	signal := suite.makeSeries([]float64{10, 11, 12})
	trade := suite.makeSeries([]float64{30, 31, 32})

	strategy, err := New(suite.config(10))
	suite.Require().NoError(err)

	_, err = strategy.CalculateSignals(signal, trade)

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInsufficientData))
}

func (suite *SMATrendTestSuite) TestEmptySignalSeries() {
	strategy, err := New(suite.config(3))
	suite.Require().NoError(err)

	_, err = strategy.CalculateSignals(types.PriceSeries{}, suite.makeSeries([]float64{30, 31}))

	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptyPriceSeries))
}
