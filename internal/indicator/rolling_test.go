package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RollingTestSuite struct {
	suite.Suite
}

func TestRollingSuite(t *testing.T) {
	suite.Run(t, new(RollingTestSuite))
}

func (suite *RollingTestSuite) TestPctChange() {
	testCases := []struct {
		name     string
		values   []float64
		periods  int
		expected []float64
	}{
		{
			name:     "single period",
			values:   []float64{100, 110, 121},
			periods:  1,
			expected: []float64{math.NaN(), 0.10, 0.10},
		},
		{
			name:     "two periods",
			values:   []float64{100, 110, 121},
			periods:  2,
			expected: []float64{math.NaN(), math.NaN(), 0.21},
		},
		{
			name:     "zero base yields NaN",
			values:   []float64{0, 10, 20},
			periods:  1,
			expected: []float64{math.NaN(), math.NaN(), 1.0},
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			got := PctChange(tc.values, tc.periods)
			suite.Require().Len(got, len(tc.expected))
			for i := range got {
				if math.IsNaN(tc.expected[i]) {
					suite.True(math.IsNaN(got[i]), "index %d should be NaN", i)
				} else {
					suite.InDelta(tc.expected[i], got[i], 1e-10, "index %d", i)
				}
			}
		})
	}
}

func (suite *RollingTestSuite) TestRollingMean() {
	got := RollingMean([]float64{1, 2, 3, 4}, 3)

	suite.True(math.IsNaN(got[0]))
	suite.True(math.IsNaN(got[1]))
	suite.InDelta(2.0, got[2], 1e-10)
	suite.InDelta(3.0, got[3], 1e-10)
}

func (suite *RollingTestSuite) TestRollingMeanPropagatesNaN() {
	got := RollingMean([]float64{1, math.NaN(), 3, 4, 5}, 3)

	// Any window containing the NaN at index 1 stays undefined.
	suite.True(math.IsNaN(got[2]))
	suite.True(math.IsNaN(got[3]))
	suite.InDelta(4.0, got[4], 1e-10)
}

func (suite *RollingTestSuite) TestRollingStdIsSampleStd() {
	got := RollingStd([]float64{1, 2, 3}, 3)

	suite.InDelta(1.0, got[2], 1e-10)
}

func (suite *RollingTestSuite) TestAnnualizedVolatility() {
	daily := []float64{math.NaN(), 0.01, 0.0001}
	got := AnnualizedVolatility(daily, 0.05)

	suite.True(math.IsNaN(got[0]))
	suite.InDelta(0.01*math.Sqrt(252), got[1], 1e-10)
	// Near-zero volatility is floored.
	suite.InDelta(0.05, got[2], 1e-10)
}
