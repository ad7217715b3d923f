package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"
)

type RSITestSuite struct {
	suite.Suite
}

func TestRSISuite(t *testing.T) {
	suite.Run(t, new(RSITestSuite))
}

// TestRSIKnownValues checks the smoothing against hand-computed values for a
// short series with period 2: the first defined value uses simple averages,
// later ones Wilder's recursion.
func (suite *RSITestSuite) TestRSIKnownValues() {
	closes := []float64{10, 11, 10.5, 10.8, 10.2}
	got := RSI(closes, 2)

	suite.True(math.IsNaN(got[0]))
	suite.True(math.IsNaN(got[1]))
	suite.InDelta(66.666667, got[2], 1e-4)
	suite.InDelta(76.190476, got[3], 1e-4)
	suite.InDelta(35.555556, got[4], 1e-4)
}

func (suite *RSITestSuite) TestRSIUnbrokenUptrendIsUndefined() {
	closes := []float64{10, 11, 12, 13, 14, 15}
	got := RSI(closes, 3)

	// No losses in any window, so the loss average is zero throughout.
	for i, v := range got {
		suite.True(math.IsNaN(v), "index %d should be NaN", i)
	}
}

func (suite *RSITestSuite) TestRSIWarmup() {
	closes := []float64{10, 9, 10, 9, 10, 9, 10}
	got := RSI(closes, 3)

	for i := 0; i < 3; i++ {
		suite.True(math.IsNaN(got[i]), "index %d should be NaN", i)
	}
	for i := 3; i < len(got); i++ {
		suite.False(math.IsNaN(got[i]), "index %d should be defined", i)
		suite.GreaterOrEqual(got[i], 0.0)
		suite.LessOrEqual(got[i], 100.0)
	}
}

func (suite *RSITestSuite) TestRSITooShortSeries() {
	got := RSI([]float64{10, 11}, 14)

	for i, v := range got {
		suite.True(math.IsNaN(v), "index %d should be NaN", i)
	}
}
