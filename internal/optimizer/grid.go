package optimizer

import (
	"github.com/stratlab-io/stratlab/internal/strategy/rsimr"
)

// Grid holds the value sets for each RSI mean-reversion parameter dimension.
// Enumerate produces the Cartesian product as typed parameter records, so
// malformed combinations are rejected at construction rather than at runtime.
type Grid struct {
	RSIPeriods        []int              `yaml:"rsi_periods"`
	OversoldLevels    []float64          `yaml:"rsi_oversold"`
	OverboughtLevels  []float64          `yaml:"rsi_overbought"`
	MAPeriods         []int              `yaml:"ma_periods"`
	StdDevMultipliers []float64          `yaml:"std_dev_multipliers"`
	TakeProfits       []float64          `yaml:"take_profits"`
	StopLosses        []float64          `yaml:"stop_losses"`
	PositionType      rsimr.PositionType `yaml:"position_type"`
	RiskFreeRate      float64            `yaml:"risk_free_rate"`
}

// DefaultGrid returns the standard sweep: 2,187 raw combinations before
// threshold filtering.
func DefaultGrid() Grid {
	return Grid{
		RSIPeriods:        []int{7, 14, 21},
		OversoldLevels:    []float64{20, 25, 30},
		OverboughtLevels:  []float64{70, 75, 80},
		MAPeriods:         []int{10, 20, 50},
		StdDevMultipliers: []float64{1.0, 1.5, 2.0},
		TakeProfits:       []float64{3.0, 5.0, 10.0},
		StopLosses:        []float64{1.0, 2.0, 3.0},
		PositionType:      rsimr.PositionLongShort,
		RiskFreeRate:      0.02,
	}
}

// Enumerate expands the grid into parameter records in deterministic order,
// skipping combinations where the oversold level does not sit below the
// overbought level.
func (g Grid) Enumerate() []rsimr.Params {
	out := []rsimr.Params{}
	for _, rsiPeriod := range g.RSIPeriods {
		for _, oversold := range g.OversoldLevels {
			for _, overbought := range g.OverboughtLevels {
				if oversold >= overbought {
					continue
				}
				for _, maPeriod := range g.MAPeriods {
					for _, stdMult := range g.StdDevMultipliers {
						for _, takeProfit := range g.TakeProfits {
							for _, stopLoss := range g.StopLosses {
								out = append(out, rsimr.Params{
									RSIPeriod:        rsiPeriod,
									Oversold:         oversold,
									Overbought:       overbought,
									MAPeriod:         maPeriod,
									StdDevMultiplier: stdMult,
									TakeProfitPct:    takeProfit,
									StopLossPct:      stopLoss,
									PositionType:     g.PositionType,
									RiskFreeRate:     g.RiskFreeRate,
								})
							}
						}
					}
				}
			}
		}
	}

	return out
}
