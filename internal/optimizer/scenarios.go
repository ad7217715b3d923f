package optimizer

import (
	"time"

	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratlab/internal/backtest"
	"github.com/stratlab-io/stratlab/internal/strategy/tsm"
	"github.com/stratlab-io/stratlab/internal/types"
)

// Scenario names one TSM parameter record for side-by-side comparison.
type Scenario struct {
	Name   string
	Params tsm.Params
}

// ScenarioResult pairs a scenario with its backtest metrics.
type ScenarioResult struct {
	Name    string
	Params  tsm.Params
	Metrics types.PerformanceMetrics
}

// CompareScenarios runs the full TSM pipeline for each named scenario over
// one price series and returns the results in input order.
func CompareScenarios(prices types.PriceSeries, scenarios []Scenario) ([]ScenarioResult, error) {
	out := make([]ScenarioResult, 0, len(scenarios))
	for _, sc := range scenarios {
		strategy, err := tsm.New(sc.Params)
		if err != nil {
			return nil, err
		}

		frame, err := strategy.CalculateSignals(prices, optional.None[time.Time](), optional.None[time.Time]())
		if err != nil {
			return nil, err
		}

		trades, err := backtest.ReplaySignals(frame)
		if err != nil {
			return nil, err
		}

		returns, err := backtest.CompileWeightedReturns(frame, types.DefaultBaseValue)
		if err != nil {
			return nil, err
		}

		metrics, err := backtest.Calculate(returns, trades, sc.Params.RiskFreeRate)
		if err != nil {
			return nil, err
		}

		out = append(out, ScenarioResult{Name: sc.Name, Params: sc.Params, Metrics: metrics})
	}

	return out, nil
}
