package optimizer

import (
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Objective is a closed enumeration of the metrics a sweep can maximize.
// Keeping this a fixed set (rather than string-keyed field lookup) means an
// unsupported metric fails at the sweep boundary, not deep inside a run.
type Objective string

const (
	ObjectiveSharpeRatio      Objective = "sharpe_ratio"
	ObjectiveSortinoRatio     Objective = "sortino_ratio"
	ObjectiveCalmarRatio      Objective = "calmar_ratio"
	ObjectiveTotalReturn      Objective = "total_return"
	ObjectiveAnnualizedReturn Objective = "annualized_return"
	ObjectiveWinRate          Objective = "win_rate"
	ObjectiveProfitFactor     Objective = "profit_factor"
	ObjectiveExcessReturn     Objective = "excess_return"
)

// Objectives lists every supported objective.
var Objectives = []Objective{
	ObjectiveSharpeRatio,
	ObjectiveSortinoRatio,
	ObjectiveCalmarRatio,
	ObjectiveTotalReturn,
	ObjectiveAnnualizedReturn,
	ObjectiveWinRate,
	ObjectiveProfitFactor,
	ObjectiveExcessReturn,
}

// Validate reports whether the objective is a member of the supported set.
func (o Objective) Validate() error {
	for _, known := range Objectives {
		if o == known {
			return nil
		}
	}

	return errors.Newf(errors.ErrCodeUnknownObjective, "unknown objective metric %q", string(o))
}

// Value extracts the objective's field from a metrics record.
func (o Objective) Value(m types.PerformanceMetrics) float64 {
	switch o {
	case ObjectiveSharpeRatio:
		return m.SharpeRatio
	case ObjectiveSortinoRatio:
		return m.SortinoRatio
	case ObjectiveCalmarRatio:
		return m.CalmarRatio
	case ObjectiveTotalReturn:
		return m.TotalReturn
	case ObjectiveAnnualizedReturn:
		return m.AnnualizedReturn
	case ObjectiveWinRate:
		return m.WinRate
	case ObjectiveProfitFactor:
		return m.ProfitFactor
	case ObjectiveExcessReturn:
		return m.ExcessReturn
	default:
		return 0
	}
}
