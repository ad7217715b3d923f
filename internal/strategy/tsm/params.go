package tsm

import (
	"github.com/go-playground/validator/v10"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// PositionType selects between symmetric long/short exposure and long-or-cash.
type PositionType string

const (
	PositionLongShort PositionType = "long_short"
	PositionLongCash  PositionType = "long_cash"
)

// Params configures the time-series momentum strategy. Immutable after
// construction: a new configuration is a new value.
type Params struct {
	// LookbackMonths is the momentum window in months (~21 trading days each).
	LookbackMonths int `yaml:"lookback_months" json:"lookback_months" validate:"gte=1,lte=24"`
	// HoldingPeriodDays suppresses signal changes occurring before this many
	// bars have elapsed since the last accepted change.
	HoldingPeriodDays int `yaml:"holding_period_days" json:"holding_period_days" validate:"gte=1"`
	// VolatilityWindow is the rolling window for realized volatility.
	VolatilityWindow int `yaml:"volatility_window" json:"volatility_window" validate:"gte=2"`
	// VolatilityTarget is the annualized volatility target for position sizing.
	VolatilityTarget        float64      `yaml:"volatility_target" json:"volatility_target" validate:"gt=0"`
	EnableVolatilityScaling bool         `yaml:"enable_volatility_scaling" json:"enable_volatility_scaling"`
	PositionType            PositionType `yaml:"position_type" json:"position_type" validate:"oneof=long_short long_cash"`
	RiskFreeRate            float64      `yaml:"risk_free_rate" json:"risk_free_rate" validate:"gte=0"`
}

var validate = validator.New()

// DefaultParams returns the standard TSM configuration: 12 month lookback,
// monthly rebalancing, 10% volatility target, long-or-cash.
func DefaultParams() Params {
	return Params{
		LookbackMonths:          12,
		HoldingPeriodDays:       21,
		VolatilityWindow:        21,
		VolatilityTarget:        0.10,
		EnableVolatilityScaling: true,
		PositionType:            PositionLongCash,
		RiskFreeRate:            0.02,
	}
}

// Validate checks the parameter record against its invariants.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid TSM parameters", err)
	}

	return nil
}
