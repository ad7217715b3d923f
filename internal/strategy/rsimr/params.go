package rsimr

import (
	"github.com/go-playground/validator/v10"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// PositionType restricts which side of the market the strategy may enter.
type PositionType string

const (
	PositionLongOnly  PositionType = "long_only"
	PositionShortOnly PositionType = "short_only"
	PositionLongShort PositionType = "long_short"
)

// Params configures the RSI mean-reversion strategy. The csv tags flatten the
// record into optimizer result rows.
type Params struct {
	RSIPeriod        int     `csv:"rsi_period" yaml:"rsi_period" json:"rsi_period" validate:"gte=2"`
	Oversold         float64 `csv:"rsi_oversold" yaml:"rsi_oversold" json:"rsi_oversold" validate:"gt=0,lt=100"`
	Overbought       float64 `csv:"rsi_overbought" yaml:"rsi_overbought" json:"rsi_overbought" validate:"gt=0,lt=100"`
	MAPeriod         int     `csv:"ma_period" yaml:"ma_period" json:"ma_period" validate:"gte=2"`
	StdDevMultiplier float64 `csv:"std_dev_mult" yaml:"std_dev_multiplier" json:"std_dev_multiplier" validate:"gt=0"`
	// TakeProfitPct and StopLossPct are percentage thresholds on the open
	// position's move, e.g. 5.0 exits a long after a +5% move.
	TakeProfitPct float64      `csv:"take_profit" yaml:"take_profit_pct" json:"take_profit_pct" validate:"gt=0"`
	StopLossPct   float64      `csv:"stop_loss" yaml:"stop_loss_pct" json:"stop_loss_pct" validate:"gt=0"`
	PositionType  PositionType `csv:"-" yaml:"position_type" json:"position_type" validate:"oneof=long_only short_only long_short"`
	RiskFreeRate  float64      `csv:"-" yaml:"risk_free_rate" json:"risk_free_rate" validate:"gte=0"`
}

var validate = validator.New()

// DefaultParams returns the standard configuration: RSI(14) with 30/70
// thresholds, 20 day bands at one standard deviation, 5% take profit and 2%
// stop loss, trading both sides.
func DefaultParams() Params {
	return Params{
		RSIPeriod:        14,
		Oversold:         30,
		Overbought:       70,
		MAPeriod:         20,
		StdDevMultiplier: 1.0,
		TakeProfitPct:    5.0,
		StopLossPct:      2.0,
		PositionType:     PositionLongShort,
		RiskFreeRate:     0.02,
	}
}

// Validate checks the parameter record, including the threshold ordering
// invariant oversold < overbought.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParameter, "invalid RSI mean-reversion parameters", err)
	}
	if p.Oversold >= p.Overbought {
		return errors.Newf(errors.ErrCodeInvalidThreshold,
			"oversold threshold %.1f must be below overbought threshold %.1f", p.Oversold, p.Overbought)
	}

	return nil
}
