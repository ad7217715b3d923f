package smaletf

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Config describes one SMA trend run: a signal-generating index and a separate
// tradeable instrument (typically a leveraged ETF on that index).
type Config struct {
	SignalTicker   string  `yaml:"signal_ticker" json:"signal_ticker" validate:"required"`
	TradeTicker    string  `yaml:"trade_ticker" json:"trade_ticker" validate:"required"`
	SMAPeriod      int     `yaml:"sma_period" json:"sma_period" validate:"gt=0"`
	InitialCapital float64 `yaml:"initial_capital" json:"initial_capital" validate:"gt=0"`
	// RiskFreeRate is the annual cash yield earned while risk-off.
	RiskFreeRate float64                    `yaml:"risk_free_rate" json:"risk_free_rate" validate:"gte=0"`
	StartDate    optional.Option[time.Time] `yaml:"start_date" json:"start_date"`
	EndDate      optional.Option[time.Time] `yaml:"end_date" json:"end_date"`
}

var validate = validator.New()

// DefaultConfig returns the S&P 500 / 3x LETF configuration.
func DefaultConfig() Config {
	return Config{
		SignalTicker:   "^GSPC",
		TradeTicker:    "UPRO",
		SMAPeriod:      200,
		InitialCapital: 10000,
		RiskFreeRate:   0.02,
		StartDate:      optional.Some(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// Validate checks the configuration record.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid SMA trend configuration", err)
	}
	if c.StartDate.IsSome() && c.EndDate.IsSome() && c.EndDate.Unwrap().Before(c.StartDate.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidDateRange, "end date must not precede start date")
	}

	return nil
}
