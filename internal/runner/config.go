// Package runner holds the YAML-facing run configuration shared by the
// command-line entrypoints, plus the built-in index/LETF preset table.
package runner

import (
	"encoding/json"
	"os"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratlab/internal/strategy/smaletf"
	"github.com/stratlab-io/stratlab/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RunConfig is the on-disk configuration for an SMA trend backtest run.
type RunConfig struct {
	SignalTicker   string                     `yaml:"signal_ticker" json:"signal_ticker" jsonschema:"title=Signal Ticker,description=Index ticker used for the trend signal" validate:"required"`
	TradeTicker    string                     `yaml:"trade_ticker" json:"trade_ticker" jsonschema:"title=Trade Ticker,description=Instrument actually held while risk-on" validate:"required"`
	SMAPeriod      int                        `yaml:"sma_period" json:"sma_period" jsonschema:"title=SMA Period,description=Trend lookback in trading days,minimum=1" validate:"gt=0"`
	InitialCapital float64                    `yaml:"initial_capital" json:"initial_capital" jsonschema:"title=Initial Capital,description=Starting capital in USD,minimum=0" validate:"gt=0"`
	RiskFreeRate   float64                    `yaml:"risk_free_rate" json:"risk_free_rate" jsonschema:"title=Risk-Free Rate,description=Annual cash yield earned while risk-off,minimum=0" validate:"gte=0"`
	DataDir        string                     `yaml:"data_dir" json:"data_dir" jsonschema:"title=Data Directory,description=Directory holding per-ticker price CSV files" validate:"required"`
	OutputDir      string                     `yaml:"output_dir" json:"output_dir" jsonschema:"title=Output Directory,description=Directory receiving per-run result artifacts"`
	StartDate      optional.Option[time.Time] `yaml:"start_date" json:"start_date" jsonschema:"title=Start Date,description=Optional start of the backtest period"`
	EndDate        optional.Option[time.Time] `yaml:"end_date" json:"end_date" jsonschema:"title=End Date,description=Optional end of the backtest period"`
}

var validate = validator.New()

// UnmarshalYAML implements custom unmarshaling for RunConfig so optional
// dates round-trip through plain YAML timestamps.
func (c *RunConfig) UnmarshalYAML(unmarshal func(interface{}) error) error {
	type Config struct {
		SignalTicker   string     `yaml:"signal_ticker"`
		TradeTicker    string     `yaml:"trade_ticker"`
		SMAPeriod      int        `yaml:"sma_period"`
		InitialCapital float64    `yaml:"initial_capital"`
		RiskFreeRate   float64    `yaml:"risk_free_rate"`
		DataDir        string     `yaml:"data_dir"`
		OutputDir      string     `yaml:"output_dir"`
		StartDate      *time.Time `yaml:"start_date"`
		EndDate        *time.Time `yaml:"end_date"`
	}

	var config Config
	if err := unmarshal(&config); err != nil {
		return err
	}

	c.SignalTicker = config.SignalTicker
	c.TradeTicker = config.TradeTicker
	c.SMAPeriod = config.SMAPeriod
	c.InitialCapital = config.InitialCapital
	c.RiskFreeRate = config.RiskFreeRate
	c.DataDir = config.DataDir
	c.OutputDir = config.OutputDir
	if config.StartDate != nil {
		c.StartDate = optional.Some(*config.StartDate)
	}
	if config.EndDate != nil {
		c.EndDate = optional.Some(*config.EndDate)
	}

	return nil
}

// MarshalYAML renders optional dates as plain YAML timestamps, mirroring
// UnmarshalYAML.
func (c RunConfig) MarshalYAML() (interface{}, error) {
	type Config struct {
		SignalTicker   string     `yaml:"signal_ticker"`
		TradeTicker    string     `yaml:"trade_ticker"`
		SMAPeriod      int        `yaml:"sma_period"`
		InitialCapital float64    `yaml:"initial_capital"`
		RiskFreeRate   float64    `yaml:"risk_free_rate"`
		DataDir        string     `yaml:"data_dir"`
		OutputDir      string     `yaml:"output_dir"`
		StartDate      *time.Time `yaml:"start_date,omitempty"`
		EndDate        *time.Time `yaml:"end_date,omitempty"`
	}

	config := Config{
		SignalTicker:   c.SignalTicker,
		TradeTicker:    c.TradeTicker,
		SMAPeriod:      c.SMAPeriod,
		InitialCapital: c.InitialCapital,
		RiskFreeRate:   c.RiskFreeRate,
		DataDir:        c.DataDir,
		OutputDir:      c.OutputDir,
	}
	if c.StartDate.IsSome() {
		start := c.StartDate.Unwrap()
		config.StartDate = &start
	}
	if c.EndDate.IsSome() {
		end := c.EndDate.Unwrap()
		config.EndDate = &end
	}

	return config, nil
}

// DefaultConfig returns the S&P 500 / 3x LETF run configuration.
func DefaultConfig() RunConfig {
	return RunConfig{
		SignalTicker:   "^GSPC",
		TradeTicker:    "UPRO",
		SMAPeriod:      200,
		InitialCapital: 10000,
		RiskFreeRate:   0.02,
		DataDir:        "data",
		OutputDir:      "results",
		StartDate:      optional.Some(time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)),
	}
}

// LoadConfig reads and validates a RunConfig from a YAML file.
func LoadConfig(path string) (RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RunConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return RunConfig{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if err := config.Validate(); err != nil {
		return RunConfig{}, err
	}

	return config, nil
}

// Validate checks the run configuration.
func (c RunConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid run configuration", err)
	}
	if c.StartDate.IsSome() && c.EndDate.IsSome() && c.EndDate.Unwrap().Before(c.StartDate.Unwrap()) {
		return errors.New(errors.ErrCodeInvalidDateRange, "end date must not precede start date")
	}

	return nil
}

// StrategyConfig converts the run configuration into the strategy-facing
// record.
func (c RunConfig) StrategyConfig() smaletf.Config {
	return smaletf.Config{
		SignalTicker:   c.SignalTicker,
		TradeTicker:    c.TradeTicker,
		SMAPeriod:      c.SMAPeriod,
		InitialCapital: c.InitialCapital,
		RiskFreeRate:   c.RiskFreeRate,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
	}
}

// GenerateSchema generates a JSON schema for the RunConfig.
func (c *RunConfig) GenerateSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t.String() == "optional.Option[time.Time]" {
				return &jsonschema.Schema{
					Type:   "string",
					Format: "date-time",
				}
			}
			return nil
		},
	}

	schema := reflector.Reflect(c)

	schema.Title = "backtest-run-config"
	schema.Description = "Configuration schema for an SMA trend backtest run"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema, nil
}

// GenerateSchemaJSON generates a JSON schema string for the RunConfig.
func (c *RunConfig) GenerateSchemaJSON() (string, error) {
	schema, err := c.GenerateSchema()
	if err != nil {
		return "", err
	}

	schemaBytes, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
