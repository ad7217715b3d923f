package runner

import (
	"sort"

	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Preset is a named signal/trade ticker pairing with its usual trend period.
type Preset struct {
	SignalTicker string
	TradeTicker  string
	SMAPeriod    int
}

var presets = map[string]Preset{
	"sp500_3x":  {SignalTicker: "^GSPC", TradeTicker: "UPRO", SMAPeriod: 200},
	"sp500_2x":  {SignalTicker: "^GSPC", TradeTicker: "SSO", SMAPeriod: 200},
	"nasdaq_3x": {SignalTicker: "^NDX", TradeTicker: "TQQQ", SMAPeriod: 200},
	"nasdaq_2x": {SignalTicker: "^NDX", TradeTicker: "QLD", SMAPeriod: 200},
}

// Presets returns the available preset names in sorted order.
func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ApplyPreset overwrites the ticker and period fields from a named preset.
func (c *RunConfig) ApplyPreset(name string) error {
	preset, ok := presets[name]
	if !ok {
		return errors.Newf(errors.ErrCodeInvalidConfiguration, "unknown preset %q (available: %v)", name, Presets())
	}

	c.SignalTicker = preset.SignalTicker
	c.TradeTicker = preset.TradeTicker
	c.SMAPeriod = preset.SMAPeriod

	return nil
}
