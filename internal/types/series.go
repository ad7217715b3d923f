package types

import (
	"math"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// PricePoint is a single daily closing price observation.
type PricePoint struct {
	Date  time.Time `csv:"date"`
	Close float64   `csv:"close"`
}

// PriceSeries is an ordered sequence of daily closing prices. Dates are
// strictly increasing with no duplicates; non-trading days are simply absent.
// A series is immutable once built; strategy components borrow it read-only.
type PriceSeries []PricePoint

// Validate checks that the series is non-empty and strictly ascending in date.
func (p PriceSeries) Validate() error {
	if len(p) == 0 {
		return errors.New(errors.ErrCodeEmptyPriceSeries, "price series cannot be empty")
	}

	for i := 1; i < len(p); i++ {
		if !p[i].Date.After(p[i-1].Date) {
			return errors.Newf(errors.ErrCodeUnorderedPriceSeries,
				"price series dates must be strictly ascending: %s followed by %s",
				p[i-1].Date.Format("2006-01-02"), p[i].Date.Format("2006-01-02"))
		}
	}

	return nil
}

// Dates returns the date column.
func (p PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(p))
	for i, pt := range p {
		dates[i] = pt.Date
	}

	return dates
}

// Closes returns the closing price column.
func (p PriceSeries) Closes() []float64 {
	closes := make([]float64, len(p))
	for i, pt := range p {
		closes[i] = pt.Close
	}

	return closes
}

// Returns computes day-over-day percentage changes. The first observation has
// no prior close and carries NaN.
func (p PriceSeries) Returns() []float64 {
	returns := make([]float64, len(p))
	for i := range p {
		if i == 0 {
			returns[i] = math.NaN()
			continue
		}

		returns[i] = p[i].Close/p[i-1].Close - 1
	}

	return returns
}

// Between returns the sub-series within the optional [start, end] date range,
// inclusive on both ends.
func (p PriceSeries) Between(start, end optional.Option[time.Time]) PriceSeries {
	out := p
	if start.IsSome() {
		s := start.Unwrap()
		for len(out) > 0 && out[0].Date.Before(s) {
			out = out[1:]
		}
	}
	if end.IsSome() {
		e := end.Unwrap()
		for len(out) > 0 && out[len(out)-1].Date.After(e) {
			out = out[:len(out)-1]
		}
	}

	return out
}
