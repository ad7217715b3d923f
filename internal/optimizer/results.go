package optimizer

import (
	"io"
	"math"
	"sort"

	"github.com/gocarina/gocsv"
	"github.com/stratlab-io/stratlab/internal/strategy/rsimr"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
)

// Result is one grid point's flattened parameters and metrics; the embedded
// csv tags make the result set directly serializable, one row per point.
type Result struct {
	rsimr.Params
	types.PerformanceMetrics
}

// ResultSet is the ordered collection of successful grid-point results, in
// grid enumeration order.
type ResultSet struct {
	Rows []Result
}

// Dimension names a sweepable parameter axis for pivoting.
type Dimension string

const (
	DimRSIPeriod  Dimension = "rsi_period"
	DimOversold   Dimension = "rsi_oversold"
	DimOverbought Dimension = "rsi_overbought"
	DimMAPeriod   Dimension = "ma_period"
	DimStdDevMult Dimension = "std_dev_mult"
	DimTakeProfit Dimension = "take_profit"
	DimStopLoss   Dimension = "stop_loss"
)

// Value extracts the dimension's parameter value from a result row.
func (d Dimension) Value(r Result) (float64, error) {
	switch d {
	case DimRSIPeriod:
		return float64(r.RSIPeriod), nil
	case DimOversold:
		return r.Oversold, nil
	case DimOverbought:
		return r.Overbought, nil
	case DimMAPeriod:
		return float64(r.MAPeriod), nil
	case DimStdDevMult:
		return r.StdDevMultiplier, nil
	case DimTakeProfit:
		return r.TakeProfitPct, nil
	case DimStopLoss:
		return r.StopLossPct, nil
	default:
		return 0, errors.Newf(errors.ErrCodeUnknownDimension, "unknown parameter dimension %q", string(d))
	}
}

// SortedBy returns a copy of the rows ordered by the metric, best first. The
// sort is stable so equal values keep grid enumeration order.
func (s *ResultSet) SortedBy(metric Objective) []Result {
	rows := make([]Result, len(s.Rows))
	copy(rows, s.Rows)
	sort.SliceStable(rows, func(i, j int) bool {
		return metric.Value(rows[i].PerformanceMetrics) > metric.Value(rows[j].PerformanceMetrics)
	})

	return rows
}

// TopN returns the best n rows under the metric.
func (s *ResultSet) TopN(n int, metric Objective) []Result {
	rows := s.SortedBy(metric)
	if n < len(rows) {
		rows = rows[:n]
	}

	return rows
}

// Heatmap is a 2-D pivot of a metric over two parameter dimensions, mean
// aggregated across the remaining dimensions. Cells[i][j] corresponds to
// YValues[i] and XValues[j]; cells with no observations carry NaN.
type Heatmap struct {
	XDimension Dimension
	YDimension Dimension
	Metric     Objective
	XValues    []float64
	YValues    []float64
	Cells      [][]float64
}

// Pivot aggregates the metric over the two dimensions for heatmap rendering.
func (s *ResultSet) Pivot(x, y Dimension, metric Objective) (*Heatmap, error) {
	if err := metric.Validate(); err != nil {
		return nil, err
	}

	type cellKey struct{ x, y float64 }
	sums := map[cellKey]float64{}
	counts := map[cellKey]int{}
	xSet := map[float64]bool{}
	ySet := map[float64]bool{}

	for _, row := range s.Rows {
		xv, err := x.Value(row)
		if err != nil {
			return nil, err
		}
		yv, err := y.Value(row)
		if err != nil {
			return nil, err
		}

		key := cellKey{x: xv, y: yv}
		sums[key] += metric.Value(row.PerformanceMetrics)
		counts[key]++
		xSet[xv] = true
		ySet[yv] = true
	}

	hm := &Heatmap{
		XDimension: x,
		YDimension: y,
		Metric:     metric,
		XValues:    sortedKeys(xSet),
		YValues:    sortedKeys(ySet),
	}
	hm.Cells = make([][]float64, len(hm.YValues))
	for i, yv := range hm.YValues {
		hm.Cells[i] = make([]float64, len(hm.XValues))
		for j, xv := range hm.XValues {
			key := cellKey{x: xv, y: yv}
			if counts[key] == 0 {
				hm.Cells[i][j] = math.NaN()
				continue
			}
			hm.Cells[i][j] = sums[key] / float64(counts[key])
		}
	}

	return hm, nil
}

// WriteCSV serializes the result set as a flat table, one row per grid point,
// ranked best-first by the metric so the exported file reads like the printed
// leaderboard.
func (s *ResultSet) WriteCSV(w io.Writer, metric Objective) error {
	if err := metric.Validate(); err != nil {
		return err
	}
	if err := gocsv.Marshal(s.SortedBy(metric), w); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write optimization results", err)
	}

	return nil
}

func sortedKeys(set map[float64]bool) []float64 {
	out := make([]float64, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Float64s(out)

	return out
}
