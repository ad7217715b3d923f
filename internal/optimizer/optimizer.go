// Package optimizer sweeps the strategy pipeline across a Cartesian grid of
// parameter combinations, tracking the best result under a chosen objective
// and collecting every successful row for tabular and heatmap display.
package optimizer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/stratlab-io/stratlab/internal/backtest"
	"github.com/stratlab-io/stratlab/internal/logger"
	"github.com/stratlab-io/stratlab/internal/strategy/rsimr"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
	"go.uber.org/zap"
)

// Optimizer drives the signal → simulate → compile → metrics pipeline once
// per grid point. Grid points are independent, so they run on a bounded
// worker pool; results land at their grid index, keeping output deterministic
// regardless of scheduling.
type Optimizer struct {
	log          *logger.Logger
	workers      int
	showProgress bool
}

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithLogger sets the logger used for skipped-point reporting.
func WithLogger(log *logger.Logger) Option {
	return func(o *Optimizer) { o.log = log }
}

// WithWorkers sets the number of concurrent pipeline workers.
func WithWorkers(n int) Option {
	return func(o *Optimizer) {
		if n > 0 {
			o.workers = n
		}
	}
}

// WithProgress enables a terminal progress bar during the sweep.
func WithProgress(enabled bool) Option {
	return func(o *Optimizer) { o.showProgress = enabled }
}

// New creates an Optimizer. By default it uses one worker per CPU, no
// progress bar, and a no-op logger.
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		log:     logger.NewNopLogger(),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// RunResult carries the full sweep outcome: every successful row in grid
// order, the single best point under the objective (ties broken by grid
// enumeration order, first seen wins), and sweep counters.
type RunResult struct {
	Results     ResultSet
	BestParams  rsimr.Params
	BestMetrics types.PerformanceMetrics
	BestValue   float64
	Evaluated   int
	Skipped     int
}

// Run evaluates every grid point against the price series. A failure in a
// single point is logged and skipped; it never aborts the sweep.
func (o *Optimizer) Run(prices types.PriceSeries, grid []rsimr.Params, objective Objective) (*RunResult, error) {
	if err := objective.Validate(); err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyGrid, "parameter grid is empty")
	}
	if err := prices.Validate(); err != nil {
		return nil, err
	}

	var bar *progressbar.ProgressBar
	if o.showProgress {
		bar = progressbar.Default(int64(len(grid)), "optimizing")
	}

	type slot struct {
		metrics types.PerformanceMetrics
		err     error
	}
	slots := make([]slot, len(grid))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < o.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				slots[idx].metrics, slots[idx].err = o.evaluate(prices, grid[idx])
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}
	for idx := range grid {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	out := &RunResult{}
	haveBest := false
	for idx, s := range slots {
		if s.err != nil {
			out.Skipped++
			o.log.Warn("skipping grid point",
				zap.Int("index", idx),
				zap.Any("params", grid[idx]),
				zap.Error(s.err),
			)
			continue
		}

		out.Evaluated++
		out.Results.Rows = append(out.Results.Rows, Result{
			Params:             grid[idx],
			PerformanceMetrics: s.metrics,
		})

		value := objective.Value(s.metrics)
		if !haveBest || value > out.BestValue {
			haveBest = true
			out.BestParams = grid[idx]
			out.BestMetrics = s.metrics
			out.BestValue = value
		}
	}

	return out, nil
}

// evaluate runs the full pipeline for one grid point. A panic from degenerate
// data is converted into a skippable error.
func (o *Optimizer) evaluate(prices types.PriceSeries, params rsimr.Params) (m types.PerformanceMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrCodeOptimizationFailed, "grid point panicked: %v", r)
		}
	}()

	strategy, err := rsimr.New(params)
	if err != nil {
		return types.PerformanceMetrics{}, err
	}

	frame, err := strategy.CalculateSignals(prices)
	if err != nil {
		return types.PerformanceMetrics{}, err
	}

	trades, err := backtest.ReplayTriggers(frame, backtest.ExitRules{
		TakeProfitPct: params.TakeProfitPct,
		StopLossPct:   params.StopLossPct,
	})
	if err != nil {
		return types.PerformanceMetrics{}, err
	}

	returns, err := backtest.CompileTradeReturns(frame, trades, types.DefaultBaseValue)
	if err != nil {
		return types.PerformanceMetrics{}, err
	}

	return backtest.Calculate(returns, trades, params.RiskFreeRate)
}

// Describe renders a short human-readable summary of the best point.
func (r *RunResult) Describe(objective Objective) string {
	return fmt.Sprintf("best %s=%.4f with RSI(%d) OS=%.0f OB=%.0f MA=%d std=%.1f TP=%.1f%% SL=%.1f%% (%d evaluated, %d skipped)",
		string(objective), r.BestValue,
		r.BestParams.RSIPeriod, r.BestParams.Oversold, r.BestParams.Overbought,
		r.BestParams.MAPeriod, r.BestParams.StdDevMultiplier,
		r.BestParams.TakeProfitPct, r.BestParams.StopLossPct,
		r.Evaluated, r.Skipped)
}
