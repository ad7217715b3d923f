// Package export persists backtest artifacts to disk. Each run gets its own
// directory so repeated runs never clobber earlier output.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/google/uuid"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/stratlab-io/stratlab/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ResultWriter defines the interface for writing backtest results.
type ResultWriter interface {
	// WriteTrades writes the trade log.
	WriteTrades(trades []types.TradeRecord) error

	// WriteReturns writes the daily return and equity curve columns.
	WriteReturns(frame *types.ReturnsFrame) error

	// WriteMetrics writes the performance metrics summary.
	WriteMetrics(metrics types.PerformanceMetrics) error

	// WriteTable writes an arbitrary csv-tagged slice under the given filename.
	WriteTable(filename string, rows interface{}) error

	// RunDir returns the directory holding this run's artifacts.
	RunDir() string

	// Close finalizes the writing process.
	Close() error
}

// CSVWriter implements ResultWriter by writing CSV and YAML files into a
// per-run directory named by timestamp plus a short random suffix.
type CSVWriter struct {
	baseDir string
	runDir  string
}

// NewCSVWriter creates a CSVWriter rooted at baseDir.
func NewCSVWriter(baseDir string) (*CSVWriter, error) {
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	suffix := uuid.NewString()[:8]
	runDir := filepath.Join(baseDir, fmt.Sprintf("%s_%s", timestamp, suffix))

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, "failed to create run directory", err)
	}

	return &CSVWriter{
		baseDir: baseDir,
		runDir:  runDir,
	}, nil
}

// RunDir returns the directory holding this run's artifacts.
func (w *CSVWriter) RunDir() string {
	return w.runDir
}

// WriteTrades writes the trade log as trades.csv.
func (w *CSVWriter) WriteTrades(trades []types.TradeRecord) error {
	return w.WriteTable("trades.csv", trades)
}

// WriteReturns writes the daily return and equity curve columns as
// returns.csv. The index benchmark columns appear only when populated.
func (w *CSVWriter) WriteReturns(frame *types.ReturnsFrame) error {
	file, err := os.Create(filepath.Join(w.runDir, "returns.csv"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create returns file", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	hasIndex := len(frame.IndexBenchmarkReturn) == frame.Len()

	header := []string{
		"date", "strategy_return", "benchmark_return",
		"cumulative_strategy", "cumulative_benchmark", "peak", "drawdown",
	}
	if hasIndex {
		header = append(header, "index_benchmark_return", "cumulative_index_benchmark")
	}
	if err := cw.Write(header); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write returns header", err)
	}

	for i := 0; i < frame.Len(); i++ {
		record := []string{
			frame.Dates[i].Format("2006-01-02"),
			formatFloat(frame.StrategyReturn[i]),
			formatFloat(frame.BenchmarkReturn[i]),
			formatFloat(frame.CumulativeStrategy[i]),
			formatFloat(frame.CumulativeBenchmark[i]),
			formatFloat(frame.Peak[i]),
			formatFloat(frame.Drawdown[i]),
		}
		if hasIndex {
			record = append(record,
				formatFloat(frame.IndexBenchmarkReturn[i]),
				formatFloat(frame.CumulativeIndexBenchmark[i]),
			)
		}
		if err := cw.Write(record); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, "failed to write returns row", err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteMetrics writes the performance metrics summary as metrics.yaml.
func (w *CSVWriter) WriteMetrics(metrics types.PerformanceMetrics) error {
	file, err := os.Create(filepath.Join(w.runDir, "metrics.yaml"))
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to create metrics file", err)
	}
	defer file.Close()

	data, err := yaml.Marshal(metrics)
	if err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to marshal metrics", err)
	}

	if _, err := file.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeExportFailed, "failed to write metrics", err)
	}

	return nil
}

// WriteTable writes an arbitrary csv-tagged slice under the given filename.
func (w *CSVWriter) WriteTable(filename string, rows interface{}) error {
	file, err := os.Create(filepath.Join(w.runDir, filename))
	if err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to create %s", filename)
	}
	defer file.Close()

	if err := gocsv.Marshal(rows, file); err != nil {
		return errors.Wrapf(errors.ErrCodeExportFailed, err, "failed to write %s", filename)
	}

	return nil
}

// Close finalizes the writing process.
func (w *CSVWriter) Close() error {
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
