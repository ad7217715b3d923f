package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/moznion/go-optional"
	"github.com/stratlab-io/stratlab/internal/backtest"
	"github.com/stratlab-io/stratlab/internal/export"
	"github.com/stratlab-io/stratlab/internal/marketdata"
	"github.com/stratlab-io/stratlab/internal/runner"
	"github.com/stratlab-io/stratlab/internal/strategy/smaletf"
	"github.com/stratlab-io/stratlab/internal/types"
	"github.com/urfave/cli/v3"
)

// backtestAction runs one SMA trend backtest and prints the comparison table.
func backtestAction(ctx context.Context, cmd *cli.Command) error {
	config := runner.DefaultConfig()
	if path := cmd.String("config"); path != "" {
		loaded, err := runner.LoadConfig(path)
		if err != nil {
			return err
		}
		config = loaded
	}

	if preset := cmd.String("preset"); preset != "" {
		if err := config.ApplyPreset(preset); err != nil {
			return err
		}
	}

	// Individual flags override both the config file and the preset.
	if cmd.IsSet("signal") {
		config.SignalTicker = cmd.String("signal")
	}
	if cmd.IsSet("trade") {
		config.TradeTicker = cmd.String("trade")
	}
	if cmd.IsSet("sma") {
		config.SMAPeriod = int(cmd.Int("sma"))
	}
	if cmd.IsSet("capital") {
		config.InitialCapital = cmd.Float("capital")
	}
	if cmd.IsSet("rf") {
		config.RiskFreeRate = cmd.Float("rf")
	}
	if cmd.IsSet("data") {
		config.DataDir = cmd.String("data")
	}
	if cmd.IsSet("out") {
		config.OutputDir = cmd.String("out")
	}
	if cmd.IsSet("start") {
		config.StartDate = optional.Some(cmd.Timestamp("start"))
	}
	if cmd.IsSet("end") {
		config.EndDate = optional.Some(cmd.Timestamp("end"))
	}
	if err := config.Validate(); err != nil {
		return err
	}

	signalPrices, err := marketdata.LoadCSV(marketdata.PathForTicker(config.DataDir, config.SignalTicker))
	if err != nil {
		return err
	}
	tradePrices, err := marketdata.LoadCSV(marketdata.PathForTicker(config.DataDir, config.TradeTicker))
	if err != nil {
		return err
	}

	strategy, err := smaletf.New(config.StrategyConfig())
	if err != nil {
		return err
	}

	frame, err := strategy.CalculateSignals(signalPrices, tradePrices)
	if err != nil {
		return err
	}

	trades, err := backtest.ReplaySignals(frame)
	if err != nil {
		return err
	}

	returns, err := backtest.CompileSwitchedReturns(frame, config.RiskFreeRate, config.InitialCapital)
	if err != nil {
		return err
	}

	metrics, err := backtest.Calculate(returns, trades, config.RiskFreeRate)
	if err != nil {
		return err
	}

	printComparison(strategy.Name(), config, frame, returns, metrics)

	if cmd.Bool("save-csv") || cmd.Bool("save-html") {
		writer, err := export.NewCSVWriter(config.OutputDir)
		if err != nil {
			return err
		}
		defer writer.Close()

		if cmd.Bool("save-csv") {
			if err := writer.WriteTrades(trades); err != nil {
				return err
			}
			if err := writer.WriteReturns(returns); err != nil {
				return err
			}
			if err := writer.WriteMetrics(metrics); err != nil {
				return err
			}
		}
		if cmd.Bool("save-html") {
			report := buildReport(strategy.Name(), config, frame, returns, metrics)
			if err := writer.WriteHTML("report.html", report); err != nil {
				return err
			}
		}

		log.Printf("Results written to %s", writer.RunDir())
	}

	return nil
}

// comparisonRows summarizes the strategy curve against buy-and-hold of the
// traded instrument and of the signal index.
func comparisonRows(returns *types.ReturnsFrame, rf float64) []struct {
	Name  string
	Stats backtest.CurveStats
} {
	rows := []struct {
		Name  string
		Stats backtest.CurveStats
	}{
		{"Strategy", backtest.SummarizeCurve(returns.StrategyReturn, returns.CumulativeStrategy, returns.BaseValue, rf)},
		{"Buy&Hold LETF", backtest.SummarizeCurve(returns.BenchmarkReturn, returns.CumulativeBenchmark, returns.BaseValue, rf)},
	}
	if len(returns.IndexBenchmarkReturn) > 0 {
		rows = append(rows, struct {
			Name  string
			Stats backtest.CurveStats
		}{"Buy&Hold Index", backtest.SummarizeCurve(returns.IndexBenchmarkReturn, returns.CumulativeIndexBenchmark, returns.BaseValue, rf)})
	}

	return rows
}

func timeInvested(frame *types.SignalFrame) float64 {
	if frame.Len() == 0 {
		return 0
	}

	var on float64
	for _, s := range frame.RawSignal {
		if s == 1 {
			on++
		}
	}

	return on / float64(frame.Len())
}

func printComparison(name string, config runner.RunConfig, frame *types.SignalFrame, returns *types.ReturnsFrame, metrics types.PerformanceMetrics) {
	fmt.Printf("\n%s  (%s signal, %s traded, %d bars)\n\n",
		name, config.SignalTicker, config.TradeTicker, frame.Len())

	fmt.Printf("%-16s %14s %12s %8s %8s %8s %8s\n",
		"", "End Value", "Total Ret", "CAGR", "Vol", "Sharpe", "Max DD")
	for _, row := range comparisonRows(returns, config.RiskFreeRate) {
		s := row.Stats
		fmt.Printf("%-16s %14.2f %11.1f%% %7.2f%% %7.2f%% %8.2f %7.1f%%\n",
			row.Name, s.EndValue, s.TotalReturn*100, s.CAGR*100,
			s.AnnualizedVolatility*100, s.SharpeRatio, s.MaxDrawdown*100)
	}

	fmt.Printf("\nTrades: %d   Win rate: %.1f%%   Time invested: %.1f%%\n",
		metrics.NumTrades, metrics.WinRate*100, timeInvested(frame)*100)
}

func buildReport(name string, config runner.RunConfig, frame *types.SignalFrame, returns *types.ReturnsFrame, metrics types.PerformanceMetrics) export.Report {
	comparison := export.Section{
		Title:   "Strategy vs Buy & Hold",
		Headers: []string{"Curve", "End Value", "Total Return", "CAGR", "Volatility", "Sharpe", "Max Drawdown"},
	}
	for _, row := range comparisonRows(returns, config.RiskFreeRate) {
		s := row.Stats
		comparison.Rows = append(comparison.Rows, []string{
			row.Name,
			fmt.Sprintf("%.2f", s.EndValue),
			fmt.Sprintf("%.1f%%", s.TotalReturn*100),
			fmt.Sprintf("%.2f%%", s.CAGR*100),
			fmt.Sprintf("%.2f%%", s.AnnualizedVolatility*100),
			fmt.Sprintf("%.2f", s.SharpeRatio),
			fmt.Sprintf("%.1f%%", s.MaxDrawdown*100),
		})
	}

	summary := export.Section{
		Title:   "Run Summary",
		Headers: []string{"Field", "Value"},
		Rows: [][]string{
			{"Signal ticker", config.SignalTicker},
			{"Trade ticker", config.TradeTicker},
			{"SMA period", fmt.Sprintf("%d", config.SMAPeriod)},
			{"Bars", fmt.Sprintf("%d", frame.Len())},
			{"Trades", fmt.Sprintf("%d", metrics.NumTrades)},
			{"Win rate", fmt.Sprintf("%.1f%%", metrics.WinRate*100)},
			{"Time invested", fmt.Sprintf("%.1f%%", timeInvested(frame)*100)},
			{"Max drawdown duration", fmt.Sprintf("%d days", metrics.MaxDrawdownDurationDays)},
		},
	}

	return export.Report{
		Title:    name,
		Sections: []export.Section{summary, comparison},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Run an SMA trend backtest with leveraged-ETF substitution",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML run configuration",
			},
			&cli.StringFlag{
				Name:    "preset",
				Aliases: []string{"p"},
				Usage:   fmt.Sprintf("Named ticker preset (available: %v)", runner.Presets()),
			},
			&cli.StringFlag{
				Name:  "signal",
				Usage: "Index ticker used for the trend signal",
			},
			&cli.StringFlag{
				Name:  "trade",
				Usage: "Instrument held while risk-on",
			},
			&cli.IntFlag{
				Name:  "sma",
				Usage: "Trend lookback in trading days",
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.FloatFlag{
				Name:  "capital",
				Usage: "Starting capital in USD",
			},
			&cli.FloatFlag{
				Name:  "rf",
				Usage: "Annual risk-free rate earned while risk-off",
			},
			&cli.StringFlag{
				Name:    "data",
				Aliases: []string{"d"},
				Usage:   "Directory holding per-ticker price CSV files",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory receiving per-run result artifacts",
			},
			&cli.BoolFlag{
				Name:  "save-csv",
				Usage: "Write trades, returns and metrics as CSV/YAML",
			},
			&cli.BoolFlag{
				Name:  "save-html",
				Usage: "Write an HTML summary report",
			},
		},
		Action: backtestAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
