package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/stratlab-io/stratlab/internal/export"
	"github.com/stratlab-io/stratlab/internal/logger"
	"github.com/stratlab-io/stratlab/internal/marketdata"
	"github.com/stratlab-io/stratlab/internal/optimizer"
	"github.com/stratlab-io/stratlab/internal/strategy/rsimr"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// optimizeAction sweeps the RSI mean-reversion grid over one price series and
// prints the best parameter sets.
func optimizeAction(ctx context.Context, cmd *cli.Command) error {
	prices, err := marketdata.LoadCSV(cmd.String("data"))
	if err != nil {
		return err
	}

	grid := optimizer.DefaultGrid()
	if path := cmd.String("grid"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read grid file: %w", err)
		}
		if err := yaml.Unmarshal(data, &grid); err != nil {
			return fmt.Errorf("failed to parse grid file: %w", err)
		}
	}
	if cmd.IsSet("position-type") {
		grid.PositionType = rsimr.PositionType(cmd.String("position-type"))
	}
	if cmd.IsSet("rf") {
		grid.RiskFreeRate = cmd.Float("rf")
	}

	objective := optimizer.Objective(cmd.String("objective"))

	zapLogger, err := logger.NewLogger()
	if err != nil {
		return err
	}

	opt := optimizer.New(
		optimizer.WithLogger(zapLogger),
		optimizer.WithWorkers(int(cmd.Int("workers"))),
		optimizer.WithProgress(!cmd.Bool("quiet")),
	)

	result, err := opt.Run(prices, grid.Enumerate(), objective)
	if err != nil {
		return err
	}

	fmt.Println(result.Describe(objective))

	topN := int(cmd.Int("top"))
	fmt.Printf("\n%4s %4s %4s %4s %6s %6s %6s %10s %8s %8s %8s\n",
		"rsi", "os", "ob", "ma", "std", "tp", "sl",
		string(objective), "return", "winrate", "trades")
	for _, row := range result.Results.TopN(topN, objective) {
		fmt.Printf("%4d %4.0f %4.0f %4d %6.1f %6.1f %6.1f %10.4f %7.1f%% %7.1f%% %8d\n",
			row.RSIPeriod, row.Oversold, row.Overbought, row.MAPeriod,
			row.StdDevMultiplier, row.TakeProfitPct, row.StopLossPct,
			objective.Value(row.PerformanceMetrics),
			row.TotalReturn*100, row.WinRate*100, row.NumTrades)
	}

	if cmd.Bool("save-csv") {
		writer, err := export.NewCSVWriter(cmd.String("out"))
		if err != nil {
			return err
		}
		defer writer.Close()

		file, err := os.Create(writer.RunDir() + "/optimization_results.csv")
		if err != nil {
			return fmt.Errorf("failed to create results file: %w", err)
		}
		defer file.Close()

		if err := result.Results.WriteCSV(file, objective); err != nil {
			return err
		}

		log.Printf("Results written to %s", writer.RunDir())
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "optimize",
		Usage: "Grid-search RSI mean-reversion parameters over a price series",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Path to the price CSV file",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "objective",
				Aliases: []string{"m"},
				Usage:   fmt.Sprintf("Metric to maximize (available: %v)", optimizer.Objectives),
				Value:   string(optimizer.ObjectiveSharpeRatio),
			},
			&cli.StringFlag{
				Name:  "grid",
				Usage: "Path to a YAML grid definition (defaults to the built-in sweep)",
			},
			&cli.StringFlag{
				Name:  "position-type",
				Usage: "Position type for every grid point (long_only, short_only, long_short)",
			},
			&cli.FloatFlag{
				Name:  "rf",
				Usage: "Annual risk-free rate used in ratio metrics",
			},
			&cli.IntFlag{
				Name:    "workers",
				Aliases: []string{"w"},
				Usage:   "Number of concurrent pipeline workers (defaults to CPU count)",
			},
			&cli.IntFlag{
				Name:    "top",
				Aliases: []string{"n"},
				Usage:   "Number of best rows to print",
				Value:   10,
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory receiving per-run result artifacts",
				Value:   "results",
			},
			&cli.BoolFlag{
				Name:  "save-csv",
				Usage: "Write the full result table as CSV",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Disable the progress bar",
			},
		},
		Action: optimizeAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
