package types

// PerformanceMetrics is a flat record of scalar statistics reduced from a
// ReturnsFrame and its trade log. Computed once per run and never mutated.
type PerformanceMetrics struct {
	TotalReturn             float64 `csv:"total_return" yaml:"total_return"`
	AnnualizedReturn        float64 `csv:"annualized_return" yaml:"annualized_return"`
	AnnualizedVolatility    float64 `csv:"annualized_volatility" yaml:"annualized_volatility"`
	SharpeRatio             float64 `csv:"sharpe_ratio" yaml:"sharpe_ratio"`
	SortinoRatio            float64 `csv:"sortino_ratio" yaml:"sortino_ratio"`
	CalmarRatio             float64 `csv:"calmar_ratio" yaml:"calmar_ratio"`
	MaxDrawdown             float64 `csv:"max_drawdown" yaml:"max_drawdown"`
	MaxDrawdownDurationDays int     `csv:"max_drawdown_duration_days" yaml:"max_drawdown_duration_days"`
	WinRate                 float64 `csv:"win_rate" yaml:"win_rate"`
	NumTrades               int     `csv:"num_trades" yaml:"num_trades"`
	AvgTradeReturn          float64 `csv:"avg_trade_return" yaml:"avg_trade_return"`
	AvgHoldingDays          float64 `csv:"avg_holding_days" yaml:"avg_holding_days"`
	ProfitFactor            float64 `csv:"profit_factor" yaml:"profit_factor"`
	BenchmarkTotalReturn    float64 `csv:"benchmark_total_return" yaml:"benchmark_total_return"`
	BenchmarkSharpeRatio    float64 `csv:"benchmark_sharpe_ratio" yaml:"benchmark_sharpe_ratio"`
	ExcessReturn            float64 `csv:"excess_return" yaml:"excess_return"`
}
