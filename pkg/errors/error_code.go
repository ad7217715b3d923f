package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidPeriod        ErrorCode = 102
	ErrCodeInvalidThreshold     ErrorCode = 103
	ErrCodeInvalidPositionType  ErrorCode = 104
	ErrCodeInvalidDateRange     ErrorCode = 105

	// Data errors (200-299)
	ErrCodeEmptyPriceSeries     ErrorCode = 200
	ErrCodeUnorderedPriceSeries ErrorCode = 201
	ErrCodeDataNotFound         ErrorCode = 202
	ErrCodeDataParseFailed      ErrorCode = 203

	// Indicator errors (300-399)
	ErrCodeInsufficientData     ErrorCode = 300
	ErrCodeIndicatorCalculation ErrorCode = 301

	// Strategy errors (400-499)
	ErrCodeStrategyConfigError ErrorCode = 400
	ErrCodeNoSignals           ErrorCode = 401

	// Backtest errors (500-599)
	ErrCodeNoTrades      ErrorCode = 500
	ErrCodeNoReturns     ErrorCode = 501
	ErrCodeFrameMismatch ErrorCode = 502

	// Optimizer errors (600-699)
	ErrCodeEmptyGrid          ErrorCode = 600
	ErrCodeUnknownObjective   ErrorCode = 601
	ErrCodeUnknownDimension   ErrorCode = 602
	ErrCodeOptimizationFailed ErrorCode = 603

	// Export errors (700-799)
	ErrCodeExportFailed ErrorCode = 700
)
