package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type TradeDirection string

type ExitReason string

const (
	DirectionLong  TradeDirection = "Long"
	DirectionShort TradeDirection = "Short"
)

const (
	ExitSignalChange ExitReason = "Signal Change"
	ExitTakeProfit   ExitReason = "Take Profit"
	ExitStopLoss     ExitReason = "Stop Loss"
	ExitEndOfPeriod  ExitReason = "End of Period"
)

// TradeRecord is one discrete round-trip position. Records for a single
// backtest run never overlap and are ordered by entry date.
type TradeRecord struct {
	EntryDate   time.Time      `csv:"entry_date"`
	ExitDate    time.Time      `csv:"exit_date"`
	EntryPrice  float64        `csv:"entry_price"`
	ExitPrice   float64        `csv:"exit_price"`
	Direction   TradeDirection `csv:"direction"`
	ReturnPct   float64        `csv:"return_pct"`
	ExitReason  ExitReason     `csv:"exit_reason"`
	HoldingDays int            `csv:"holding_days"`
}

// IsWinner reports whether the trade closed with a positive realized return.
func (t TradeRecord) IsWinner() bool {
	return t.ReturnPct > 0
}

// TradeReturnPct computes the signed percentage return of a round trip:
// ((exit/entry) - 1) * direction * 100. A short profits when the exit price is
// below the entry price.
func TradeReturnPct(entryPrice, exitPrice float64, direction TradeDirection) float64 {
	if entryPrice == 0 {
		return 0
	}

	sign := decimal.NewFromInt(1)
	if direction == DirectionShort {
		sign = decimal.NewFromInt(-1)
	}

	entryDec := decimal.NewFromFloat(entryPrice)
	exitDec := decimal.NewFromFloat(exitPrice)
	ratio := exitDec.Div(entryDec).Sub(decimal.NewFromInt(1))
	result, _ := ratio.Mul(sign).Mul(decimal.NewFromInt(100)).Float64()

	return result
}

// NewTradeRecord builds a closed trade with its realized return and
// calendar-day holding period.
func NewTradeRecord(entryDate, exitDate time.Time, entryPrice, exitPrice float64, direction TradeDirection, reason ExitReason) TradeRecord {
	return TradeRecord{
		EntryDate:   entryDate,
		ExitDate:    exitDate,
		EntryPrice:  entryPrice,
		ExitPrice:   exitPrice,
		Direction:   direction,
		ReturnPct:   TradeReturnPct(entryPrice, exitPrice, direction),
		ExitReason:  reason,
		HoldingDays: int(exitDate.Sub(entryDate).Hours() / 24),
	}
}
