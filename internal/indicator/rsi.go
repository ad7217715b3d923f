package indicator

import "math"

// RSI computes the Relative Strength Index using Wilder's smoothing as a
// single forward scan carrying two running averages. The first defined value
// (at index `period`) uses the simple average of gains and losses over the
// period; subsequent values smooth with weight (period-1)/period on the prior
// average and 1/period on the new observation. Rows before index `period`
// carry NaN, as do rows whose smoothed loss average is zero (an unbroken
// uptrend gives no mean-reversion information).
func RSI(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if period <= 0 || len(closes) <= period {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= period; i++ {
		gain, loss := gainLoss(closes[i] - closes[i-1])
		avgGain += gain
		avgLoss += loss
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	out[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < len(closes); i++ {
		gain, loss := gainLoss(closes[i] - closes[i-1])
		avgGain = (avgGain*float64(period-1) + gain) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + loss) / float64(period)
		out[i] = rsiFromAverages(avgGain, avgLoss)
	}

	return out
}

func gainLoss(change float64) (gain, loss float64) {
	if change > 0 {
		return change, 0
	}

	return 0, -change
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return math.NaN()
	}

	rs := avgGain / avgLoss

	return 100 - 100/(1+rs)
}
