package calculator

import "SignalsPro/internal/model"

const (
	DefaultRSIPeriod = 14
	neutralRSI       = 50.0
)

// ComputeRSI computes the RSI over the trailing `period` close-to-close changes.
// Requires at least period+1 candles. Returns 50.0 if data is insufficient.
//
// Gains and losses are plain means over the window (not Wilder-smoothed).
// A zero average loss is replaced by 1, so a straight rally reads below 100;
// the rule thresholds are calibrated against this approximation.
func ComputeRSI(candles []model.Candle, period int) float64 {
	if period <= 0 {
		period = DefaultRSIPeriod
	}
	if len(candles) < period+1 {
		return neutralRSI
	}

	closes := model.Closes(candles)
	n := len(closes)

	var gain, loss float64
	for i := n - period; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gain += change
		} else {
			loss -= change // make positive
		}
	}
	avgGain := gain / float64(period)
	avgLoss := loss / float64(period)

	if avgLoss == 0 {
		avgLoss = 1
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
