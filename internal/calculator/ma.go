package calculator

import "SignalsPro/internal/model"

const DefaultSMAPeriod = 20

// ComputeSMA returns the mean close of the trailing `period` candles, or of
// all candles when fewer are available.
func ComputeSMA(candles []model.Candle, period int) (float64, error) {
	if period <= 0 {
		period = DefaultSMAPeriod
	}
	if len(candles) == 0 {
		return 0, &model.InsufficientDataError{Op: "sma", Need: 1, Got: 0}
	}
	start := len(candles) - period
	if start < 0 {
		start = 0
	}
	sum := 0.0
	for i := start; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(len(candles)-start), nil
}
