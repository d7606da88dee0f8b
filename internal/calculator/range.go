package calculator

import (
	"math"

	"SignalsPro/internal/model"
)

// PriceRange scans the most recent `lookback` candles and returns the high and low.
func PriceRange(candles []model.Candle, lookback int) (high, low float64, err error) {
	if len(candles) == 0 {
		return 0, 0, &model.InsufficientDataError{Op: "range", Need: 1, Got: 0}
	}
	n := len(candles)
	start := 0
	if lookback > 0 && n > lookback {
		start = n - lookback
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for i := start; i < n; i++ {
		if candles[i].High > high {
			high = candles[i].High
		}
		if candles[i].Low < low {
			low = candles[i].Low
		}
	}
	return high, low, nil
}
