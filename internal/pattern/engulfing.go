// Package pattern classifies two-candle reversal formations.
package pattern

import "SignalsPro/internal/model"

// Detect examines only the last two candles and reports an engulfing pattern.
// Returns PatternNone if fewer than two candles are available.
func Detect(candles []model.Candle) model.Pattern {
	if len(candles) < 2 {
		return model.PatternNone
	}
	last := candles[len(candles)-1]
	prev := candles[len(candles)-2]

	switch {
	case isBullishEngulfing(last, prev):
		return model.PatternBullishEngulfing
	case isBearishEngulfing(last, prev):
		return model.PatternBearishEngulfing
	default:
		return model.PatternNone
	}
}

// isBullishEngulfing: a bullish candle whose body covers the previous bearish body.
func isBullishEngulfing(last, prev model.Candle) bool {
	return last.Close > prev.Open &&
		last.Open < prev.Close &&
		last.IsBullish() &&
		prev.IsBearish()
}

func isBearishEngulfing(last, prev model.Candle) bool {
	return last.Close < prev.Open &&
		last.Open > prev.Close &&
		last.IsBearish() &&
		prev.IsBullish()
}
