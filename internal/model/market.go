package model

// Candle is a single OHLC bar. Low <= min(Open, Close) and
// High >= max(Open, Close) are assumed, not checked.
type Candle struct {
	OpenTime int64 // epoch seconds
	Open     float64
	High     float64
	Low      float64
	Close    float64
}

// IsBullish reports whether the candle closed above its open.
func (c Candle) IsBullish() bool { return c.Close > c.Open }

// IsBearish reports whether the candle closed below its open.
func (c Candle) IsBearish() bool { return c.Close < c.Open }

// Closes extracts closing prices in order.
func Closes(candles []Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}
