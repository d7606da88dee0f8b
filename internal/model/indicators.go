package model

import "time"

// IndicatorSnapshot holds the indicators computed over one candle window.
type IndicatorSnapshot struct {
	RSI       float64
	SMA       float64
	RSIPeriod int
	SMAPeriod int
}

// Pattern is the two-candle formation found at the end of a sequence.
type Pattern string

const (
	PatternNone             Pattern = "none"
	PatternBullishEngulfing Pattern = "bullish_engulfing"
	PatternBearishEngulfing Pattern = "bearish_engulfing"
)

// Analysis is the outcome of one "generate signal" request.
type Analysis struct {
	ID          string
	Asset       string
	Granularity int // seconds
	Snapshot    IndicatorSnapshot
	Pattern     Pattern
	LastClose   float64
	Signal      Signal
	Candles     []Candle
	GeneratedAt time.Time
	ValidUntil  time.Time
}

// ExpiryMinutes is the order expiry matching the analysed timeframe.
func (a *Analysis) ExpiryMinutes() int {
	m := a.Granularity / 60
	if m < 1 {
		m = 1
	}
	return m
}
