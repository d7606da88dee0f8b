package strategy

import (
	"SignalsPro/internal/calculator"
	"SignalsPro/internal/model"
	"SignalsPro/internal/pattern"
)

// Params selects the indicator periods. Zero values fall back to the defaults.
type Params struct {
	RSIPeriod int
	SMAPeriod int
}

// DefaultParams returns RSI(14) and SMA(20).
func DefaultParams() Params {
	return Params{RSIPeriod: calculator.DefaultRSIPeriod, SMAPeriod: calculator.DefaultSMAPeriod}
}

// resolved replaces non-positive periods with the defaults.
func (p Params) resolved() Params {
	if p.RSIPeriod <= 0 {
		p.RSIPeriod = calculator.DefaultRSIPeriod
	}
	if p.SMAPeriod <= 0 {
		p.SMAPeriod = calculator.DefaultSMAPeriod
	}
	return p
}

// GenerateSignal maps indicator values to a trade signal.
// Same inputs always yield the same signal.
func GenerateSignal(rsi, sma float64, p model.Pattern, lastClose float64) model.Signal {
	return matchRule(Inputs{RSI: rsi, SMA: sma, Pattern: p, LastClose: lastClose})
}

// Analyze computes indicators, pattern and signal for one candle sequence.
// The returned analysis carries no asset or timestamps; callers stamp those.
func Analyze(candles []model.Candle, params Params) (*model.Analysis, error) {
	params = params.resolved()
	sma, err := calculator.ComputeSMA(candles, params.SMAPeriod)
	if err != nil {
		return nil, err
	}
	rsi := calculator.ComputeRSI(candles, params.RSIPeriod)
	pat := pattern.Detect(candles)
	lastClose := candles[len(candles)-1].Close

	return &model.Analysis{
		Snapshot: model.IndicatorSnapshot{
			RSI:       rsi,
			SMA:       sma,
			RSIPeriod: params.RSIPeriod,
			SMAPeriod: params.SMAPeriod,
		},
		Pattern:   pat,
		LastClose: lastClose,
		Signal:    GenerateSignal(rsi, sma, pat, lastClose),
		Candles:   candles,
	}, nil
}
