package strategy

import "SignalsPro/internal/model"

const (
	overbought = 70.0
	oversold   = 30.0
	midline    = 50.0
)

// Inputs are the values a rule is evaluated against.
type Inputs struct {
	RSI       float64
	SMA       float64
	Pattern   model.Pattern
	LastClose float64
}

// Rule maps matching inputs to a signal.
type Rule struct {
	Name   string
	Match  func(in Inputs) bool
	Signal model.Signal
}

// Rules is evaluated top to bottom; the first match wins.
var Rules = []Rule{
	{
		Name:   "overbought_bearish_engulfing",
		Match:  func(in Inputs) bool { return in.RSI > overbought && in.Pattern == model.PatternBearishEngulfing },
		Signal: model.Signal{Action: model.ActionPut, Confidence: 75},
	},
	{
		Name:   "oversold_bullish_engulfing",
		Match:  func(in Inputs) bool { return in.RSI < oversold && in.Pattern == model.PatternBullishEngulfing },
		Signal: model.Signal{Action: model.ActionCall, Confidence: 75},
	},
	{
		Name:   "momentum_above_sma",
		Match:  func(in Inputs) bool { return in.RSI > midline && in.LastClose > in.SMA },
		Signal: model.Signal{Action: model.ActionCall, Confidence: 65},
	},
	{
		Name:   "momentum_below_sma",
		Match:  func(in Inputs) bool { return in.RSI < midline && in.LastClose < in.SMA },
		Signal: model.Signal{Action: model.ActionPut, Confidence: 65},
	},
}

// DefaultSignal applies when no rule matches.
var DefaultSignal = model.Signal{Action: model.ActionHold, Confidence: 50, Rule: "no_match"}

// matchRule returns the signal of the first matching rule.
func matchRule(in Inputs) model.Signal {
	for _, r := range Rules {
		if r.Match(in) {
			sig := r.Signal
			sig.Rule = r.Name
			return sig
		}
	}
	return DefaultSignal
}
