// Package backtest replays the signal rules over historical candles.
package backtest

import (
	"fmt"
	"strings"

	"SignalsPro/internal/model"
	"SignalsPro/internal/strategy"
)

const DefaultWindowSize = 20

// FlatPolicy decides how an unchanged close is scored.
type FlatPolicy int

const (
	// FlatAsPut counts an unchanged close as a put outcome.
	FlatAsPut FlatPolicy = iota
	// FlatAsCall counts an unchanged close as a call outcome.
	FlatAsCall
	// FlatSkip leaves the prediction unscored.
	FlatSkip
)

func (p FlatPolicy) String() string {
	switch p {
	case FlatAsCall:
		return "call"
	case FlatSkip:
		return "skip"
	default:
		return "put"
	}
}

// ParseFlatPolicy accepts "put", "call" or "skip". Empty means put.
func ParseFlatPolicy(s string) (FlatPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "put":
		return FlatAsPut, nil
	case "call":
		return FlatAsCall, nil
	case "skip":
		return FlatSkip, nil
	default:
		return FlatAsPut, fmt.Errorf("unknown flat outcome policy %q", s)
	}
}

// Options configures a run. Zero values mean window 20, flat-as-put, RSI(14), SMA(20).
type Options struct {
	WindowSize int
	Flat       FlatPolicy
	Params     strategy.Params
}

// Run slides a window of WindowSize candles over the history. Each window
// ending at i-1 predicts the direction of candle i; hold predictions are
// not scored.
func Run(candles []model.Candle, opts Options) (*model.BacktestResult, error) {
	window := opts.WindowSize
	if window <= 0 {
		window = DefaultWindowSize
	}
	if len(candles) <= window {
		return nil, &model.InsufficientDataError{Op: "backtest", Need: window + 1, Got: len(candles)}
	}

	res := &model.BacktestResult{}
	for i := window; i < len(candles); i++ {
		a, err := strategy.Analyze(candles[i-window:i], opts.Params)
		if err != nil {
			return nil, fmt.Errorf("analyze window ending at %d: %w", i-1, err)
		}
		predicted := a.Signal.Action
		if !predicted.Tradable() {
			res.Holds++
			continue
		}

		realized, scored := realizedAction(candles[i-1].Close, candles[i].Close, opts.Flat)
		if candles[i].Close == candles[i-1].Close {
			res.Flats++
		}
		if !scored {
			continue
		}
		if predicted == realized {
			res.Wins++
		} else {
			res.Losses++
		}
	}

	if total := res.Scored(); total > 0 {
		res.Accuracy = float64(res.Wins) / float64(total) * 100
	}
	return res, nil
}

// RunDefault runs with the given window and all other options at their defaults.
func RunDefault(candles []model.Candle, windowSize int) (*model.BacktestResult, error) {
	return Run(candles, Options{WindowSize: windowSize})
}

func realizedAction(prevClose, close float64, flat FlatPolicy) (model.Action, bool) {
	switch {
	case close > prevClose:
		return model.ActionCall, true
	case close < prevClose:
		return model.ActionPut, true
	}
	switch flat {
	case FlatAsCall:
		return model.ActionCall, true
	case FlatSkip:
		return model.ActionHold, false
	default:
		return model.ActionPut, true
	}
}
