package recorder

import "SignalsPro/internal/model"

// SignalEvent is one generated signal.
type SignalEvent struct {
	Analysis *model.Analysis
	Trigger  string // "COMMAND" or "SCHEDULE"
}

// BacktestEvent records one backtest run.
type BacktestEvent struct {
	Asset       string
	Granularity int
	WindowSize  int
	FlatPolicy  string
	Candles     int
	Result      *model.BacktestResult
}

// OrderEvent records an order attempt, accepted or not.
type OrderEvent struct {
	SignalID      string
	Asset         string
	Direction     model.Action
	Amount        float64
	ExpiryMinutes int
	Accepted      bool
	OrderID       string
	Reason        string
}

// Recorder journals signals, backtests and orders for later review.
type Recorder interface {
	RecordSignal(evt *SignalEvent) error
	RecordBacktest(evt *BacktestEvent) error
	RecordOrder(evt *OrderEvent) error
	Close() error
}
