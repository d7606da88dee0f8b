package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSignal is returned when an order is requested before any analysis.
	ErrNoSignal = errors.New("no signal generated yet")
	// ErrHoldSignal is returned when the last signal recommends no trade.
	ErrHoldSignal = errors.New("last signal is hold")
	// ErrUnsupportedGranularity is returned for candle sizes other than 1m, 5m and 15m.
	ErrUnsupportedGranularity = errors.New("unsupported granularity")
)

// InsufficientDataError means a computation got too few candles to be meaningful.
type InsufficientDataError struct {
	Op   string
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data: need %d candles, got %d", e.Op, e.Need, e.Got)
}

// MarketDataUnavailableError means the data source could not supply enough history.
type MarketDataUnavailableError struct {
	Asset       string
	Granularity int
	Need        int
	Got         int
	Err         error
}

func (e *MarketDataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("market data unavailable for %s/%ds: %v", e.Asset, e.Granularity, e.Err)
	}
	return fmt.Sprintf("market data unavailable for %s/%ds: need %d candles, got %d",
		e.Asset, e.Granularity, e.Need, e.Got)
}

func (e *MarketDataUnavailableError) Unwrap() error { return e.Err }

// OrderRejectedError means the broker declined an order.
type OrderRejectedError struct {
	Asset     string
	Direction Action
	Reason    string
	Err       error
}

func (e *OrderRejectedError) Error() string {
	msg := fmt.Sprintf("order %s %s rejected", e.Direction, e.Asset)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *OrderRejectedError) Unwrap() error { return e.Err }
