package model

import (
	"fmt"
	"time"
)

// OrderRequest is a demo binary order in the direction of a signal.
type OrderRequest struct {
	Asset         string
	Direction     Action
	Amount        float64
	ExpiryMinutes int
	SignalID      string
}

// Validate checks the request before it reaches a broker.
func (r OrderRequest) Validate() error {
	if r.Asset == "" {
		return fmt.Errorf("asset is required")
	}
	if !r.Direction.Tradable() {
		return fmt.Errorf("direction must be call or put, got %q", r.Direction)
	}
	if r.Amount <= 0 {
		return fmt.Errorf("amount must be positive, got %v", r.Amount)
	}
	if r.ExpiryMinutes <= 0 {
		return fmt.Errorf("expiry must be positive, got %d", r.ExpiryMinutes)
	}
	return nil
}

// OrderResult is returned for an accepted order.
type OrderResult struct {
	OrderID  string
	Accepted bool
	PlacedAt time.Time
	Balance  float64 // remaining balance when the broker reports one
	// Request is the order as it was submitted.
	Request OrderRequest
}
