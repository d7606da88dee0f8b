// Package broker places demo orders in the direction of a signal.
package broker

import (
	"context"

	"github.com/shopspring/decimal"

	"SignalsPro/internal/model"
)

// OrderPlacer submits a binary order. A declined order is reported as
// *model.OrderRejectedError; transport failures are returned as-is.
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.OrderResult, error)
	Name() string
}

func rejected(req model.OrderRequest, reason string, err error) error {
	return &model.OrderRejectedError{Asset: req.Asset, Direction: req.Direction, Reason: reason, Err: err}
}

// stake validates the request and rounds its amount to cents. An amount that
// rounds to zero is rejected rather than placed as a free order.
func stake(req model.OrderRequest) (decimal.Decimal, error) {
	if err := req.Validate(); err != nil {
		return decimal.Zero, rejected(req, "invalid order", err)
	}
	s := decimal.NewFromFloat(req.Amount).Round(2)
	if !s.IsPositive() {
		return decimal.Zero, rejected(req, "amount below minimum stake", nil)
	}
	return s, nil
}
