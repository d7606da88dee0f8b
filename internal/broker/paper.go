package broker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"SignalsPro/internal/logger"
	"SignalsPro/internal/model"
)

// PaperBroker simulates a practice account: orders are accepted while the
// demo balance covers the stake.
type PaperBroker struct {
	mu      sync.Mutex
	balance decimal.Decimal
	orders  []PaperOrder
	now     func() time.Time
}

// PaperOrder is an accepted simulated order.
type PaperOrder struct {
	ID      string
	Request model.OrderRequest
	Stake   decimal.Decimal
	At      time.Time
}

// NewPaperBroker creates a practice account with the given starting balance.
func NewPaperBroker(balance float64) *PaperBroker {
	return &PaperBroker{balance: decimal.NewFromFloat(balance), now: time.Now}
}

func (b *PaperBroker) Name() string { return "paper" }

func (b *PaperBroker) PlaceOrder(_ context.Context, req model.OrderRequest) (*model.OrderResult, error) {
	amount, err := stake(req)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if amount.GreaterThan(b.balance) {
		return nil, rejected(req, "insufficient demo balance "+b.balance.StringFixed(2), nil)
	}
	b.balance = b.balance.Sub(amount)

	order := PaperOrder{ID: uuid.NewString(), Request: req, Stake: amount, At: b.now()}
	b.orders = append(b.orders, order)
	logger.Info("paper order %s: %s %s stake=%s expiry=%dm", order.ID, req.Direction, req.Asset, amount.StringFixed(2), req.ExpiryMinutes)

	balance, _ := b.balance.Float64()
	return &model.OrderResult{OrderID: order.ID, Accepted: true, PlacedAt: order.At, Balance: balance}, nil
}

// Balance returns the remaining demo balance.
func (b *PaperBroker) Balance() decimal.Decimal {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balance
}

// Orders returns a copy of the accepted orders.
func (b *PaperBroker) Orders() []PaperOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PaperOrder, len(b.orders))
	copy(out, b.orders)
	return out
}
