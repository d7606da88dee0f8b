// Package session owns the most recent analysis and turns it into orders.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"SignalsPro/internal/backtest"
	"SignalsPro/internal/broker"
	"SignalsPro/internal/collector"
	"SignalsPro/internal/logger"
	"SignalsPro/internal/model"
	"SignalsPro/internal/recorder"
	"SignalsPro/internal/strategy"
)

// Trigger labels which path produced a signal in the journal.
const (
	TriggerCommand  = "COMMAND"
	TriggerSchedule = "SCHEDULE"
)

// BacktestReport is a backtest result with the context it ran in.
type BacktestReport struct {
	Asset       string
	Granularity int
	Candles     int
	Window      int
	Flat        backtest.FlatPolicy
	Result      *model.BacktestResult
}

// Options configures a Manager.
type Options struct {
	Params          strategy.Params
	Backtest        backtest.Options
	BacktestCandles int
	OrderAmount     float64
}

// Manager coordinates collection, analysis and order placement. It is safe
// for concurrent use by the command handler and cron jobs.
type Manager struct {
	collector *collector.Collector
	placer    broker.OrderPlacer
	rec       recorder.Recorder
	opts      Options
	now       func() time.Time

	mu   sync.Mutex
	last *model.Analysis
}

// NewManager creates a Manager. A nil recorder disables the journal.
func NewManager(c *collector.Collector, placer broker.OrderPlacer, rec recorder.Recorder, opts Options) *Manager {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if opts.BacktestCandles <= 0 {
		opts.BacktestCandles = 300
	}
	if opts.OrderAmount <= 0 {
		opts.OrderAmount = 1
	}
	opts.Backtest.Params = opts.Params
	return &Manager{collector: c, placer: placer, rec: rec, opts: opts, now: time.Now}
}

// Analyze collects candles and generates a signal, replacing the last analysis.
func (m *Manager) Analyze(ctx context.Context, asset string, granularity int, trigger string) (*model.Analysis, error) {
	candles, err := m.collector.Collect(ctx, asset, granularity)
	if err != nil {
		return nil, err
	}

	a, err := strategy.Analyze(candles, m.opts.Params)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", asset, err)
	}
	now := m.now()
	a.ID = uuid.NewString()
	a.Asset = asset
	a.Granularity = granularity
	a.GeneratedAt = now
	a.ValidUntil = now.Add(time.Duration(granularity) * time.Second)

	m.mu.Lock()
	m.last = a
	m.mu.Unlock()

	logger.Info("signal %s %s/%ds: %s (%d%%, rule=%s, rsi=%.2f, sma=%.5f, pattern=%s)",
		a.ID, asset, granularity, a.Signal.Action, a.Signal.Confidence, a.Signal.Rule,
		a.Snapshot.RSI, a.Snapshot.SMA, a.Pattern)

	if err := m.rec.RecordSignal(&recorder.SignalEvent{Analysis: a, Trigger: trigger}); err != nil {
		logger.Warn("record signal %s: %v", a.ID, err)
	}
	return a, nil
}

// Backtest replays the strategy over a longer history of the asset.
func (m *Manager) Backtest(ctx context.Context, asset string, granularity int) (*BacktestReport, error) {
	candles, err := m.collector.CollectN(ctx, asset, granularity, m.opts.BacktestCandles)
	if err != nil {
		return nil, err
	}

	res, err := backtest.Run(candles, m.opts.Backtest)
	if err != nil {
		return nil, err
	}

	window := m.opts.Backtest.WindowSize
	if window <= 0 {
		window = backtest.DefaultWindowSize
	}
	report := &BacktestReport{
		Asset:       asset,
		Granularity: granularity,
		Candles:     len(candles),
		Window:      window,
		Flat:        m.opts.Backtest.Flat,
		Result:      res,
	}

	logger.Info("backtest %s/%ds over %d candles: %d wins, %d losses, %.2f%%",
		asset, granularity, len(candles), res.Wins, res.Losses, res.Accuracy)

	if err := m.rec.RecordBacktest(&recorder.BacktestEvent{
		Asset:       asset,
		Granularity: granularity,
		WindowSize:  window,
		FlatPolicy:  report.Flat.String(),
		Candles:     len(candles),
		Result:      res,
	}); err != nil {
		logger.Warn("record backtest %s: %v", asset, err)
	}
	return report, nil
}

// ExecuteLast places an order in the direction of the last signal. The
// result carries the submitted request, so callers can describe the order
// even if a newer analysis replaces the last one meanwhile.
func (m *Manager) ExecuteLast(ctx context.Context) (*model.OrderResult, error) {
	m.mu.Lock()
	a := m.last
	m.mu.Unlock()

	if a == nil {
		return nil, model.ErrNoSignal
	}
	if !a.Signal.Action.Tradable() {
		return nil, model.ErrHoldSignal
	}

	req := model.OrderRequest{
		Asset:         a.Asset,
		Direction:     a.Signal.Action,
		Amount:        m.opts.OrderAmount,
		ExpiryMinutes: a.ExpiryMinutes(),
		SignalID:      a.ID,
	}
	res, err := m.placer.PlaceOrder(ctx, req)

	evt := &recorder.OrderEvent{
		SignalID:      req.SignalID,
		Asset:         req.Asset,
		Direction:     req.Direction,
		Amount:        req.Amount,
		ExpiryMinutes: req.ExpiryMinutes,
	}
	if err != nil {
		evt.Reason = err.Error()
		logger.Warn("order %s %s via %s failed: %v", req.Direction, req.Asset, m.placer.Name(), err)
	} else {
		res.Request = req
		evt.Accepted = true
		evt.OrderID = res.OrderID
		logger.Info("order %s placed: %s %s %.2f for %dm", res.OrderID, req.Direction, req.Asset, req.Amount, req.ExpiryMinutes)
	}
	if rerr := m.rec.RecordOrder(evt); rerr != nil {
		logger.Warn("record order for %s: %v", req.SignalID, rerr)
	}

	if err != nil {
		return nil, err
	}
	return res, nil
}

// Last returns a copy of the most recent analysis.
func (m *Manager) Last() (model.Analysis, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.last == nil {
		return model.Analysis{}, false
	}
	return *m.last, true
}
