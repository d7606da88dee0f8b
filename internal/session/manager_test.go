package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"SignalsPro/internal/collector"
	"SignalsPro/internal/model"
	"SignalsPro/internal/recorder"
)

type mockFetcher struct{ mock.Mock }

func (m *mockFetcher) Name() string { return "mock" }

func (m *mockFetcher) FetchCandles(ctx context.Context, asset string, granularity, count int, end time.Time) ([]model.Candle, error) {
	args := m.Called(ctx, asset, granularity, count, end)
	candles, _ := args.Get(0).([]model.Candle)
	return candles, args.Error(1)
}

type mockPlacer struct{ mock.Mock }

func (m *mockPlacer) Name() string { return "mock" }

func (m *mockPlacer) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.OrderResult, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*model.OrderResult)
	return res, args.Error(1)
}

type memRecorder struct {
	signals   []*recorder.SignalEvent
	backtests []*recorder.BacktestEvent
	orders    []*recorder.OrderEvent
}

func (r *memRecorder) RecordSignal(e *recorder.SignalEvent) error {
	r.signals = append(r.signals, e)
	return nil
}
func (r *memRecorder) RecordBacktest(e *recorder.BacktestEvent) error {
	r.backtests = append(r.backtests, e)
	return nil
}
func (r *memRecorder) RecordOrder(e *recorder.OrderEvent) error {
	r.orders = append(r.orders, e)
	return nil
}
func (r *memRecorder) Close() error { return nil }

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// closes rise by 2 per candle: RSI ~66.7 and last close above SMA, so "call".
func risingCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		c := 100 + float64(2*i)
		out[i] = model.Candle{OpenTime: int64(i * 60), Open: c - 1, High: c + 1, Low: c - 2, Close: c}
	}
	return out
}

func flatCandles(n int) []model.Candle {
	out := make([]model.Candle, n)
	for i := range out {
		out[i] = model.Candle{OpenTime: int64(i * 60), Open: 5, High: 5, Low: 5, Close: 5}
	}
	return out
}

func newTestManager(f *mockFetcher, p *mockPlacer, rec recorder.Recorder) *Manager {
	c := collector.NewCollector(f, 30, 20)
	c.Now = func() time.Time { return fixedNow }
	m := NewManager(c, p, rec, Options{BacktestCandles: 60, OrderAmount: 2.5})
	m.now = func() time.Time { return fixedNow }
	return m
}

func TestAnalyze_StoresAndJournals(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "EURUSD-OTC", 300, 30, fixedNow).Return(risingCandles(30), nil)
	rec := &memRecorder{}
	m := newTestManager(f, &mockPlacer{}, rec)

	_, ok := m.Last()
	assert.False(t, ok)

	a, err := m.Analyze(context.Background(), "EURUSD-OTC", 300, TriggerCommand)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "EURUSD-OTC", a.Asset)
	assert.Equal(t, model.ActionCall, a.Signal.Action)
	assert.Equal(t, fixedNow, a.GeneratedAt)
	assert.Equal(t, fixedNow.Add(5*time.Minute), a.ValidUntil)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, a.ID, last.ID)

	require.Len(t, rec.signals, 1)
	assert.Equal(t, TriggerCommand, rec.signals[0].Trigger)
	f.AssertExpectations(t)
}

func TestAnalyze_DataUnavailableKeepsPreviousSignal(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "BTCUSD", 60, 30, fixedNow).Return(risingCandles(30), nil).Once()
	f.On("FetchCandles", mock.Anything, "BTCUSD", 60, 30, fixedNow).Return(nil, errors.New("timeout")).Once()
	m := newTestManager(f, &mockPlacer{}, nil)

	first, err := m.Analyze(context.Background(), "BTCUSD", 60, TriggerSchedule)
	require.NoError(t, err)

	_, err = m.Analyze(context.Background(), "BTCUSD", 60, TriggerSchedule)
	var unavailable *model.MarketDataUnavailableError
	require.ErrorAs(t, err, &unavailable)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, first.ID, last.ID)
}

func TestExecuteLast_NoSignal(t *testing.T) {
	m := newTestManager(&mockFetcher{}, &mockPlacer{}, nil)
	_, err := m.ExecuteLast(context.Background())
	assert.ErrorIs(t, err, model.ErrNoSignal)
}

func TestExecuteLast_HoldIsRefused(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "GBPUSD", 60, 30, fixedNow).Return(flatCandles(30), nil)
	p := &mockPlacer{}
	m := newTestManager(f, p, nil)

	a, err := m.Analyze(context.Background(), "GBPUSD", 60, TriggerCommand)
	require.NoError(t, err)
	require.Equal(t, model.ActionHold, a.Signal.Action)

	_, err = m.ExecuteLast(context.Background())
	assert.ErrorIs(t, err, model.ErrHoldSignal)
	p.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestExecuteLast_PlacesOrder(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "EURUSD-OTC", 900, 30, fixedNow).Return(risingCandles(30), nil)
	p := &mockPlacer{}
	rec := &memRecorder{}
	m := newTestManager(f, p, rec)

	a, err := m.Analyze(context.Background(), "EURUSD-OTC", 900, TriggerCommand)
	require.NoError(t, err)

	want := model.OrderRequest{Asset: "EURUSD-OTC", Direction: model.ActionCall, Amount: 2.5, ExpiryMinutes: 15, SignalID: a.ID}
	p.On("PlaceOrder", mock.Anything, want).Return(&model.OrderResult{OrderID: "o-1", Accepted: true}, nil)

	res, err := m.ExecuteLast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "o-1", res.OrderID)
	assert.Equal(t, want, res.Request)
	p.AssertExpectations(t)

	require.Len(t, rec.orders, 1)
	assert.True(t, rec.orders[0].Accepted)
	assert.Equal(t, "o-1", rec.orders[0].OrderID)
}

func TestExecuteLast_ResultDescribesPlacedOrderWhenSignalReplaced(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "BTCUSD", 900, 30, fixedNow).Return(risingCandles(30), nil)
	f.On("FetchCandles", mock.Anything, "EURUSD-OTC", 60, 30, fixedNow).Return(flatCandles(30), nil)
	p := &mockPlacer{}
	m := newTestManager(f, p, nil)

	placed, err := m.Analyze(context.Background(), "BTCUSD", 900, TriggerCommand)
	require.NoError(t, err)

	p.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.OrderRequest")).
		Run(func(mock.Arguments) {
			_, err := m.Analyze(context.Background(), "EURUSD-OTC", 60, TriggerSchedule)
			require.NoError(t, err)
		}).
		Return(&model.OrderResult{OrderID: "o-2", Accepted: true}, nil)

	res, err := m.ExecuteLast(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "BTCUSD", res.Request.Asset)
	assert.Equal(t, model.ActionCall, res.Request.Direction)
	assert.Equal(t, 15, res.Request.ExpiryMinutes)
	assert.Equal(t, 2.5, res.Request.Amount)
	assert.Equal(t, placed.ID, res.Request.SignalID)

	last, ok := m.Last()
	require.True(t, ok)
	assert.Equal(t, "EURUSD-OTC", last.Asset)
}

func TestExecuteLast_RejectionIsJournaled(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "EURUSD-OTC", 60, 30, fixedNow).Return(risingCandles(30), nil)
	p := &mockPlacer{}
	rejection := &model.OrderRejectedError{Asset: "EURUSD-OTC", Direction: model.ActionCall, Reason: "market closed"}
	p.On("PlaceOrder", mock.Anything, mock.AnythingOfType("model.OrderRequest")).Return(nil, rejection)
	rec := &memRecorder{}
	m := newTestManager(f, p, rec)

	_, err := m.Analyze(context.Background(), "EURUSD-OTC", 60, TriggerCommand)
	require.NoError(t, err)

	_, err = m.ExecuteLast(context.Background())
	var rej *model.OrderRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "market closed", rej.Reason)

	require.Len(t, rec.orders, 1)
	assert.False(t, rec.orders[0].Accepted)
	assert.Contains(t, rec.orders[0].Reason, "market closed")
}

func TestBacktest(t *testing.T) {
	f := &mockFetcher{}
	f.On("FetchCandles", mock.Anything, "ETHUSD", 60, 60, fixedNow).Return(risingCandles(60), nil)
	rec := &memRecorder{}
	m := newTestManager(f, &mockPlacer{}, rec)

	report, err := m.Backtest(context.Background(), "ETHUSD", 60)
	require.NoError(t, err)
	assert.Equal(t, 60, report.Candles)
	assert.Equal(t, 20, report.Window)
	assert.Equal(t, 40, report.Result.Wins)
	assert.Equal(t, 0, report.Result.Losses)
	assert.Equal(t, 100.0, report.Result.Accuracy)
	require.Len(t, rec.backtests, 1)
	assert.Equal(t, "put", rec.backtests[0].FlatPolicy)
}
