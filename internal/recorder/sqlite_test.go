package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalsPro/internal/model"
)

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer r.Close()

	now := time.Unix(1700000000, 0)
	a := &model.Analysis{
		ID:          "a-1",
		Asset:       "EURUSD-OTC",
		Granularity: 60,
		Snapshot:    model.IndicatorSnapshot{RSI: 57.1, SMA: 1.08},
		Pattern:     model.PatternNone,
		LastClose:   1.09,
		Signal:      model.Signal{Action: model.ActionCall, Confidence: 65, Rule: "momentum_above_sma"},
		GeneratedAt: now,
		ValidUntil:  now.Add(time.Minute),
	}
	require.NoError(t, r.RecordSignal(&SignalEvent{Analysis: a, Trigger: "COMMAND"}))
	require.NoError(t, r.RecordBacktest(&BacktestEvent{
		Asset: "EURUSD-OTC", Granularity: 60, WindowSize: 20, FlatPolicy: "put", Candles: 300,
		Result: &model.BacktestResult{Wins: 10, Losses: 5, Accuracy: 66.67, Holds: 3},
	}))
	require.NoError(t, r.RecordOrder(&OrderEvent{
		SignalID: "a-1", Asset: "EURUSD-OTC", Direction: model.ActionCall, Amount: 1, ExpiryMinutes: 1,
		Accepted: true, OrderID: "o-1",
	}))

	var action, rule string
	require.NoError(t, r.db.QueryRow(`SELECT action, rule FROM signals WHERE id = ?`, "a-1").Scan(&action, &rule))
	assert.Equal(t, "call", action)
	assert.Equal(t, "momentum_above_sma", rule)

	var wins, losses int
	require.NoError(t, r.db.QueryRow(`SELECT wins, losses FROM backtests`).Scan(&wins, &losses))
	assert.Equal(t, 10, wins)
	assert.Equal(t, 5, losses)

	var orderID string
	var accepted bool
	require.NoError(t, r.db.QueryRow(`SELECT order_id, accepted FROM orders WHERE signal_id = ?`, "a-1").Scan(&orderID, &accepted))
	assert.Equal(t, "o-1", orderID)
	assert.True(t, accepted)
}

func TestSQLiteRecorder_DuplicateSignalID(t *testing.T) {
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer r.Close()

	a := &model.Analysis{ID: "dup", Asset: "BTCUSD", Granularity: 300, Signal: model.Signal{Action: model.ActionHold}}
	require.NoError(t, r.RecordSignal(&SignalEvent{Analysis: a}))
	assert.Error(t, r.RecordSignal(&SignalEvent{Analysis: a}))
}
