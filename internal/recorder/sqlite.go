package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"SignalsPro/internal/logger"
)

// SQLiteRecorder persists the journal to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS signals (
			id           TEXT PRIMARY KEY,
			timestamp    INTEGER NOT NULL,
			trigger      TEXT,
			asset        TEXT NOT NULL,
			granularity  INTEGER NOT NULL,
			rsi          REAL,
			sma          REAL,
			pattern      TEXT,
			last_close   REAL,
			action       TEXT NOT NULL,
			confidence   INTEGER,
			rule         TEXT,
			valid_until  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_signals_ts ON signals(timestamp)`,

		`CREATE TABLE IF NOT EXISTS backtests (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			asset        TEXT NOT NULL,
			granularity  INTEGER NOT NULL,
			window_size  INTEGER,
			flat_policy  TEXT,
			candles      INTEGER,
			wins         INTEGER,
			losses       INTEGER,
			holds        INTEGER,
			flats        INTEGER,
			accuracy     REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_backtests_ts ON backtests(timestamp)`,

		`CREATE TABLE IF NOT EXISTS orders (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			signal_id      TEXT,
			asset          TEXT NOT NULL,
			direction      TEXT NOT NULL,
			amount         REAL,
			expiry_minutes INTEGER,
			accepted       INTEGER,
			order_id       TEXT,
			reason         TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_ts ON orders(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordSignal(evt *SignalEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a := evt.Analysis
	_, err := r.db.Exec(`INSERT INTO signals
		(id, timestamp, trigger, asset, granularity, rsi, sma, pattern, last_close,
		 action, confidence, rule, valid_until)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.GeneratedAt.Unix(), evt.Trigger, a.Asset, a.Granularity,
		a.Snapshot.RSI, a.Snapshot.SMA, string(a.Pattern), a.LastClose,
		string(a.Signal.Action), a.Signal.Confidence, a.Signal.Rule, a.ValidUntil.Unix(),
	)
	return err
}

func (r *SQLiteRecorder) RecordBacktest(evt *BacktestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	res := evt.Result
	_, err := r.db.Exec(`INSERT INTO backtests
		(timestamp, asset, granularity, window_size, flat_policy, candles, wins, losses, holds, flats, accuracy)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.Asset, evt.Granularity, evt.WindowSize, evt.FlatPolicy, evt.Candles,
		res.Wins, res.Losses, res.Holds, res.Flats, res.Accuracy,
	)
	return err
}

func (r *SQLiteRecorder) RecordOrder(evt *OrderEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO orders
		(timestamp, signal_id, asset, direction, amount, expiry_minutes, accepted, order_id, reason)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.SignalID, evt.Asset, string(evt.Direction), evt.Amount,
		evt.ExpiryMinutes, evt.Accepted, evt.OrderID, evt.Reason,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	logger.Info("closing sqlite recorder")
	return r.db.Close()
}
