package collector

import (
	"context"
	"time"

	"SignalsPro/internal/model"
)

// Fetcher supplies candle history for an asset.
type Fetcher interface {
	// FetchCandles returns up to count candles of the given size (seconds)
	// ending at or before end, ordered by time ascending.
	FetchCandles(ctx context.Context, asset string, granularity, count int, end time.Time) ([]model.Candle, error)
	Name() string
}
