package collector

import (
	"context"
	"fmt"
	"time"

	"SignalsPro/internal/logger"
	"SignalsPro/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price   float64
	Candles []model.Candle
	Err     error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchCandles(_ context.Context, _ string, granularity, count int, end time.Time) ([]model.Candle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Candles != nil {
		if len(m.Candles) > count {
			return m.Candles[len(m.Candles)-count:], nil
		}
		return m.Candles, nil
	}
	return generateMockCandles(m.Price, granularity, count, end), nil
}

// generateMockCandles produces a gentle zig-zag uptrend ending at `end`.
func generateMockCandles(basePrice float64, granularity, count int, end time.Time) []model.Candle {
	if basePrice == 0 {
		basePrice = 1.1
	}
	candles := make([]model.Candle, count)
	start := end.Unix() - int64(granularity*count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.0005)
		if i%3 == 2 {
			p *= 0.9993
		}
		candles[i] = model.Candle{
			OpenTime: start + int64(i*granularity),
			Open:     p * 0.9998,
			High:     p * 1.0005,
			Low:      p * 0.9995,
			Close:    p,
		}
	}
	return candles
}

// SupportedGranularity reports whether the candle size is one of 1m, 5m or 15m.
func SupportedGranularity(seconds int) bool {
	switch seconds {
	case 60, 300, 900:
		return true
	}
	return false
}

// Collector fetches the candle history each analysis needs.
type Collector struct {
	Fetcher    Fetcher
	Count      int
	MinCandles int
	Now        func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, count, minCandles int) *Collector {
	return &Collector{Fetcher: fetcher, Count: count, MinCandles: minCandles, Now: time.Now}
}

// Collect fetches the default candle count for an asset.
func (c *Collector) Collect(ctx context.Context, asset string, granularity int) ([]model.Candle, error) {
	return c.CollectN(ctx, asset, granularity, c.Count)
}

// CollectN fetches `count` candles ending now. A failing source or a history
// shorter than MinCandles is reported as MarketDataUnavailableError.
func (c *Collector) CollectN(ctx context.Context, asset string, granularity, count int) ([]model.Candle, error) {
	if !SupportedGranularity(granularity) {
		return nil, fmt.Errorf("%w: %ds", model.ErrUnsupportedGranularity, granularity)
	}
	need := c.MinCandles
	if count < need {
		count = need
	}

	candles, err := c.Fetcher.FetchCandles(ctx, asset, granularity, count, c.Now())
	if err != nil {
		logger.Warn("%s fetch %s/%ds failed: %v", c.Fetcher.Name(), asset, granularity, err)
		return nil, &model.MarketDataUnavailableError{Asset: asset, Granularity: granularity, Need: need, Err: err}
	}
	if len(candles) < need {
		logger.Warn("%s returned %d candles for %s/%ds, need %d", c.Fetcher.Name(), len(candles), asset, granularity, need)
		return nil, &model.MarketDataUnavailableError{Asset: asset, Granularity: granularity, Need: need, Got: len(candles)}
	}
	logger.Debug("collected %d candles for %s/%ds from %s", len(candles), asset, granularity, c.Fetcher.Name())
	return candles, nil
}
