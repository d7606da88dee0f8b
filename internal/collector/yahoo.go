package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"SignalsPro/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
// Useful as a market data fallback when no broker gateway is configured;
// OTC quotes are approximated by the regular market pair.
type YahooFetcher struct {
	Client    *http.Client
	BaseURL   string
	SymbolMap map[string]string // maps broker asset to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
		SymbolMap: map[string]string{
			"EURUSD-OTC": "EURUSD=X",
			"EURUSD":     "EURUSD=X",
			"GBPUSD":     "GBPUSD=X",
			"GBPUSD-OTC": "GBPUSD=X",
			"BTCUSD":     "BTC-USD",
			"ETHUSD":     "ETH-USD",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(asset string) string {
	if mapped, ok := f.SymbolMap[asset]; ok {
		return mapped
	}
	return asset
}

// yahooInterval maps a candle size to the chart API interval and the
// smallest range holding enough bars.
func yahooInterval(granularity, count int) (interval, rng string, err error) {
	switch granularity {
	case 60:
		interval = "1m"
	case 300:
		interval = "5m"
	case 900:
		interval = "15m"
	default:
		return "", "", fmt.Errorf("yahoo: %w: %ds", model.ErrUnsupportedGranularity, granularity)
	}
	span := time.Duration(granularity*count) * time.Second
	switch {
	case span <= 24*time.Hour:
		rng = "1d"
	case span <= 5*24*time.Hour:
		rng = "5d"
	default:
		rng = "1mo"
	}
	if interval == "1m" && rng == "1mo" {
		rng = "5d" // 1m bars are limited to the last few days
	}
	return interval, rng, nil
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					High  []*float64 `json:"high"`
					Low   []*float64 `json:"low"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooFetcher) FetchCandles(ctx context.Context, asset string, granularity, count int, end time.Time) ([]model.Candle, error) {
	interval, rng, err := yahooInterval(granularity, count)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(asset)), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo request")
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo fetch")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "yahoo read body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := sonic.Unmarshal(body, &chart); err != nil {
		return nil, errors.Wrap(err, "yahoo decode")
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	candles := make([]model.Candle, 0, len(result.Timestamp))
	cutoff := end.Unix()

	for i, ts := range result.Timestamp {
		if ts > cutoff {
			continue
		}
		o, h, l, c := at(quote.Open, i), at(quote.High, i), at(quote.Low, i), at(quote.Close, i)
		if o == nil || h == nil || l == nil || c == nil {
			continue // skip null bars (market closed)
		}
		candles = append(candles, model.Candle{OpenTime: ts, Open: *o, High: *h, Low: *l, Close: *c})
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime < candles[j].OpenTime })
	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

func at(xs []*float64, i int) *float64 {
	if i >= len(xs) {
		return nil
	}
	return xs[i]
}
