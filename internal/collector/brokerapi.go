package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"SignalsPro/internal/model"
)

// BrokerAPIFetcher implements Fetcher against the broker's REST candle endpoint.
type BrokerAPIFetcher struct {
	BaseURL  string
	APIKey   string
	Email    string
	Password string
	Client   *http.Client
}

// NewBrokerAPIFetcher creates a new fetcher with optional proxy support.
func NewBrokerAPIFetcher(baseURL, apiKey, proxyURL string) *BrokerAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &BrokerAPIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// WithCredentials sets account credentials used when no API key is configured.
func (f *BrokerAPIFetcher) WithCredentials(email, password string) *BrokerAPIFetcher {
	f.Email = email
	f.Password = password
	return f
}

func (f *BrokerAPIFetcher) Name() string { return "broker" }

// apiCandle is the JSON shape of one candle from the broker API; it is
// mapped onto model.Candle field by field.
type apiCandle struct {
	From  int64   `json:"from"`
	Open  float64 `json:"open"`
	Max   float64 `json:"max"`
	Min   float64 `json:"min"`
	Close float64 `json:"close"`
}

func (f *BrokerAPIFetcher) FetchCandles(ctx context.Context, asset string, granularity, count int, end time.Time) ([]model.Candle, error) {
	q := url.Values{}
	q.Set("asset", asset)
	q.Set("size", strconv.Itoa(granularity))
	q.Set("count", strconv.Itoa(count))
	q.Set("to", strconv.FormatInt(end.Unix(), 10))
	endpoint := fmt.Sprintf("%s/api/v1/candles?%s", f.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build candles request")
	}
	f.authorize(req)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch candles")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read candles body")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch candles: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []apiCandle
	if err := sonic.Unmarshal(body, &raw); err != nil {
		return nil, errors.Wrap(err, "decode candles")
	}
	candles := make([]model.Candle, len(raw))
	for i, c := range raw {
		candles[i] = model.Candle{OpenTime: c.From, Open: c.Open, High: c.Max, Low: c.Min, Close: c.Close}
	}
	// Ensure chronological order
	sort.Slice(candles, func(i, j int) bool { return candles[i].OpenTime < candles[j].OpenTime })
	if len(candles) > count {
		candles = candles[len(candles)-count:]
	}
	return candles, nil
}

func (f *BrokerAPIFetcher) authorize(req *http.Request) {
	switch {
	case f.APIKey != "":
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	case f.Email != "":
		req.SetBasicAuth(f.Email, f.Password)
	}
}
