package broker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"SignalsPro/internal/model"
)

// RESTBroker places orders through the broker's REST gateway.
type RESTBroker struct {
	BaseURL  string
	APIKey   string
	Email    string
	Password string
	Client   *http.Client
	now      func() time.Time
}

// NewRESTBroker creates a client with optional proxy support.
func NewRESTBroker(baseURL, apiKey, email, password, proxyURL string) *RESTBroker {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RESTBroker{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Email:    email,
		Password: password,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		now: time.Now,
	}
}

func (b *RESTBroker) Name() string { return "rest" }

type orderPayload struct {
	Asset         string `json:"asset"`
	Direction     string `json:"direction"`
	Amount        string `json:"amount"`
	ExpiryMinutes int    `json:"expiry_minutes"`
	ClientID      string `json:"client_id,omitempty"`
}

type orderResponse struct {
	Accepted bool     `json:"accepted"`
	OrderID  string   `json:"order_id"`
	Reason   string   `json:"reason"`
	Balance  *float64 `json:"balance"`
}

func (b *RESTBroker) PlaceOrder(ctx context.Context, req model.OrderRequest) (*model.OrderResult, error) {
	amount, err := stake(req)
	if err != nil {
		return nil, err
	}

	body, err := sonic.Marshal(orderPayload{
		Asset:         req.Asset,
		Direction:     string(req.Direction),
		Amount:        amount.StringFixed(2),
		ExpiryMinutes: req.ExpiryMinutes,
		ClientID:      req.SignalID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "marshal order")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, b.BaseURL+"/api/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	switch {
	case b.APIKey != "":
		httpReq.Header.Set("Authorization", "Bearer "+b.APIKey)
	case b.Email != "":
		httpReq.SetBasicAuth(b.Email, b.Password)
	}

	resp, err := b.Client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "send order")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read order response")
	}
	if resp.StatusCode/100 != 2 && resp.StatusCode != http.StatusUnprocessableEntity {
		return nil, fmt.Errorf("place order: status %d, body: %s", resp.StatusCode, string(respBody))
	}

	var out orderResponse
	if err := sonic.Unmarshal(respBody, &out); err != nil {
		return nil, errors.Wrap(err, "decode order response")
	}
	if !out.Accepted {
		reason := out.Reason
		if reason == "" {
			reason = "declined by broker"
		}
		return nil, rejected(req, reason, nil)
	}

	res := &model.OrderResult{OrderID: out.OrderID, Accepted: true, PlacedAt: b.now()}
	if out.Balance != nil {
		res.Balance = *out.Balance
	}
	return res, nil
}
