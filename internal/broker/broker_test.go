package broker

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SignalsPro/internal/model"
)

func callOrder(amount float64) model.OrderRequest {
	return model.OrderRequest{Asset: "EURUSD-OTC", Direction: model.ActionCall, Amount: amount, ExpiryMinutes: 1}
}

func TestPaperBroker_AcceptsAndDebits(t *testing.T) {
	b := NewPaperBroker(10)
	res, err := b.PlaceOrder(context.Background(), callOrder(1))
	require.NoError(t, err)
	assert.True(t, res.Accepted)
	_, err = uuid.Parse(res.OrderID)
	assert.NoError(t, err)
	assert.Equal(t, 9.0, res.Balance)
	assert.Equal(t, "9.00", b.Balance().StringFixed(2))
	require.Len(t, b.Orders(), 1)
}

func TestPaperBroker_Rejections(t *testing.T) {
	b := NewPaperBroker(5)
	var rej *model.OrderRejectedError

	_, err := b.PlaceOrder(context.Background(), callOrder(6))
	require.ErrorAs(t, err, &rej)
	assert.Contains(t, rej.Reason, "insufficient")

	_, err = b.PlaceOrder(context.Background(), callOrder(0))
	require.ErrorAs(t, err, &rej)

	hold := callOrder(1)
	hold.Direction = model.ActionHold
	_, err = b.PlaceOrder(context.Background(), hold)
	require.ErrorAs(t, err, &rej)

	noExpiry := callOrder(1)
	noExpiry.ExpiryMinutes = 0
	_, err = b.PlaceOrder(context.Background(), noExpiry)
	require.ErrorAs(t, err, &rej)

	assert.Empty(t, b.Orders())
	assert.Equal(t, "5.00", b.Balance().StringFixed(2))
}

func TestRESTBroker_Accepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/orders", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		var p orderPayload
		require.NoError(t, sonic.Unmarshal(raw, &p))
		assert.Equal(t, orderPayload{Asset: "EURUSD-OTC", Direction: "put", Amount: "1.50", ExpiryMinutes: 5, ClientID: "sig-1"}, p)
		_, _ = w.Write([]byte(`{"accepted":true,"order_id":"9001","balance":998.5}`))
	}))
	defer srv.Close()

	b := NewRESTBroker(srv.URL, "key", "", "", "")
	req := model.OrderRequest{Asset: "EURUSD-OTC", Direction: model.ActionPut, Amount: 1.5, ExpiryMinutes: 5, SignalID: "sig-1"}
	res, err := b.PlaceOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "9001", res.OrderID)
	assert.Equal(t, 998.5, res.Balance)
}

func TestRESTBroker_Declined(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"accepted":false,"reason":"asset suspended"}`))
	}))
	defer srv.Close()

	b := NewRESTBroker(srv.URL, "", "trader@example.com", "pw", "")
	_, err := b.PlaceOrder(context.Background(), callOrder(1))
	var rej *model.OrderRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "asset suspended", rej.Reason)
}

func TestRESTBroker_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	b := NewRESTBroker(srv.URL, "", "", "", "")
	_, err := b.PlaceOrder(context.Background(), callOrder(1))
	require.Error(t, err)
	var rej *model.OrderRejectedError
	assert.False(t, errors.As(err, &rej), "transport failures are not rejections")
}

func TestPaperBroker_SubCentAmountRejected(t *testing.T) {
	b := NewPaperBroker(100)
	_, err := b.PlaceOrder(context.Background(), callOrder(0.004))
	var rej *model.OrderRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "amount below minimum stake", rej.Reason)
	assert.Empty(t, b.Orders())
	assert.Equal(t, "100.00", b.Balance().StringFixed(2))

	res, err := b.PlaceOrder(context.Background(), callOrder(0.005))
	require.NoError(t, err)
	assert.Equal(t, 99.99, res.Balance)
}

func TestRESTBroker_SubCentAmountNeverSent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"accepted":true,"order_id":"1"}`))
	}))
	defer srv.Close()

	b := NewRESTBroker(srv.URL, "key", "", "", "")
	_, err := b.PlaceOrder(context.Background(), callOrder(0.004))
	var rej *model.OrderRejectedError
	require.ErrorAs(t, err, &rej)
	assert.Equal(t, "amount below minimum stake", rej.Reason)
	assert.Zero(t, calls)
}
