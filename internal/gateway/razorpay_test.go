package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	c := NewClient("key", "topsecret", "")

	sig := Sign("order_123", "pay_456", "topsecret")
	assert.Len(t, sig, 64) // hex sha256

	assert.True(t, c.VerifySignature("order_123", "pay_456", sig))

	// any tampering with the inputs breaks verification
	assert.False(t, c.VerifySignature("order_124", "pay_456", sig))
	assert.False(t, c.VerifySignature("order_123", "pay_457", sig))
	assert.False(t, c.VerifySignature("order_123", "pay_456", sig[:63]+"0"))

	// a different secret yields a different signature
	other := Sign("order_123", "pay_456", "othersecret")
	assert.NotEqual(t, sig, other)
	assert.False(t, c.VerifySignature("order_123", "pay_456", other))
}

func TestCreateOrderSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key_id", user)
		assert.Equal(t, "key_secret", pass)

		var req struct {
			Amount   int64             `json:"amount"`
			Currency string            `json:"currency"`
			Receipt  string            `json:"receipt"`
			Notes    map[string]string `json:"notes"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(125000), req.Amount)
		assert.Equal(t, "INR", req.Currency)
		assert.Equal(t, "bk42-test", req.Receipt)
		assert.Equal(t, "42", req.Notes["booking_id"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"order_abc","amount":125000,"currency":"INR","status":"created"}`))
	}))
	defer srv.Close()

	c := NewClient("key_id", "key_secret", srv.URL)
	ord, err := c.CreateOrder(context.Background(), 125000, "INR", "bk42-test", map[string]string{"booking_id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", ord.ID)
	assert.Equal(t, int64(125000), ord.Amount)
	assert.Equal(t, "INR", ord.Currency)
}

func TestCreateOrderBadRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount must be at least 100"}}`))
	}))
	defer srv.Close()

	c := NewClient("key_id", "key_secret", srv.URL)
	_, err := c.CreateOrder(context.Background(), 1, "INR", "r", nil)
	require.Error(t, err)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "BAD_REQUEST_ERROR", ae.Code)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.True(t, IsValidation(err))
}

func TestCreateOrderServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`upstream exploded`))
	}))
	defer srv.Close()

	c := NewClient("key_id", "key_secret", srv.URL)
	_, err := c.CreateOrder(context.Background(), 125000, "INR", "r", nil)
	require.Error(t, err)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.False(t, IsValidation(err))
}

func TestCreateOrderMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"currency":"INR"}`)) // 200 but no order id
	}))
	defer srv.Close()

	c := NewClient("key_id", "key_secret", srv.URL)
	_, err := c.CreateOrder(context.Background(), 125000, "INR", "r", nil)
	require.Error(t, err)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "malformed order response", ae.Description)
}

func TestCreateOrderConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use

	c := NewClient("key_id", "key_secret", srv.URL)
	_, err := c.CreateOrder(context.Background(), 125000, "INR", "r", nil)
	require.Error(t, err)

	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Zero(t, ae.Status)
	assert.False(t, IsValidation(err))
}
