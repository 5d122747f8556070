// Package gateway wraps the external payment gateway: order creation over
// HTTPS and local HMAC signature verification. The client is constructed
// once at startup from configuration and injected into the payment
// service; nothing in this package reads ambient state.
package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Order is the result of a successful order creation call.
type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// APIError describes a failure reported by the gateway or a malformed
// response. Code and Description come from the gateway's error body when
// present. Status is the HTTP status of the response, zero when the
// request never completed.
type APIError struct {
	Code        string
	Description string
	Status      int
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("gateway: %s: %s", e.Code, e.Description)
	}
	return fmt.Sprintf("gateway: status %d: %s", e.Status, e.Description)
}

// IsValidation reports whether err is a gateway error attributable to a
// bad request (the gateway's 4xx class). Callers use this to answer 400
// instead of 500 to their own clients.
func IsValidation(err error) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status >= 400 && ae.Status < 500
}

// Client talks to the gateway's order API. Order calls are single attempt
// with no built-in retry; a timeout or transport failure surfaces as an
// APIError with Status 0 and the caller decides what to do.
type Client struct {
	keyID     string
	keySecret string
	baseURL   string
	http      *http.Client
}

// NewClient constructs a gateway client. baseURL may point at a sandbox or
// a test server; the public API is used when it is empty.
func NewClient(keyID, keySecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://api.razorpay.com/v1"
	}
	return &Client{
		keyID:     keyID,
		keySecret: keySecret,
		baseURL:   baseURL,
		http:      &http.Client{Timeout: 10 * time.Second},
	}
}

type orderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type errorEnvelope struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// CreateOrder creates an order for the given amount in paise. The receipt
// tag is echoed back by the gateway for reconciliation; notes carry
// arbitrary metadata such as the booking id.
func (c *Client) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string, notes map[string]string) (Order, error) {
	body, err := json.Marshal(orderRequest{
		Amount:   amountPaise,
		Currency: currency,
		Receipt:  receipt,
		Notes:    notes,
	})
	if err != nil {
		return Order{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return Order{}, err
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Order{}, &APIError{Description: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Order{}, &APIError{Status: resp.StatusCode, Description: "unreadable response body"}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env errorEnvelope
		if err := json.Unmarshal(raw, &env); err == nil && env.Error.Code != "" {
			return Order{}, &APIError{Code: env.Error.Code, Description: env.Error.Description, Status: resp.StatusCode}
		}
		return Order{}, &APIError{Status: resp.StatusCode, Description: string(raw)}
	}

	var ord Order
	if err := json.Unmarshal(raw, &ord); err != nil || ord.ID == "" {
		return Order{}, &APIError{Status: resp.StatusCode, Description: "malformed order response"}
	}
	return ord, nil
}

// Sign computes the hex HMAC-SHA256 of "orderID|paymentID" under secret.
// This is exactly the signature the gateway attaches to checkout
// callbacks.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the expected signature from the stored order
// id and the supplied payment id and compares it to the supplied
// signature in constant time. Pure computation, no I/O.
func (c *Client) VerifySignature(orderID, paymentID, signature string) bool {
	expected := Sign(orderID, paymentID, c.keySecret)
	return hmac.Equal([]byte(expected), []byte(signature))
}
