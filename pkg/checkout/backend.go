package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/AMR-Works/toolshub/pkg/billing"
)

// Backend is the billing API surface the checkout flows call.
type Backend interface {
	CreateCheckout(ctx context.Context, priceID, successURL, cancelURL string) (*Session, error)
	VerifyCheckout(ctx context.Context, subscriptionID, checkoutID string) (*VerifiedSubscription, error)
	CreateOrder(ctx context.Context, amount int64, currency string) (*OrderDetails, error)
	VerifyOrder(ctx context.Context, callback billing.PaymentCallback) (*VerifiedSubscription, error)
}

// Session is a hosted checkout session issued by the backend.
type Session struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
}

// OrderDetails is everything the payment widget needs to open.
type OrderDetails struct {
	KeyID    string `json:"keyId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderID  string `json:"orderId"`
}

// HTTPBackend talks to the billing endpoints over JSON with a bearer token.
type HTTPBackend struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPBackend creates a backend client. baseURL is the server root
// without a trailing slash; token authenticates the caller.
func NewHTTPBackend(baseURL, token string) *HTTPBackend {
	return &HTTPBackend{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (b *HTTPBackend) CreateCheckout(ctx context.Context, priceID, successURL, cancelURL string) (*Session, error) {
	var session Session
	err := b.post(ctx, "/billing/checkout", map[string]any{
		"priceId":    priceID,
		"successUrl": successURL,
		"cancelUrl":  cancelURL,
	}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (b *HTTPBackend) VerifyCheckout(ctx context.Context, subscriptionID, checkoutID string) (*VerifiedSubscription, error) {
	payload := map[string]any{
		"subscriptionId": subscriptionID,
	}
	if checkoutID != "" {
		payload["checkoutId"] = checkoutID
	}
	return b.verify(ctx, "/billing/checkout/verify", payload)
}

func (b *HTTPBackend) CreateOrder(ctx context.Context, amount int64, currency string) (*OrderDetails, error) {
	var order OrderDetails
	err := b.post(ctx, "/billing/order", map[string]any{
		"amount":   amount,
		"currency": currency,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (b *HTTPBackend) VerifyOrder(ctx context.Context, callback billing.PaymentCallback) (*VerifiedSubscription, error) {
	return b.verify(ctx, "/billing/order/verify", callback)
}

func (b *HTTPBackend) verify(ctx context.Context, path string, payload any) (*VerifiedSubscription, error) {
	var resp struct {
		Success      bool   `json:"success"`
		Subscription string `json:"subscription"`
		ExpiresAt    string `json:"premium_expires_at,omitempty"`
	}
	if err := b.post(ctx, path, payload, &resp); err != nil {
		return nil, err
	}

	sub := &VerifiedSubscription{
		Status:    billing.Status(resp.Subscription),
		IsPremium: billing.Status(resp.Subscription) == billing.StatusActive,
	}
	if resp.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, resp.ExpiresAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse premium_expires_at: %w", err)
		}
		sub.PremiumExpiresAt = expiresAt
	}
	return sub, nil
}

// post performs one authenticated JSON exchange. Error bodies follow the
// API's {error, details} shape; the error field is surfaced to callers.
func (b *HTTPBackend) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if b.token != "" {
		req.Header.Set("Authorization", "Bearer "+b.token)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return errors.Join(billing.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return billing.ErrNotAuthenticated
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Details string `json:"details"`
		}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s %s returned %d: %s", http.MethodPost, path, resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("%s %s returned %d", http.MethodPost, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
