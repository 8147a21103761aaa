package billing

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RazorpayConfig holds configuration for the Razorpay gateway.
type RazorpayConfig struct {
	KeyID     string        `env:"RAZORPAY_KEY_ID"`
	KeySecret string        `env:"RAZORPAY_KEY_SECRET"`
	BaseURL   string        `env:"RAZORPAY_BASE_URL" envDefault:"https://api.razorpay.com"`
	Timeout   time.Duration `env:"RAZORPAY_TIMEOUT" envDefault:"10s"`
}

// RazorpayGateway implements OrderGateway against Razorpay's REST API.
// Orders are created server-side with basic auth; the client widget collects
// payment and returns identifiers signed with the shared key secret.
type RazorpayGateway struct {
	keyID     string
	keySecret string
	baseURL   string
	client    *http.Client
}

// NewRazorpayGateway creates a Razorpay gateway client.
func NewRazorpayGateway(cfg RazorpayConfig) (*RazorpayGateway, error) {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil, fmt.Errorf("%w: razorpay key ID and secret are required", ErrConfiguration)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.razorpay.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &RazorpayGateway{
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}, nil
}

// KeyID returns the public key identifier the client widget needs.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Status   string `json:"status"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder creates a server-side order for the given amount in the
// smallest currency unit.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error) {
	if amount <= 0 {
		return nil, ErrInvalidCheckoutAmount
	}

	body, err := json.Marshal(map[string]any{
		"amount":   amount,
		"currency": currency,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal order request: %w", err)
	}

	var order razorpayOrder
	if err := g.do(ctx, http.MethodPost, "/v1/orders", body, &order); err != nil {
		return nil, err
	}

	return &Order{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
	}, nil
}

// VerifySignature checks the callback HMAC before any other field is trusted.
// The signature covers "<orderID>|<paymentID>" with the key secret, hex
// encoded, per the gateway's checkout protocol.
func (g *RazorpayGateway) VerifySignature(callback PaymentCallback) error {
	if callback.OrderID == "" || callback.PaymentID == "" || callback.Signature == "" {
		return ErrInvalidCallback
	}

	mac := hmac.New(sha256.New, []byte(g.keySecret))
	mac.Write([]byte(callback.OrderID + "|" + callback.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	if subtle.ConstantTimeCompare([]byte(expected), []byte(callback.Signature)) != 1 {
		return ErrInvalidCallback
	}
	return nil
}

// GetPayment queries Razorpay for the authoritative payment state.
func (g *RazorpayGateway) GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	if paymentID == "" {
		return nil, fmt.Errorf("%w: payment ID is required", ErrInvalidVerifyRequest)
	}

	var payment razorpayPayment
	if err := g.do(ctx, http.MethodGet, "/v1/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}

	return &GatewayPayment{
		ID:       payment.ID,
		OrderID:  payment.OrderID,
		Status:   payment.Status,
		Amount:   payment.Amount,
		Currency: payment.Currency,
	}, nil
}

// do performs one authenticated JSON request against the gateway API.
// Network failures, timeouts, and non-2xx responses all surface as
// ErrGatewayUnavailable so callers handle them uniformly.
func (g *RazorpayGateway) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.SetBasicAuth(g.keyID, g.keySecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return errors.Join(ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s returned %d: %s", ErrGatewayUnavailable, method, path, resp.StatusCode, payload)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrGatewayUnavailable, err)
	}
	return nil
}
