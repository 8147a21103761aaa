package billing

import (
	"context"
	"time"
)

// CheckoutRequest contains data needed to create a hosted checkout session.
type CheckoutRequest struct {
	PriceID    string // provider's price identifier
	CustomerID string // internal user ID, echoed back in gateway custom data
	Email      string // pre-fill billing email if known
	SuccessURL string // redirect after successful payment
	CancelURL  string // redirect if customer cancels
}

// CheckoutSession is a hosted checkout the client should be navigated to.
type CheckoutSession struct {
	URL        string
	CheckoutID string
}

// GatewaySubscription is the authoritative subscription state reported by
// the hosted-checkout gateway.
type GatewaySubscription struct {
	ID               string
	Status           string // provider-native status string
	CurrentPeriodEnd time.Time
	Amount           int64
	Currency         string
}

// HostedCheckoutGateway drives the redirect-based checkout protocol.
// Completion is discovered later by querying the gateway with the
// server-issued subscription ID, never inferred client-side.
type HostedCheckoutGateway interface {
	// CreateCheckout creates a hosted checkout session.
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// GetSubscription queries the gateway for authoritative subscription state.
	GetSubscription(ctx context.Context, subscriptionID string) (*GatewaySubscription, error)
}

// Order is a server-created payment order for the widget-based protocol.
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// PaymentCallback is the payload delivered by the gateway's client-side
// widget on completion. It is untrusted client input until VerifySignature
// has passed.
type PaymentCallback struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
}

// GatewayPayment is the authoritative payment state reported by the
// order-based gateway.
type GatewayPayment struct {
	ID       string
	OrderID  string
	Status   string // provider-native status string
	Amount   int64
	Currency string
}

// OrderGateway drives the order-creation-plus-signed-callback protocol.
type OrderGateway interface {
	// CreateOrder creates a server-side order for the given amount.
	CreateOrder(ctx context.Context, amount int64, currency string) (*Order, error)

	// VerifySignature checks the callback's HMAC against the shared secret.
	// This is the proof of payment for this protocol and must pass before
	// any other callback field is trusted.
	VerifySignature(callback PaymentCallback) error

	// GetPayment queries the gateway for authoritative payment state.
	GetPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)

	// KeyID returns the public key identifier the client widget needs.
	KeyID() string
}
