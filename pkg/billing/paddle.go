package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	paddle "github.com/PaddleHQ/paddle-go-sdk/v4"
)

// PaddleConfig holds configuration for the Paddle gateway.
type PaddleConfig struct {
	APIKey      string        `env:"PADDLE_API_KEY"`
	Environment string        `env:"PADDLE_ENVIRONMENT" envDefault:"production"`
	Timeout     time.Duration `env:"PADDLE_TIMEOUT" envDefault:"10s"`
}

// PaddleGateway implements HostedCheckoutGateway for Paddle.
type PaddleGateway struct {
	client  *paddle.SDK
	timeout time.Duration
}

// NewPaddleGateway creates a Paddle gateway client.
// An absent API key is a configuration error so callers can distinguish
// "server misconfigured" from "gateway down".
func NewPaddleGateway(cfg PaddleConfig) (*PaddleGateway, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: paddle API key is required", ErrConfiguration)
	}

	var client *paddle.SDK
	var err error

	switch strings.ToLower(cfg.Environment) {
	case "sandbox":
		client, err = paddle.NewSandbox(cfg.APIKey)
	case "production", "":
		client, err = paddle.New(cfg.APIKey)
	default:
		return nil, fmt.Errorf("%w: invalid paddle environment: %s", ErrConfiguration, cfg.Environment)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create paddle client: %v", ErrConfiguration, err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &PaddleGateway{client: client, timeout: timeout}, nil
}

// CreateCheckout creates a hosted checkout transaction in Paddle.
func (p *PaddleGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	if req.PriceID == "" {
		return nil, fmt.Errorf("%w: price ID is required", ErrInvalidVerifyRequest)
	}
	if req.CustomerID == "" {
		return nil, ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	item := paddle.NewCreateTransactionItemsTransactionItemFromCatalog(&paddle.TransactionItemFromCatalog{
		PriceID:  req.PriceID,
		Quantity: 1,
	})

	transactionReq := &paddle.CreateTransactionRequest{
		Items: []paddle.CreateTransactionItems{*item},
		CustomData: paddle.CustomData{
			"customer_id": req.CustomerID,
		},
	}
	if req.Email != "" {
		transactionReq.CustomData["email"] = req.Email
	}
	if req.SuccessURL != "" {
		transactionReq.Checkout = &paddle.TransactionCheckout{
			URL: paddle.PtrTo(req.SuccessURL),
		}
	}

	transaction, err := p.client.TransactionsClient.CreateTransaction(ctx, transactionReq)
	if err != nil {
		return nil, errors.Join(ErrGatewayUnavailable, err)
	}

	if transaction.Checkout == nil || transaction.Checkout.URL == nil {
		return nil, fmt.Errorf("%w: no checkout URL returned from paddle", ErrGatewayUnavailable)
	}

	return &CheckoutSession{
		URL:        *transaction.Checkout.URL,
		CheckoutID: transaction.ID,
	}, nil
}

// GetSubscription queries Paddle for the authoritative subscription state.
func (p *PaddleGateway) GetSubscription(ctx context.Context, subscriptionID string) (*GatewaySubscription, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription ID is required", ErrInvalidVerifyRequest)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	sub, err := p.client.SubscriptionsClient.GetSubscription(ctx, &paddle.GetSubscriptionRequest{
		SubscriptionID: subscriptionID,
	})
	if err != nil {
		return nil, errors.Join(ErrGatewayUnavailable, err)
	}

	result := &GatewaySubscription{
		ID:     sub.ID,
		Status: string(sub.Status),
	}

	if sub.CurrentBillingPeriod != nil {
		if endsAt, err := time.Parse(time.RFC3339, sub.CurrentBillingPeriod.EndsAt); err == nil {
			result.CurrentPeriodEnd = endsAt
		}
	}

	// Amount comes from the first subscription item's unit price.
	if len(sub.Items) > 0 && sub.Items[0].Price.UnitPrice.Amount != "" {
		if amount, err := strconv.ParseInt(sub.Items[0].Price.UnitPrice.Amount, 10, 64); err == nil {
			result.Amount = amount
			result.Currency = string(sub.Items[0].Price.UnitPrice.CurrencyCode)
		}
	}

	return result, nil
}
