package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AMR-Works/toolshub/pkg/entitlement"
)

// VerifyRequest identifies one completed checkout to reconcile.
// Exactly one of SubscriptionID (hosted checkout) or Callback (order
// gateway) must be set, matching the Gateway discriminant. CheckoutID is
// the transaction ID the checkout attempt was recorded under; when the
// success URL carries it back, verification resolves the pending row the
// attempt created instead of writing a second one.
type VerifyRequest struct {
	Gateway        Gateway
	SubscriptionID string
	CheckoutID     string
	Callback       *PaymentCallback
}

// VerifyResult is returned to the caller so it can render confirmation.
type VerifyResult struct {
	Status    Status
	IsPremium bool
	ExpiresAt time.Time
}

// ServiceOption configures the billing service.
type ServiceOption func(*Service)

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(log *slog.Logger) ServiceOption {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// Service drives checkouts against both gateways and is the single writer of
// SubscriptionRecord and entitlement.AccessRecord state.
type Service struct {
	hosted HostedCheckoutGateway
	orders OrderGateway
	subs   SubscriptionStore
	access AccessStore
	plans  *Catalog
	log    *slog.Logger
	now    func() time.Time
}

// NewService creates the billing service. All dependencies are required;
// missing ones panic to fail fast during initialization.
func NewService(hosted HostedCheckoutGateway, orders OrderGateway, subs SubscriptionStore, access AccessStore, plans *Catalog, opts ...ServiceOption) *Service {
	if hosted == nil {
		panic("billing: HostedCheckoutGateway is required")
	}
	if orders == nil {
		panic("billing: OrderGateway is required")
	}
	if subs == nil {
		panic("billing: SubscriptionStore is required")
	}
	if access == nil {
		panic("billing: AccessStore is required")
	}
	if plans == nil {
		panic("billing: plan Catalog is required")
	}

	s := &Service{
		hosted: hosted,
		orders: orders,
		subs:   subs,
		access: access,
		plans:  plans,
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartHostedCheckout creates a hosted checkout session for the caller and
// records the attempt as pending. The pending row stays pending forever if
// the user abandons the checkout; that is expected, not an error.
func (s *Service) StartHostedCheckout(ctx context.Context, userID uuid.UUID, email, priceID, successURL, cancelURL string) (*CheckoutSession, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	plan, err := s.plans.ByPriceID(priceID)
	if err != nil {
		return nil, err
	}

	session, err := s.hosted.CreateCheckout(ctx, CheckoutRequest{
		PriceID:    priceID,
		CustomerID: userID.String(),
		Email:      email,
		SuccessURL: successURL,
		CancelURL:  cancelURL,
	})
	if err != nil {
		return nil, err
	}

	record := &SubscriptionRecord{
		UserID:     userID,
		Gateway:    GatewayPaddle,
		CheckoutID: session.CheckoutID,
		Status:     StatusPending,
		Amount:     plan.Amount,
		Currency:   plan.Currency,
	}
	if err := s.subs.Upsert(ctx, record); err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}

	s.log.InfoContext(ctx, "hosted checkout started",
		"user_id", userID, "checkout_id", session.CheckoutID, "price_id", priceID)

	return session, nil
}

// CreateOrder creates a gateway order for the widget-based checkout.
// No record is written until the signed callback is verified; an abandoned
// widget leaves no trace.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, amount int64, currency string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if amount <= 0 || currency == "" {
		return nil, ErrInvalidCheckoutAmount
	}

	order, err := s.orders.CreateOrder(ctx, amount, currency)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "payment order created",
		"user_id", userID, "order_id", order.ID, "amount", amount, "currency", currency)

	return order, nil
}

// OrderKeyID exposes the order gateway's public key for the client widget.
func (s *Service) OrderKeyID() string {
	return s.orders.KeyID()
}

// Verify reconciles one checkout with the issuing gateway and writes the
// durable records. For the order gateway the callback signature is checked
// before anything else; for the hosted gateway the subscription ID is a
// server-issued opaque handle and the authoritative check is the gateway
// query itself. The final access write makes the result visible to every
// feature gate.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, req VerifyRequest) (*VerifyResult, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}

	var record *SubscriptionRecord
	var err error

	switch req.Gateway {
	case GatewayPaddle:
		record, err = s.verifyHosted(ctx, userID, req.SubscriptionID, req.CheckoutID)
	case GatewayRazorpay:
		record, err = s.verifyOrder(ctx, userID, req.Callback)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedGateway, req.Gateway)
	}
	if err != nil {
		return nil, err
	}

	if err := s.subs.Upsert(ctx, record); err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}

	accessRecord := entitlement.AccessRecord{
		UserID:           userID,
		IsPremium:        record.Status == StatusActive,
		PremiumExpiresAt: record.ExpiresAt,
	}
	if err := s.access.Set(ctx, accessRecord); err != nil {
		return nil, errors.Join(ErrPersistenceFailure, err)
	}

	s.log.InfoContext(ctx, "subscription verified",
		"user_id", userID, "gateway", record.Gateway,
		"checkout_id", record.CheckoutID, "status", record.Status)

	return &VerifyResult{
		Status:    record.Status,
		IsPremium: accessRecord.IsPremium,
		ExpiresAt: record.ExpiresAt,
	}, nil
}

func (s *Service) verifyHosted(ctx context.Context, userID uuid.UUID, subscriptionID, checkoutID string) (*SubscriptionRecord, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("%w: subscription ID is required", ErrInvalidVerifyRequest)
	}

	sub, err := s.hosted.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}

	// Without a checkout ID from the success URL the subscription ID keys
	// the row; the original attempt then stays pending, which is tolerated.
	if checkoutID == "" {
		checkoutID = subscriptionID
	}

	status := mapHostedStatus(sub.Status)
	return &SubscriptionRecord{
		UserID:         userID,
		Gateway:        GatewayPaddle,
		CheckoutID:     checkoutID,
		SubscriptionID: sub.ID,
		Status:         status,
		Amount:         sub.Amount,
		Currency:       sub.Currency,
		ExpiresAt:      s.expiry(status, sub.CurrentPeriodEnd),
	}, nil
}

func (s *Service) verifyOrder(ctx context.Context, userID uuid.UUID, callback *PaymentCallback) (*SubscriptionRecord, error) {
	if callback == nil {
		return nil, fmt.Errorf("%w: payment callback is required", ErrInvalidVerifyRequest)
	}

	// The signature is the proof of payment for this protocol. Nothing in
	// the callback is trusted until it passes.
	if err := s.orders.VerifySignature(*callback); err != nil {
		return nil, err
	}

	payment, err := s.orders.GetPayment(ctx, callback.PaymentID)
	if err != nil {
		return nil, err
	}

	status := mapOrderStatus(payment.Status)
	return &SubscriptionRecord{
		UserID:         userID,
		Gateway:        GatewayRazorpay,
		CheckoutID:     callback.OrderID,
		SubscriptionID: payment.ID,
		Status:         status,
		Amount:         payment.Amount,
		Currency:       payment.Currency,
		// Order payments carry no billing period; a confirmed payment
		// grants the grace window from now.
		ExpiresAt: s.expiry(status, time.Time{}),
	}, nil
}

// expiry computes the entitlement window. Only a confirmed active status
// grants one: ambiguous or unknown gateway statuses yield no access rather
// than a default window.
func (s *Service) expiry(status Status, periodEnd time.Time) time.Time {
	if status != StatusActive {
		return time.Time{}
	}
	if !periodEnd.IsZero() {
		return periodEnd
	}
	return s.now().UTC().Add(GraceWindow)
}

// mapHostedStatus maps Paddle subscription statuses onto checkout statuses.
// Unknown statuses stay pending: they never grant access and never mark a
// checkout failed on the gateway's behalf.
func mapHostedStatus(gatewayStatus string) Status {
	switch strings.ToLower(gatewayStatus) {
	case "active", "trialing":
		return StatusActive
	case "canceled", "cancelled":
		return StatusCanceled
	case "past_due", "paused":
		return StatusPending
	default:
		return StatusPending
	}
}

// mapOrderStatus maps Razorpay payment statuses onto checkout statuses.
func mapOrderStatus(gatewayStatus string) Status {
	switch strings.ToLower(gatewayStatus) {
	case "captured":
		return StatusActive
	case "failed":
		return StatusFailed
	case "refunded":
		return StatusCanceled
	default:
		return StatusPending
	}
}
