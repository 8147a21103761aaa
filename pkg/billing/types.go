package billing

import (
	"time"

	"github.com/google/uuid"
)

// Gateway identifies a payment provider integration.
type Gateway string

const (
	// GatewayPaddle is the hosted redirect-checkout provider.
	GatewayPaddle Gateway = "paddle"
	// GatewayRazorpay is the order-plus-signed-callback provider.
	GatewayRazorpay Gateway = "razorpay"
)

// Status is the reconciled state of one checkout attempt.
// Statuses are monotonic for a given checkout: a checkout never moves
// backwards from active to pending.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
	StatusFailed   Status = "failed"
)

// SubscriptionRecord is one checkout attempt and its reconciled outcome.
// Repeat purchases create new rows that supersede earlier ones; rows are
// never deleted. Mutated only by Service.Verify.
type SubscriptionRecord struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Gateway        Gateway
	CheckoutID     string // gateway checkout session or order ID
	SubscriptionID string // gateway subscription/payment ID, empty until confirmed
	Status         Status
	Amount         int64 // smallest currency unit
	Currency       string
	ExpiresAt      time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsActive reports whether the record represents a confirmed paid subscription.
func (r *SubscriptionRecord) IsActive() bool {
	return r.Status == StatusActive
}

// GraceWindow is the entitlement window granted for a confirmed payment when
// the gateway reports no billing-period end of its own.
const GraceWindow = 30 * 24 * time.Hour
