package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/AMR-Works/toolshub/pkg/entitlement"
)

// SubscriptionStore persists checkout attempts and their reconciled state.
type SubscriptionStore interface {
	// Upsert creates or updates the record keyed by (UserID, CheckoutID).
	// Concurrent upserts for the same key must converge to one row rather
	// than interleave partial writes.
	Upsert(ctx context.Context, record *SubscriptionRecord) error

	// GetByCheckoutID returns the record for one checkout attempt.
	// Returns ErrSubscriptionNotFound when no attempt exists.
	GetByCheckoutID(ctx context.Context, userID uuid.UUID, checkoutID string) (*SubscriptionRecord, error)
}

// AccessStore persists the authoritative premium-access record per user.
type AccessStore interface {
	// Get returns the access record, or ErrAccessRecordNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*entitlement.AccessRecord, error)

	// Set writes the access record, creating it if absent. Last writer wins.
	Set(ctx context.Context, record entitlement.AccessRecord) error
}
