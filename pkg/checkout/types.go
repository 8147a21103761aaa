package checkout

import (
	"context"
	"time"

	"github.com/AMR-Works/toolshub/pkg/billing"
)

// OutcomeState classifies how a checkout flow ended.
type OutcomeState string

const (
	OutcomeSucceeded OutcomeState = "succeeded"
	OutcomeCanceled  OutcomeState = "canceled"
	OutcomeFailed    OutcomeState = "failed"
)

// Outcome is the terminal result of one checkout attempt. Subscription is
// populated only for verified successes; Err only for failures.
type Outcome struct {
	State        OutcomeState
	Subscription *VerifiedSubscription
	Err          error
}

// StartRequest carries the inputs a flow may need. The redirect flow reads
// PriceID and the return URLs; the widget flow reads Amount and Currency.
type StartRequest struct {
	PriceID    string
	SuccessURL string
	CancelURL  string
	Amount     int64
	Currency   string
	Email      string
}

// Orchestrator is one purchase flow. Implementations are selected by the
// gateway discriminant via Registry.
type Orchestrator interface {
	StartCheckout(ctx context.Context, req StartRequest) (Outcome, error)
}

// ContextRefresher reloads the caller's session state after premium status
// changes server-side.
type ContextRefresher interface {
	Refresh(ctx context.Context) error
}

// Registry selects the orchestrator for a gateway.
type Registry map[billing.Gateway]Orchestrator

// For returns the orchestrator registered for the gateway.
func (r Registry) For(gateway billing.Gateway) (Orchestrator, error) {
	orchestrator, ok := r[gateway]
	if !ok {
		return nil, billing.ErrUnsupportedGateway
	}
	return orchestrator, nil
}

// VerifiedSubscription is the backend's answer to a verification request.
type VerifiedSubscription struct {
	Status           billing.Status
	IsPremium        bool
	PremiumExpiresAt time.Time
}
