package checkout

import (
	"context"
	"log/slog"
	"sync"
)

// Navigator hands the browser off to an external URL.
type Navigator interface {
	Navigate(ctx context.Context, url string) error
}

// RedirectOrchestrator drives the hosted-checkout flow: the backend issues a
// session and the client is navigated to the gateway's payment page. The
// purchase completes out of band; CompleteCheckout is called when the
// gateway returns the client to the success URL.
type RedirectOrchestrator struct {
	backend   Backend
	navigator Navigator
	refresher ContextRefresher
	log       *slog.Logger

	mu      sync.Mutex
	started bool
}

// NewRedirectOrchestrator creates the hosted-checkout flow.
func NewRedirectOrchestrator(backend Backend, navigator Navigator, refresher ContextRefresher, log *slog.Logger) *RedirectOrchestrator {
	if backend == nil || navigator == nil || refresher == nil {
		panic("checkout: backend, navigator, and refresher are required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &RedirectOrchestrator{
		backend:   backend,
		navigator: navigator,
		refresher: refresher,
		log:       log,
	}
}

// StartCheckout requests a session and navigates to it. A succeeded outcome
// means the hand-off happened; the subscription itself is resolved later by
// CompleteCheckout.
func (o *RedirectOrchestrator) StartCheckout(ctx context.Context, req StartRequest) (Outcome, error) {
	o.mu.Lock()
	if o.started {
		o.mu.Unlock()
		return Outcome{}, ErrCheckoutInProgress
	}
	o.started = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.started = false
		o.mu.Unlock()
	}()

	session, err := o.backend.CreateCheckout(ctx, req.PriceID, req.SuccessURL, req.CancelURL)
	if err != nil {
		return Outcome{State: OutcomeFailed, Err: err}, err
	}
	if session.CheckoutURL == "" {
		return Outcome{State: OutcomeFailed, Err: ErrNoRedirectURL}, ErrNoRedirectURL
	}

	o.log.InfoContext(ctx, "redirecting to hosted checkout", "checkout_id", session.CheckoutID)

	if err := o.navigator.Navigate(ctx, session.CheckoutURL); err != nil {
		return Outcome{State: OutcomeFailed, Err: err}, err
	}
	return Outcome{State: OutcomeSucceeded}, nil
}

// CompleteCheckout verifies the subscription the gateway reported on return
// and refreshes the caller's session on success. checkoutID is the session
// ID from StartCheckout, carried back through the success URL so the
// verification resolves the attempt's own record; pass "" when it was lost.
func (o *RedirectOrchestrator) CompleteCheckout(ctx context.Context, subscriptionID, checkoutID string) (Outcome, error) {
	sub, err := o.backend.VerifyCheckout(ctx, subscriptionID, checkoutID)
	if err != nil {
		return Outcome{State: OutcomeFailed, Err: err}, err
	}

	if sub.IsPremium {
		if err := o.refresher.Refresh(ctx); err != nil {
			o.log.WarnContext(ctx, "failed to refresh session after checkout", "error", err)
		}
	}

	o.log.InfoContext(ctx, "hosted checkout verified",
		"subscription_status", sub.Status, "premium", sub.IsPremium)

	return Outcome{State: OutcomeSucceeded, Subscription: sub}, nil
}

var _ Orchestrator = (*RedirectOrchestrator)(nil)
