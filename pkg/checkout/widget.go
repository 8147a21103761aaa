package checkout

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/AMR-Works/toolshub/pkg/billing"
)

// ScriptLoader loads the gateway's client-side widget script.
type ScriptLoader interface {
	Load(ctx context.Context) error
}

// WidgetOptions pre-fills the payment widget.
type WidgetOptions struct {
	KeyID    string
	OrderID  string
	Amount   int64
	Currency string
	Email    string
}

// Widget is the gateway's in-page payment surface. Open blocks until the
// user completes or dismisses the widget; dismissal is reported as
// billing.ErrUserCanceled.
type Widget interface {
	Open(ctx context.Context, opts WidgetOptions) (*billing.PaymentCallback, error)
}

// WidgetOrchestrator drives the order-plus-callback flow. The script is
// loaded exactly once per orchestrator; a later checkout reuses it. The
// widget's callback payload is untrusted and is forwarded to the backend
// verbatim; only the backend's verification answer decides the outcome.
type WidgetOrchestrator struct {
	backend   Backend
	loader    ScriptLoader
	widget    Widget
	refresher ContextRefresher
	log       *slog.Logger

	mu       sync.Mutex
	loaded   bool
	checking bool
}

// NewWidgetOrchestrator creates the widget flow.
func NewWidgetOrchestrator(backend Backend, loader ScriptLoader, widget Widget, refresher ContextRefresher, log *slog.Logger) *WidgetOrchestrator {
	if backend == nil || loader == nil || widget == nil || refresher == nil {
		panic("checkout: backend, loader, widget, and refresher are required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &WidgetOrchestrator{
		backend:   backend,
		loader:    loader,
		widget:    widget,
		refresher: refresher,
		log:       log,
	}
}

// StartCheckout runs the full flow: load script, create order, open widget,
// verify the callback. A dismissed widget yields a canceled outcome with a
// nil error; nothing is verified or persisted for it.
func (o *WidgetOrchestrator) StartCheckout(ctx context.Context, req StartRequest) (Outcome, error) {
	o.mu.Lock()
	if o.checking {
		o.mu.Unlock()
		return Outcome{}, ErrCheckoutInProgress
	}
	o.checking = true
	o.mu.Unlock()
	defer func() {
		o.mu.Lock()
		o.checking = false
		o.mu.Unlock()
	}()

	if err := o.ensureScript(ctx); err != nil {
		err = errors.Join(ErrScriptLoadFailed, err)
		return Outcome{State: OutcomeFailed, Err: err}, err
	}

	order, err := o.backend.CreateOrder(ctx, req.Amount, req.Currency)
	if err != nil {
		return Outcome{State: OutcomeFailed, Err: err}, err
	}

	o.log.InfoContext(ctx, "opening payment widget", "order_id", order.OrderID)

	callback, err := o.widget.Open(ctx, WidgetOptions{
		KeyID:    order.KeyID,
		OrderID:  order.OrderID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, billing.ErrUserCanceled) {
			o.log.InfoContext(ctx, "payment widget dismissed", "order_id", order.OrderID)
			return Outcome{State: OutcomeCanceled}, nil
		}
		return Outcome{State: OutcomeFailed, Err: err}, err
	}

	sub, err := o.backend.VerifyOrder(ctx, *callback)
	if err != nil {
		return Outcome{State: OutcomeFailed, Err: err}, err
	}

	if sub.IsPremium {
		if err := o.refresher.Refresh(ctx); err != nil {
			o.log.WarnContext(ctx, "failed to refresh session after payment", "error", err)
		}
	}

	o.log.InfoContext(ctx, "payment verified",
		"order_id", callback.OrderID, "subscription_status", sub.Status, "premium", sub.IsPremium)

	return Outcome{State: OutcomeSucceeded, Subscription: sub}, nil
}

// ensureScript loads the widget script at most once.
func (o *WidgetOrchestrator) ensureScript(ctx context.Context) error {
	o.mu.Lock()
	loaded := o.loaded
	o.mu.Unlock()
	if loaded {
		return nil
	}

	if err := o.loader.Load(ctx); err != nil {
		return err
	}

	o.mu.Lock()
	o.loaded = true
	o.mu.Unlock()
	return nil
}

var _ Orchestrator = (*WidgetOrchestrator)(nil)
