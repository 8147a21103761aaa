package checkout_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMR-Works/toolshub/pkg/billing"
	"github.com/AMR-Works/toolshub/pkg/checkout"
)

type fakeBackend struct {
	session        *checkout.Session
	sessionErr     error
	order          *checkout.OrderDetails
	orderErr       error
	verified       *checkout.VerifiedSubscription
	verifyErr      error
	lastCallback   billing.PaymentCallback
	lastCheckoutID string
	verifyCalls    int
}

func (b *fakeBackend) CreateCheckout(ctx context.Context, priceID, successURL, cancelURL string) (*checkout.Session, error) {
	return b.session, b.sessionErr
}

func (b *fakeBackend) VerifyCheckout(ctx context.Context, subscriptionID, checkoutID string) (*checkout.VerifiedSubscription, error) {
	b.verifyCalls++
	b.lastCheckoutID = checkoutID
	return b.verified, b.verifyErr
}

func (b *fakeBackend) CreateOrder(ctx context.Context, amount int64, currency string) (*checkout.OrderDetails, error) {
	return b.order, b.orderErr
}

func (b *fakeBackend) VerifyOrder(ctx context.Context, callback billing.PaymentCallback) (*checkout.VerifiedSubscription, error) {
	b.verifyCalls++
	b.lastCallback = callback
	return b.verified, b.verifyErr
}

type fakeNavigator struct {
	urls []string
	err  error
}

func (n *fakeNavigator) Navigate(ctx context.Context, url string) error {
	n.urls = append(n.urls, url)
	return n.err
}

type fakeRefresher struct {
	calls int
	err   error
}

func (r *fakeRefresher) Refresh(ctx context.Context) error {
	r.calls++
	return r.err
}

type fakeLoader struct {
	loads int
	err   error
}

func (l *fakeLoader) Load(ctx context.Context) error {
	l.loads++
	return l.err
}

type fakeWidget struct {
	callback *billing.PaymentCallback
	err      error
	opens    []checkout.WidgetOptions
}

func (w *fakeWidget) Open(ctx context.Context, opts checkout.WidgetOptions) (*billing.PaymentCallback, error) {
	w.opens = append(w.opens, opts)
	return w.callback, w.err
}

func TestRedirectOrchestrator_StartCheckout(t *testing.T) {
	t.Parallel()

	t.Run("navigates to the session URL", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{session: &checkout.Session{CheckoutURL: "https://pay.example.com/c/txn_1", CheckoutID: "txn_1"}}
		navigator := &fakeNavigator{}
		orchestrator := checkout.NewRedirectOrchestrator(backend, navigator, &fakeRefresher{}, nil)

		outcome, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{PriceID: "pri_1"})

		require.NoError(t, err)
		assert.Equal(t, checkout.OutcomeSucceeded, outcome.State)
		assert.Equal(t, []string{"https://pay.example.com/c/txn_1"}, navigator.urls)
	})

	t.Run("backend failure is a failed outcome", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{sessionErr: billing.ErrGatewayUnavailable}
		navigator := &fakeNavigator{}
		orchestrator := checkout.NewRedirectOrchestrator(backend, navigator, &fakeRefresher{}, nil)

		outcome, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{PriceID: "pri_1"})

		assert.ErrorIs(t, err, billing.ErrGatewayUnavailable)
		assert.Equal(t, checkout.OutcomeFailed, outcome.State)
		assert.Empty(t, navigator.urls, "no navigation without a session")
	})

	t.Run("session without a URL is a failed outcome", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{session: &checkout.Session{CheckoutID: "txn_1"}}
		orchestrator := checkout.NewRedirectOrchestrator(backend, &fakeNavigator{}, &fakeRefresher{}, nil)

		_, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{PriceID: "pri_1"})

		assert.ErrorIs(t, err, checkout.ErrNoRedirectURL)
	})
}

func TestRedirectOrchestrator_CompleteCheckout(t *testing.T) {
	t.Parallel()

	t.Run("verified premium refreshes the session", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{verified: &checkout.VerifiedSubscription{
			Status: billing.StatusActive, IsPremium: true,
			PremiumExpiresAt: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		}}
		refresher := &fakeRefresher{}
		orchestrator := checkout.NewRedirectOrchestrator(backend, &fakeNavigator{}, refresher, nil)

		outcome, err := orchestrator.CompleteCheckout(context.Background(), "sub_1", "txn_1")

		require.NoError(t, err)
		assert.Equal(t, checkout.OutcomeSucceeded, outcome.State)
		assert.True(t, outcome.Subscription.IsPremium)
		assert.Equal(t, 1, refresher.calls)
		assert.Equal(t, "txn_1", backend.lastCheckoutID, "the attempt's checkout ID travels with verification")
	})

	t.Run("non-premium verification does not refresh", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{verified: &checkout.VerifiedSubscription{Status: billing.StatusPending}}
		refresher := &fakeRefresher{}
		orchestrator := checkout.NewRedirectOrchestrator(backend, &fakeNavigator{}, refresher, nil)

		outcome, err := orchestrator.CompleteCheckout(context.Background(), "sub_1", "")

		require.NoError(t, err)
		assert.False(t, outcome.Subscription.IsPremium)
		assert.Zero(t, refresher.calls)
	})
}

func TestWidgetOrchestrator_StartCheckout(t *testing.T) {
	t.Parallel()

	order := &checkout.OrderDetails{KeyID: "key_test", OrderID: "order_1", Amount: 499, Currency: "INR"}
	callback := &billing.PaymentCallback{OrderID: "order_1", PaymentID: "pay_1", Signature: "sig"}

	t.Run("forwards the widget callback verbatim for verification", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{order: order, verified: &checkout.VerifiedSubscription{Status: billing.StatusActive, IsPremium: true}}
		refresher := &fakeRefresher{}
		widget := &fakeWidget{callback: callback}
		orchestrator := checkout.NewWidgetOrchestrator(backend, &fakeLoader{}, widget, refresher, nil)

		outcome, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{
			Amount: 499, Currency: "INR", Email: "u@example.com",
		})

		require.NoError(t, err)
		assert.Equal(t, checkout.OutcomeSucceeded, outcome.State)
		assert.Equal(t, *callback, backend.lastCallback)
		assert.Equal(t, 1, refresher.calls)

		require.Len(t, widget.opens, 1)
		assert.Equal(t, "key_test", widget.opens[0].KeyID)
		assert.Equal(t, "u@example.com", widget.opens[0].Email)
	})

	t.Run("script loads exactly once across checkouts", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{order: order, verified: &checkout.VerifiedSubscription{Status: billing.StatusActive}}
		loader := &fakeLoader{}
		orchestrator := checkout.NewWidgetOrchestrator(backend, loader, &fakeWidget{callback: callback}, &fakeRefresher{}, nil)

		for range 3 {
			_, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{Amount: 499, Currency: "INR"})
			require.NoError(t, err)
		}

		assert.Equal(t, 1, loader.loads)
	})

	t.Run("script load failure is retried on the next checkout", func(t *testing.T) {
		t.Parallel()

		loader := &fakeLoader{err: errors.New("network down")}
		backend := &fakeBackend{order: order, verified: &checkout.VerifiedSubscription{Status: billing.StatusActive}}
		orchestrator := checkout.NewWidgetOrchestrator(backend, loader, &fakeWidget{callback: callback}, &fakeRefresher{}, nil)

		_, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{Amount: 499, Currency: "INR"})
		assert.ErrorIs(t, err, checkout.ErrScriptLoadFailed)

		loader.err = nil
		_, err = orchestrator.StartCheckout(context.Background(), checkout.StartRequest{Amount: 499, Currency: "INR"})
		require.NoError(t, err)
		assert.Equal(t, 2, loader.loads)
	})

	t.Run("dismissed widget is a canceled outcome with nothing verified", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{order: order}
		widget := &fakeWidget{err: billing.ErrUserCanceled}
		orchestrator := checkout.NewWidgetOrchestrator(backend, &fakeLoader{}, widget, &fakeRefresher{}, nil)

		outcome, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{Amount: 499, Currency: "INR"})

		require.NoError(t, err)
		assert.Equal(t, checkout.OutcomeCanceled, outcome.State)
		assert.Nil(t, outcome.Subscription)
		assert.Zero(t, backend.verifyCalls, "no verification for a dismissed widget")
	})

	t.Run("order creation failure is a failed outcome", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{orderErr: billing.ErrGatewayUnavailable}
		widget := &fakeWidget{callback: callback}
		orchestrator := checkout.NewWidgetOrchestrator(backend, &fakeLoader{}, widget, &fakeRefresher{}, nil)

		outcome, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{Amount: 499, Currency: "INR"})

		assert.ErrorIs(t, err, billing.ErrGatewayUnavailable)
		assert.Equal(t, checkout.OutcomeFailed, outcome.State)
		assert.Empty(t, widget.opens, "widget never opens without an order")
	})

	t.Run("rejected verification is a failed outcome without refresh", func(t *testing.T) {
		t.Parallel()

		backend := &fakeBackend{order: order, verifyErr: billing.ErrInvalidCallback}
		refresher := &fakeRefresher{}
		orchestrator := checkout.NewWidgetOrchestrator(backend, &fakeLoader{}, &fakeWidget{callback: callback}, refresher, nil)

		outcome, err := orchestrator.StartCheckout(context.Background(), checkout.StartRequest{Amount: 499, Currency: "INR"})

		assert.ErrorIs(t, err, billing.ErrInvalidCallback)
		assert.Equal(t, checkout.OutcomeFailed, outcome.State)
		assert.Zero(t, refresher.calls)
	})
}

func TestRegistry_For(t *testing.T) {
	t.Parallel()

	redirect := checkout.NewRedirectOrchestrator(&fakeBackend{}, &fakeNavigator{}, &fakeRefresher{}, nil)
	registry := checkout.Registry{billing.GatewayPaddle: redirect}

	orchestrator, err := registry.For(billing.GatewayPaddle)
	require.NoError(t, err)
	assert.Same(t, redirect, orchestrator)

	_, err = registry.For(billing.GatewayRazorpay)
	assert.ErrorIs(t, err, billing.ErrUnsupportedGateway)
}
