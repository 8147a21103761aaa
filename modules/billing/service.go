package billing

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	core "github.com/AMR-Works/toolshub/pkg/billing"
	"github.com/AMR-Works/toolshub/pkg/httpserver"
	"github.com/AMR-Works/toolshub/pkg/jwt"
)

// Verifier is the subscription service the endpoints delegate to.
type Verifier interface {
	StartHostedCheckout(ctx context.Context, userID uuid.UUID, email, priceID, successURL, cancelURL string) (*core.CheckoutSession, error)
	CreateOrder(ctx context.Context, userID uuid.UUID, amount int64, currency string) (*core.Order, error)
	OrderKeyID() string
	Verify(ctx context.Context, userID uuid.UUID, req core.VerifyRequest) (*core.VerifyResult, error)
}

type Service struct {
	verifier Verifier
	log      *slog.Logger
}

func NewService(verifier Verifier, log *slog.Logger) *Service {
	if verifier == nil {
		panic("billing: verifier is required")
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{verifier: verifier, log: log}
}

func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Post("/checkout", s.createCheckout)
	r.Post("/checkout/verify", s.verifyCheckout)
	r.Post("/order", s.createOrder)
	r.Post("/order/verify", s.verifyOrder)

	return r
}

type createCheckoutRequest struct {
	PriceID    string `json:"priceId"`
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
}

type createCheckoutResponse struct {
	CheckoutURL string `json:"checkoutUrl"`
	CheckoutID  string `json:"checkoutId"`
}

func (s *Service) createCheckout(w http.ResponseWriter, r *http.Request) {
	identity, userID, err := callerIdentity(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	var req createCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.log, err)
		return
	}
	if req.PriceID == "" {
		respondValidationError(w, "priceId is required")
		return
	}

	session, err := s.verifier.StartHostedCheckout(r.Context(), userID, identity.Email, req.PriceID, req.SuccessURL, req.CancelURL)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	httpserver.JSON(w, http.StatusOK, createCheckoutResponse{
		CheckoutURL: session.URL,
		CheckoutID:  session.CheckoutID,
	})
}

type verifyCheckoutRequest struct {
	SubscriptionID string `json:"subscriptionId"`
	CheckoutID     string `json:"checkoutId,omitempty"`
}

type verifyResponse struct {
	Success          bool   `json:"success"`
	Subscription     string `json:"subscription"`
	PremiumExpiresAt string `json:"premium_expires_at,omitempty"`
}

func (s *Service) verifyCheckout(w http.ResponseWriter, r *http.Request) {
	_, userID, err := callerIdentity(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	var req verifyCheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.log, err)
		return
	}
	if req.SubscriptionID == "" {
		respondValidationError(w, "subscriptionId is required")
		return
	}

	result, err := s.verifier.Verify(r.Context(), userID, core.VerifyRequest{
		Gateway:        core.GatewayPaddle,
		SubscriptionID: req.SubscriptionID,
		CheckoutID:     req.CheckoutID,
	})
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	httpserver.JSON(w, http.StatusOK, newVerifyResponse(result))
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

type createOrderResponse struct {
	KeyID    string `json:"keyId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	OrderID  string `json:"orderId"`
}

func (s *Service) createOrder(w http.ResponseWriter, r *http.Request) {
	_, userID, err := callerIdentity(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.log, err)
		return
	}

	order, err := s.verifier.CreateOrder(r.Context(), userID, req.Amount, req.Currency)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	httpserver.JSON(w, http.StatusOK, createOrderResponse{
		KeyID:    s.verifier.OrderKeyID(),
		Amount:   order.Amount,
		Currency: order.Currency,
		OrderID:  order.ID,
	})
}

func (s *Service) verifyOrder(w http.ResponseWriter, r *http.Request) {
	_, userID, err := callerIdentity(r)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	var callback core.PaymentCallback
	if err := decodeJSON(r, &callback); err != nil {
		respondError(w, s.log, err)
		return
	}
	if callback.OrderID == "" || callback.PaymentID == "" || callback.Signature == "" {
		respondValidationError(w, "orderId, paymentId, and signature are required")
		return
	}

	result, err := s.verifier.Verify(r.Context(), userID, core.VerifyRequest{
		Gateway:  core.GatewayRazorpay,
		Callback: &callback,
	})
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	httpserver.JSON(w, http.StatusOK, newVerifyResponse(result))
}

func newVerifyResponse(result *core.VerifyResult) verifyResponse {
	resp := verifyResponse{
		Success:      true,
		Subscription: string(result.Status),
	}
	if !result.ExpiresAt.IsZero() {
		resp.PremiumExpiresAt = result.ExpiresAt.Format(time.RFC3339)
	}
	return resp
}

// callerIdentity resolves the authenticated user from the request context.
func callerIdentity(r *http.Request) (jwt.IdentityClaims, uuid.UUID, error) {
	identity, err := jwt.IdentityFromContext(r.Context())
	if err != nil {
		return jwt.IdentityClaims{}, uuid.Nil, core.ErrNotAuthenticated
	}
	userID, err := uuid.Parse(identity.Subject)
	if err != nil {
		return jwt.IdentityClaims{}, uuid.Nil, core.ErrNotAuthenticated
	}
	return identity, userID, nil
}
