package billing

import "errors"

var (
	// ErrNotAuthenticated indicates no caller identity is available.
	ErrNotAuthenticated = errors.New("billing: caller is not authenticated")

	// ErrConfiguration indicates a gateway credential is absent server-side.
	ErrConfiguration = errors.New("billing: gateway configuration is missing or invalid")

	// ErrGatewayUnavailable indicates a network failure, timeout, or
	// non-success response from the external gateway.
	ErrGatewayUnavailable = errors.New("billing: payment gateway unavailable")

	// ErrInvalidCallback indicates the signed payment callback failed
	// signature verification and must not be trusted.
	ErrInvalidCallback = errors.New("billing: payment callback signature is invalid")

	// ErrPersistenceFailure indicates the subscription or access record
	// write did not apply. The payment may still have succeeded.
	ErrPersistenceFailure = errors.New("billing: failed to persist subscription state")

	// ErrUserCanceled indicates the user dismissed the payment widget
	// without paying.
	ErrUserCanceled = errors.New("billing: user canceled the payment")

	ErrPlanNotFound          = errors.New("billing: plan not found")
	ErrSubscriptionNotFound  = errors.New("billing: subscription not found")
	ErrFailedToLoadPlans     = errors.New("billing: failed to load plans")
	ErrInvalidVerifyRequest  = errors.New("billing: invalid verification request")
	ErrUnsupportedGateway    = errors.New("billing: unsupported gateway")
	ErrAccessRecordNotFound  = errors.New("billing: access record not found")
	ErrInvalidCheckoutAmount = errors.New("billing: invalid checkout amount")
)
