package checkout

import "errors"

var (
	// ErrCheckoutInProgress is returned when a flow is started while an
	// earlier start on the same orchestrator has not finished.
	ErrCheckoutInProgress = errors.New("checkout already in progress")

	// ErrScriptLoadFailed is returned when the payment widget script
	// cannot be loaded.
	ErrScriptLoadFailed = errors.New("failed to load payment widget script")

	// ErrNoRedirectURL is returned when the backend session carries no
	// URL to navigate to.
	ErrNoRedirectURL = errors.New("checkout session has no redirect URL")
)
