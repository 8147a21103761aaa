// Package billing exposes the checkout and verification endpoints over
// JSON. All routes require an authenticated caller; identity arrives via
// the bearer-token middleware.
package billing

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type Mountable interface {
	Handle() http.Handler
}

// RouterOptions configures which services to mount in the billing module.
type RouterOptions struct {
	Checkout Mountable
}

// Router creates the billing module router.
//
// Example:
//
//	svc := billing.NewService(verifier, logger)
//
//	r := chi.NewRouter()
//	r.Mount("/billing", billing.Router(billing.RouterOptions{
//	    Checkout: svc,
//	}))
func Router(opts RouterOptions) chi.Router {
	r := chi.NewRouter()

	if opts.Checkout != nil {
		r.Mount("/", opts.Checkout.Handle())
	}

	return r
}
