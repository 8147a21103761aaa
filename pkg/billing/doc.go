// Package billing reconciles paid subscriptions from two payment gateways
// into the durable access-control records feature gates consult.
//
// Two structurally different checkout protocols are supported behind gateway
// interfaces: a hosted redirect checkout (Paddle) where completion is
// confirmed by querying the gateway with a server-issued subscription ID,
// and an order-plus-signed-callback model (Razorpay) where a client widget
// returns payment identifiers and an HMAC signature that must be verified
// before anything else is trusted.
//
// Service is the trust boundary. Its Verify method authenticates the caller,
// proves the payment with the issuing gateway, upserts the SubscriptionRecord
// keyed by (user, checkout), and writes the entitlement.AccessRecord as its
// final step. Verification is re-derivable from gateway-held state, so a
// client torn down between checkout and verification can always resume.
package billing
