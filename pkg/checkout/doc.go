// Package checkout drives the two client-side purchase flows against the
// billing API.
//
// The redirect flow asks the backend for a hosted checkout session and hands
// the browser off to the gateway's payment page. The widget flow loads the
// gateway's script once, opens an in-page payment widget with server-issued
// order details, and forwards the widget's callback to the backend for
// verification. Neither flow trusts anything the widget reports; only the
// backend's verification response flips premium state, after which the
// user context is refreshed.
package checkout
