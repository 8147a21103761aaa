// Package jwt signs and verifies HS256 bearer tokens carrying the caller
// identity consumed by the billing endpoints.
//
// A Service wraps HMAC-SHA256 signing and verification of any
// JSON-serialisable claims structure; IdentityClaims is the claims shape the
// rest of the application relies on. Middleware extracts a Bearer token from
// the Authorization header, verifies it, and stores the resolved identity in
// the request context for handlers to read via IdentityFromContext.
package jwt
