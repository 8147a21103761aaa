package jwt

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{ name string }

func (c contextKey) String() string { return c.name }

var identityContextKey = &contextKey{name: "jwt_identity"}

// SetIdentity stores verified identity claims in the context.
func SetIdentity(ctx context.Context, claims IdentityClaims) context.Context {
	return context.WithValue(ctx, identityContextKey, claims)
}

// IdentityFromContext returns the verified identity claims for the request.
// Returns ErrNoIdentity when the request was not authenticated.
func IdentityFromContext(ctx context.Context) (IdentityClaims, error) {
	claims, ok := ctx.Value(identityContextKey).(IdentityClaims)
	if !ok {
		return IdentityClaims{}, ErrNoIdentity
	}
	return claims, nil
}
