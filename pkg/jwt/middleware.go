package jwt

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Middleware verifies the Bearer token on every request and injects the
// resolved identity into the request context. Requests without a valid
// token are rejected with a 401 JSON error body before reaching the
// handler, matching the error shape the endpoints themselves emit.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := BearerTokenExtractor(r)
			if err != nil {
				unauthorized(w, err)
				return
			}

			var claims IdentityClaims
			if err := service.Parse(tokenString, &claims); err != nil {
				unauthorized(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetIdentity(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "authentication required",
		"details": err.Error(),
	})
}

// BearerTokenExtractor extracts tokens from "Authorization: Bearer <token>"
// headers, the transport defined by RFC 6750.
func BearerTokenExtractor(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrInvalidToken
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", ErrInvalidToken
	}

	return parts[1], nil
}
