package jwt_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AMR-Works/toolshub/pkg/jwt"
)

func TestService_GenerateParse(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("test-signing-key-at-least-32-bytes!!")
	require.NoError(t, err)

	t.Run("round trips identity claims", func(t *testing.T) {
		t.Parallel()

		claims := jwt.IdentityClaims{
			Subject:   "7f1f9db6-9b4c-4f54-9c3a-1f2e3d4c5b6a",
			Email:     "u@example.com",
			ExpiresAt: time.Now().Add(time.Hour).Unix(),
			IssuedAt:  time.Now().Unix(),
		}

		token, err := service.Generate(claims)
		require.NoError(t, err)

		var parsed jwt.IdentityClaims
		require.NoError(t, service.Parse(token, &parsed))
		assert.Equal(t, claims.Subject, parsed.Subject)
		assert.Equal(t, claims.Email, parsed.Email)
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		t.Parallel()

		token, err := service.Generate(jwt.IdentityClaims{Subject: "user-1"})
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		parts[1] = parts[1][:len(parts[1])-2] + "xx"

		var parsed jwt.IdentityClaims
		err = service.Parse(strings.Join(parts, "."), &parsed)
		assert.ErrorIs(t, err, jwt.ErrInvalidSignature)
	})

	t.Run("rejects a token signed with a different key", func(t *testing.T) {
		t.Parallel()

		other, err := jwt.NewFromString("another-signing-key-also-32-bytes!!!")
		require.NoError(t, err)

		token, err := other.Generate(jwt.IdentityClaims{Subject: "user-1"})
		require.NoError(t, err)

		var parsed jwt.IdentityClaims
		assert.ErrorIs(t, service.Parse(token, &parsed), jwt.ErrInvalidSignature)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		t.Parallel()

		token, err := service.Generate(jwt.IdentityClaims{
			Subject:   "user-1",
			ExpiresAt: time.Now().Add(-time.Minute).Unix(),
		})
		require.NoError(t, err)

		var parsed jwt.IdentityClaims
		assert.ErrorIs(t, service.Parse(token, &parsed), jwt.ErrExpiredToken)
	})

	t.Run("rejects malformed tokens", func(t *testing.T) {
		t.Parallel()

		var parsed jwt.IdentityClaims
		assert.ErrorIs(t, service.Parse("not-a-token", &parsed), jwt.ErrInvalidToken)
	})

	t.Run("requires a signing key", func(t *testing.T) {
		t.Parallel()

		_, err := jwt.NewFromString("")
		assert.ErrorIs(t, err, jwt.ErrMissingSigningKey)
	})
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	service, err := jwt.NewFromString("test-signing-key-at-least-32-bytes!!")
	require.NoError(t, err)

	handler := jwt.Middleware(service)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, err := jwt.IdentityFromContext(r.Context())
		require.NoError(t, err)
		_, _ = w.Write([]byte(identity.Subject))
	}))

	t.Run("injects the identity for a valid bearer token", func(t *testing.T) {
		t.Parallel()

		token, err := service.Generate(jwt.IdentityClaims{Subject: "user-1"})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", rec.Body.String())
	})

	t.Run("rejects a missing authorization header with a JSON error body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "authentication required", body["error"])
	})

	t.Run("rejects a forged token with a JSON error body", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer a.b.c")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		var body map[string]string
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "authentication required", body["error"])
		assert.NotEmpty(t, body["details"])
	})
}

func TestIdentityFromContext(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := jwt.IdentityFromContext(req.Context())
	assert.ErrorIs(t, err, jwt.ErrNoIdentity)
}
