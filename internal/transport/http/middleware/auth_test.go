package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, uid, role, issuer string, exp time.Time) string {
	t.Helper()
	claims := Claims{
		UserID: uid,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func authedHandler(a *AuthMiddleware) (http.Handler, *string, *string) {
	var gotUID, gotRole string
	h := a.Require(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUID = UserID(r)
		gotRole = Role(r)
		w.WriteHeader(http.StatusOK)
	}))
	return h, &gotUID, &gotRole
}

func TestAuthMiddleware_Require(t *testing.T) {
	a := NewAuth(testSecret, "suppertable")

	t.Run("valid_token_passes_claims", func(t *testing.T) {
		h, uid, role := authedHandler(a)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1", "host", "suppertable", time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user_1", *uid)
		assert.Equal(t, "host", *role)
	})

	t.Run("missing_header_401", func(t *testing.T) {
		h, _, _ := authedHandler(a)
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired_token_401", func(t *testing.T) {
		h, _, _ := authedHandler(a)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1", "host", "suppertable", time.Now().Add(-2*time.Hour)))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong_issuer_401", func(t *testing.T) {
		h, _, _ := authedHandler(a)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1", "host", "someone-else", time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("empty_role_defaults_to_user", func(t *testing.T) {
		h, _, role := authedHandler(a)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, "user_1", "", "suppertable", time.Now().Add(time.Hour)))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user", *role)
	})
}
