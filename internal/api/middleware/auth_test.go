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

func adminToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func passthrough(called *bool, check func(r *http.Request)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		if check != nil {
			check(r)
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRequiresUserIDHeader(t *testing.T) {
	var called bool
	h := Auth(passthrough(&called, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthRejectsMalformedUserID(t *testing.T) {
	var called bool
	h := Auth(passthrough(&called, nil))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "abc")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthInjectsUserIDIntoContext(t *testing.T) {
	var called bool
	h := Auth(passthrough(&called, func(r *http.Request) {
		userID, ok := GetUserID(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int64(42), userID)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderUserID, "42")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAdminJWTAcceptsAdminRole(t *testing.T) {
	var called bool
	h := AdminJWT(testSecret)(passthrough(&called, func(r *http.Request) {
		assert.True(t, IsAdmin(r.Context()))
		userID, ok := GetUserID(r.Context())
		assert.True(t, ok)
		assert.Equal(t, int64(7), userID)
	}))

	token := adminToken(t, testSecret, jwt.MapClaims{
		"role": "admin",
		"sub":  "7",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAdminJWTRejectsNonAdminRole(t *testing.T) {
	var called bool
	h := AdminJWT(testSecret)(passthrough(&called, nil))

	token := adminToken(t, testSecret, jwt.MapClaims{
		"role": "student",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminJWTRejectsWrongSecret(t *testing.T) {
	var called bool
	h := AdminJWT(testSecret)(passthrough(&called, nil))

	token := adminToken(t, "other-secret", jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAdminJWTRejectsMissingToken(t *testing.T) {
	var called bool
	h := AdminJWT(testSecret)(passthrough(&called, nil))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestOptionalAdminDoesNotBlockWithoutToken(t *testing.T) {
	var called bool
	h := OptionalAdmin(testSecret)(passthrough(&called, func(r *http.Request) {
		assert.False(t, IsAdmin(r.Context()))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestOptionalAdminMarksAdminWithValidToken(t *testing.T) {
	var called bool
	h := OptionalAdmin(testSecret)(passthrough(&called, func(r *http.Request) {
		assert.True(t, IsAdmin(r.Context()))
	}))

	token := adminToken(t, testSecret, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
