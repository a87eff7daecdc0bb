package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/auth"
	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

var testSecret = []byte("middleware-secret")

func issueToken(t *testing.T, subject string, roles []string, ttl time.Duration) string {
	t.Helper()

	claims := &auth.Claims{
		GivenName:   "Anna",
		RealmAccess: auth.RealmAccess{Roles: roles},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := GetUserID(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		if _, ok := GetAccessToken(r.Context()); !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(userID))
	})
}

func TestAuth(t *testing.T) {
	verifier := auth.NewHMACVerifier(testSecret, "", "", 0)
	handler := Auth(verifier, logger.NewNop())(echoUser())

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, "user-42", nil, time.Hour))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-42", rec.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgMissingToken)
	})

	t.Run("expired token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+issueToken(t, "user-42", nil, -time.Minute))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), msgTokenExpired)
	})

	t.Run("basic scheme rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	verifier := auth.NewHMACVerifier(testSecret, "", "", 0)
	handler := Auth(verifier, logger.NewNop())(RequireRole(domain.RoleBarber, domain.RoleAdmin)(echoUser()))

	customer := httptest.NewRequest(http.MethodPost, "/api/v1/schedules", nil)
	customer.Header.Set("Authorization", "Bearer "+issueToken(t, "c-1", []string{"customer"}, time.Hour))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, customer)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	barber := httptest.NewRequest(http.MethodPost, "/api/v1/schedules", nil)
	barber.Header.Set("Authorization", "Bearer "+issueToken(t, "b-1", []string{"barber"}, time.Hour))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, barber)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/services", nil)
		req.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// другой клиент не затронут
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))

	// через секунду появляется один токен
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))

	// неактивные клиенты удаляются
	now = now.Add(visitorTTL + time.Second)
	limiter.evict()
	assert.Empty(t, limiter.visitors)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:5555"
	assert.Equal(t, "192.168.1.5", clientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(req))
}
