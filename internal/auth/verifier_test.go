package auth

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

const (
	testIssuer   = "https://id.example.com/realms/barbershop"
	testAudience = "barber-service"
)

var testSecret = []byte("test-secret")

func signHS256(t *testing.T, claims *Claims, secret []byte) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims() *Claims {
	now := time.Now()
	return &Claims{
		Email:       "ivan@example.com",
		GivenName:   "Ivan",
		FamilyName:  "Petrov",
		RealmAccess: RealmAccess{Roles: []string{"barber", "offline_access"}},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Issuer:    testIssuer,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
}

func TestVerifier_HMAC(t *testing.T) {
	v := NewHMACVerifier(testSecret, testIssuer, testAudience, 0)

	claims, err := v.Verify(signHS256(t, validClaims(), testSecret))

	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, []domain.Role{domain.RoleBarber}, claims.Roles())

	user := claims.ToUser()
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ivan", user.FirstName)
	assert.True(t, user.IsStaff())
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewHMACVerifier(testSecret, testIssuer, testAudience, 0)

	t.Run("expired", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		_, err := v.Verify(signHS256(t, claims, testSecret))
		assert.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := v.Verify(signHS256(t, validClaims(), []byte("other")))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		claims := validClaims()
		claims.Issuer = "https://evil.example.com"

		_, err := v.Verify(signHS256(t, claims, testSecret))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := validClaims()
		claims.Audience = jwt.ClaimStrings{"other-service"}

		_, err := v.Verify(signHS256(t, claims, testSecret))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing expiration", func(t *testing.T) {
		claims := validClaims()
		claims.ExpiresAt = nil

		_, err := v.Verify(signHS256(t, claims, testSecret))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("empty subject", func(t *testing.T) {
		claims := validClaims()
		claims.Subject = ""

		_, err := v.Verify(signHS256(t, claims, testSecret))
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestVerifier_RSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})

	v, err := NewRSAVerifier(pubPEM, testIssuer, "", 0)
	require.NoError(t, err)

	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, validClaims()).SignedString(key)
	require.NoError(t, err)

	claims, err := v.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	// HS256 токен не принимается RSA верификатором
	_, err = v.Verify(signHS256(t, validClaims(), testSecret))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestClaims_DefaultRole(t *testing.T) {
	claims := &Claims{}
	assert.Equal(t, []domain.Role{domain.RoleCustomer}, claims.Roles())
}
