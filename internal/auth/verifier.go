// Package auth проверяет access токены, выпущенные identity provider
package auth

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-BarberService/internal/config"
)

var (
	// ErrInvalidToken токен не прошел проверку подписи или claims
	ErrInvalidToken = errors.New("auth: invalid token")

	// ErrTokenExpired срок действия токена истек
	ErrTokenExpired = errors.New("auth: token expired")
)

// Verifier проверяет подпись и claims токена
type Verifier struct {
	parser  *jwt.Parser
	keyFunc jwt.Keyfunc
}

// NewHMACVerifier создает верификатор для токенов, подписанных общим секретом (HS256)
func NewHMACVerifier(secret []byte, issuer, audience string, leeway time.Duration) *Verifier {
	return &Verifier{
		parser: newParser([]string{jwt.SigningMethodHS256.Alg()}, issuer, audience, leeway),
		keyFunc: func(*jwt.Token) (interface{}, error) {
			return secret, nil
		},
	}
}

// NewRSAVerifier создает верификатор для токенов, подписанных RSA (RS256)
func NewRSAVerifier(publicKeyPEM []byte, issuer, audience string, leeway time.Duration) (*Verifier, error) {
	key, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RSA public key: %w", err)
	}

	return &Verifier{
		parser: newParser([]string{jwt.SigningMethodRS256.Alg()}, issuer, audience, leeway),
		keyFunc: func(*jwt.Token) (interface{}, error) {
			return key, nil
		},
	}, nil
}

// NewVerifierFromConfig создает верификатор по настройкам: публичный ключ имеет приоритет над секретом
func NewVerifierFromConfig(cfg config.AuthConfig) (*Verifier, error) {
	leeway := time.Duration(cfg.LeewaySeconds) * time.Second

	if cfg.PublicKeyFile != "" {
		pem, err := os.ReadFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read public key file: %w", err)
		}
		return NewRSAVerifier(pem, cfg.Issuer, cfg.Audience, leeway)
	}

	return NewHMACVerifier([]byte(cfg.JWTSecret), cfg.Issuer, cfg.Audience, leeway), nil
}

// Verify проверяет токен и возвращает его claims
func (v *Verifier) Verify(raw string) (*Claims, error) {
	claims := &Claims{}

	token, err := v.parser.ParseWithClaims(raw, claims, v.keyFunc)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: subject is empty", ErrInvalidToken)
	}

	return claims, nil
}

func newParser(methods []string, issuer, audience string, leeway time.Duration) *jwt.Parser {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(leeway),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return jwt.NewParser(opts...)
}
