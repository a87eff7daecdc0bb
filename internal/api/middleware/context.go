package middleware

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

type contextKey string

const (
	userKey        contextKey = "user"
	accessTokenKey contextKey = "access_token"
)

// WithUser кладет пользователя и его токен в context
func WithUser(ctx context.Context, user *domain.User, accessToken string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, accessTokenKey, accessToken)
}

// GetUser возвращает пользователя, установленного middleware Auth
func GetUser(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userKey).(*domain.User)
	return user, ok && user != nil
}

// GetUserID возвращает ID пользователя (subject токена)
func GetUserID(ctx context.Context) (string, bool) {
	user, ok := GetUser(ctx)
	if !ok || user.ID == "" {
		return "", false
	}
	return user.ID, true
}

// GetAccessToken возвращает исходный access токен (для запросов к identity provider)
func GetAccessToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(accessTokenKey).(string)
	return token, ok && token != ""
}
