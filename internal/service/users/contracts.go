package users

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/integrations/identity"
)

// IdentityClient интерфейс клиента провайдера идентификации
type IdentityClient interface {
	GetUserInfoWithGracefulDegradation(ctx context.Context, accessToken string) (*identity.UserInfo, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
