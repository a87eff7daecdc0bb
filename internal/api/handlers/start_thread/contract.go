package start_thread

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
)

type MessagingService interface {
	StartThread(ctx context.Context, actor *domain.User, req *models.StartThreadRequest) (*models.ThreadResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
