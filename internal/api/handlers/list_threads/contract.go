package list_threads

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
)

type MessagingService interface {
	ListThreads(ctx context.Context, actor *domain.User) (*models.ThreadListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
