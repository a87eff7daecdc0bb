package delete_schedule

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

type ScheduleService interface {
	Delete(ctx context.Context, actor *domain.User, id int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
