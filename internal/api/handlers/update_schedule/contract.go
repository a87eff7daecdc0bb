package update_schedule

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules/models"
)

type ScheduleService interface {
	UpdateAvailability(ctx context.Context, actor *domain.User, id int64, req *models.UpdateAvailabilityRequest) (*models.ScheduleResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
