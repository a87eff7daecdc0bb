package list_barbers

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/service/barbers/models"
)

type BarberService interface {
	List(ctx context.Context, date *time.Time) (*models.BarberListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
