package get_barber

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/service/barbers/models"
)

type BarberService interface {
	GetByID(ctx context.Context, id int64) (*models.BarberResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
