package booking_session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
)

// SessionStore интерфейс хранилища сессий
type SessionStore interface {
	Create(ctx context.Context, session *domain.BookingSession) error
	Get(ctx context.Context, id string) (*domain.BookingSession, error)
	NextGeneration(ctx context.Context, id string) (int64, error)
	SaveIfCurrent(ctx context.Context, session *domain.BookingSession) error
}

// BarberLister интерфейс получения барберов, работающих в дату
type BarberLister interface {
	ListByDate(ctx context.Context, date time.Time) ([]*domain.Barber, error)
}

// ServiceCatalog интерфейс каталога услуг
type ServiceCatalog interface {
	GetByIDs(ctx context.Context, ids []int64) ([]*domain.Service, error)
}

// ScheduleSource интерфейс получения рабочего дня барбера
type ScheduleSource interface {
	GetByBarberAndDate(ctx context.Context, barberID int64, date time.Time) (*domain.Schedule, error)
}

// AppointmentCreator интерфейс создания записи
type AppointmentCreator interface {
	Execute(ctx context.Context, req *create_appointment.Request) (*create_appointment.Response, error)
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncStaleSessionResult()
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
