package appointments

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error
	UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error
}

// ScheduleRepository интерфейс репозитория расписаний
type ScheduleRepository interface {
	SetSlotsBooked(ctx context.Context, scheduleID int64, slotIDs []int64, booked bool) error
	AdjustAppointmentCount(ctx context.Context, scheduleID int64, delta int) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher интерфейс публикации событий записей
type EventPublisher interface {
	PublishAppointmentCancelled(ctx context.Context, appointment *domain.Appointment) error
}

// Metrics интерфейс доменных метрик
type Metrics interface {
	IncAppointmentsCancelled(status string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
