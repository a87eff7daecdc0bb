package events

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// Ключи маршрутизации событий
const (
	RoutingKeyAppointmentCreated   = "appointment.created"
	RoutingKeyAppointmentCancelled = "appointment.cancelled"
)

// AppointmentEvent событие жизненного цикла записи
type AppointmentEvent struct {
	Type               string    `json:"type"`
	AppointmentID      int64     `json:"appointmentId"`
	UserID             string    `json:"userId"`
	BarberID           int64     `json:"barberId"`
	BarberName         string    `json:"barberName"`
	Date               string    `json:"date"`
	StartTime          string    `json:"startTime"`
	EndTime            string    `json:"endTime"`
	Status             string    `json:"status"`
	ServiceIDs         []int64   `json:"serviceIds"`
	SlotIDs            []int64   `json:"slotIds"`
	TotalPrice         float64   `json:"totalPrice"`
	CancellationReason *string   `json:"cancellationReason,omitempty"`
	OccurredAt         time.Time `json:"occurredAt"`
}

// NewAppointmentEvent собирает событие из записи
func NewAppointmentEvent(eventType string, appointment *domain.Appointment, occurredAt time.Time) AppointmentEvent {
	return AppointmentEvent{
		Type:               eventType,
		AppointmentID:      appointment.ID,
		UserID:             appointment.UserID,
		BarberID:           appointment.BarberID,
		BarberName:         appointment.BarberName,
		Date:               appointment.Date.Format(domain.DateFormat),
		StartTime:          appointment.StartTime,
		EndTime:            appointment.EndTime,
		Status:             string(appointment.Status),
		ServiceIDs:         appointment.ServiceIDs,
		SlotIDs:            appointment.SlotIDs,
		TotalPrice:         appointment.TotalPrice,
		CancellationReason: appointment.CancellationReason,
		OccurredAt:         occurredAt.UTC(),
	}
}
