package domain

import "time"

// AppointmentStatus represents the status of an appointment
type AppointmentStatus string

const (
	StatusPending           AppointmentStatus = "pending"
	StatusConfirmed         AppointmentStatus = "confirmed"
	StatusCompleted         AppointmentStatus = "completed"
	StatusCancelledByUser   AppointmentStatus = "cancelled_by_user"
	StatusCancelledByBarber AppointmentStatus = "cancelled_by_barber"
	StatusNoShow            AppointmentStatus = "no_show"
)

// IsValid returns true if the status is a known one
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted,
		StatusCancelledByUser, StatusCancelledByBarber, StatusNoShow:
		return true
	}
	return false
}

// AppointmentService denormalized service data stored with the appointment
type AppointmentService struct {
	ServiceID       int64
	Name            string
	DurationMinutes int
	Price           float64
}

// Appointment represents a customer's booking of a contiguous run of slots
type Appointment struct {
	ID         int64
	UserID     string // identity provider subject
	BarberID   int64
	ScheduleID int64
	Date       time.Time
	ServiceIDs []int64 // ordered as selected
	SlotIDs    []int64 // ordered, consecutive
	Status     AppointmentStatus
	Notes      *string

	// Denormalized data for history
	BarberName      string
	Services        []AppointmentService
	StartTime       string
	EndTime         string
	DurationMinutes int
	TotalPrice      float64

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment holds its slots
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelledByUser &&
		a.Status != StatusCancelledByBarber &&
		a.Status != StatusNoShow
}

// CanBeCancelled returns true if the appointment can be cancelled
func (a *Appointment) CanBeCancelled() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// AppointmentsFilter filter for appointment listings
type AppointmentsFilter struct {
	UserID          *string
	BarberID        *int64
	Date            *time.Time
	Status          *AppointmentStatus
	IncludeInactive bool
}
