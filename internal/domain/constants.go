package domain

// Working day grid
const (
	SlotDurationMinutes = 30
	WorkdayStart        = "09:00"
	WorkdayEnd          = "18:00"
	SlotsPerDay         = 18 // (18:00 - 09:00) / 30 min
)

// Booking window
const (
	DefaultAdvanceBookingDays = 7
	MaxAdvanceBookingDays     = 60
)

// Business validation constants
const (
	MaxServicesPerAppointment   = 10
	MaxServiceNameLength        = 100
	MaxServiceDescriptionLength = 1000
	MaxServiceDurationMinutes   = 480 // 8 hours
	MaxNotesLength              = 500
	MaxCancellationReasonLength = 500
	MaxMessageLength            = 2000
	DefaultMessagesPageSize     = 20
	MaxMessagesPageSize         = 100
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses appointments in these statuses do not hold slots
var InactiveStatuses = []AppointmentStatus{
	StatusCancelledByUser,
	StatusCancelledByBarber,
	StatusNoShow,
}

// ActiveStatuses appointments in these statuses hold their slots
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}
