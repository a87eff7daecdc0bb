package booking_session

import (
	"context"
	"time"

	bookingSession "github.com/m04kA/SMC-BarberService/internal/usecase/booking_session"
)

type BookingSessionUseCase interface {
	Start(ctx context.Context, userID string) (*bookingSession.Response, error)
	Get(ctx context.Context, userID, sessionID string) (*bookingSession.Response, error)
	ChooseDate(ctx context.Context, userID, sessionID string, date time.Time) (*bookingSession.Response, error)
	ChooseBarber(ctx context.Context, userID, sessionID string, barberID int64) (*bookingSession.Response, error)
	ChooseServices(ctx context.Context, userID, sessionID string, serviceIDs []int64) (*bookingSession.Response, error)
	SelectSlots(ctx context.Context, userID, sessionID string, slotIDs []int64) (*bookingSession.Response, error)
	Submit(ctx context.Context, userID, sessionID string) (*bookingSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
