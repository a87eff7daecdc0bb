package booking_session

import "github.com/m04kA/SMC-BarberService/internal/domain"

// Response модель ответа с текущим состоянием сессии
type Response struct {
	Session *domain.BookingSession
}
