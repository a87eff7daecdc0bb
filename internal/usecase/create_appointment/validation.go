package create_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
)

// validateRequest валидирует входные данные запроса
// Выбор слотов проверяется позже, по расписанию
func validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if req.BarberID <= 0 {
		return fmt.Errorf("%w: barberID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if len(req.ServiceIDs) > domain.MaxServicesPerAppointment {
		return fmt.Errorf("%w: at most %d services allowed", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	seen := make(map[int64]struct{}, len(req.ServiceIDs))
	for _, id := range req.ServiceIDs {
		if id <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: service id=%d selected twice", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
	}

	if req.Notes != nil && len(*req.Notes) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// validateDate проверяет, что дата попадает в окно записи
func validateDate(date, now time.Time, advanceBookingDays int) error {
	today := domain.DateIn(now.In(date.Location()), date.Location())

	if date.Before(today) {
		return ErrInvalidDate
	}

	// advanceBookingDays = 0 - без ограничения
	if advanceBookingDays == 0 {
		return nil
	}

	if date.After(today.AddDate(0, 0, advanceBookingDays)) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, advanceBookingDays)
	}

	return nil
}

// validateEligible проверяет, что каждый слот серии можно занять на момент now
func validateEligible(run slotmatcher.ValidatedRun, date, now time.Time) error {
	for _, slot := range run.Slots {
		if !slot.IsOpen() || !slot.IsInFuture(date, now) {
			return fmt.Errorf("%w: slot id=%d (%s)", ErrSlotNotAvailable, slot.ID, slot.StartTime)
		}
	}
	return nil
}
