package booking_session

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	"github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
)

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

// validateServiceIDs проверяет выбор услуг и убирает повторы
func validateServiceIDs(ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}

	if len(result) > domain.MaxServicesPerAppointment {
		return nil, fmt.Errorf("%w: at most %d services allowed", ErrInvalidInput, domain.MaxServicesPerAppointment)
	}

	return result, nil
}

// transitionError переводит ошибки переходов домена в ошибки use case
func transitionError(err error) error {
	switch {
	case errors.Is(err, domain.ErrSessionClosed):
		return ErrSessionClosed
	case errors.Is(err, domain.ErrInvalidTransition):
		return ErrInvalidTransition
	default:
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
}

// submitFailureReason короткая причина неудачной отправки для состояния сессии
func submitFailureReason(err error) string {
	switch {
	case errors.Is(err, slotmatcher.ErrNoSlotsSelected),
		errors.Is(err, slotmatcher.ErrWrongSlotCount),
		errors.Is(err, slotmatcher.ErrNotConsecutive),
		errors.Is(err, slotmatcher.ErrUnknownSlot):
		return slotmatcher.Reason(err)
	case errors.Is(err, create_appointment.ErrSlotNotAvailable):
		return "slot_not_available"
	case errors.Is(err, create_appointment.ErrScheduleNotFound):
		return "schedule_not_found"
	case errors.Is(err, create_appointment.ErrInvalidDate), errors.Is(err, create_appointment.ErrDateTooFarInFuture):
		return "invalid_date"
	default:
		return "internal_error"
	}
}

func derefBarbers(barbers []*domain.Barber) []domain.Barber {
	result := make([]domain.Barber, len(barbers))
	for i, b := range barbers {
		result[i] = *b
	}
	return result
}

func derefServices(services []*domain.Service) []domain.Service {
	result := make([]domain.Service, len(services))
	for i, s := range services {
		result[i] = *s
	}
	return result
}
