package slotmatcher

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSlotsSelected возвращается, когда не выбрано ни одного слота
	ErrNoSlotsSelected = errors.New("slotmatcher: no slots selected")

	// ErrWrongSlotCount возвращается, когда количество выбранных слотов не равно требуемому
	ErrWrongSlotCount = errors.New("slotmatcher: wrong slot count")

	// ErrNotConsecutive возвращается, когда выбранные слоты не идут подряд
	ErrNotConsecutive = errors.New("slotmatcher: slots are not consecutive")

	// ErrUnknownSlot возвращается, когда выбранный слот отсутствует в расписании
	ErrUnknownSlot = errors.New("slotmatcher: unknown slot")
)

// WrongSlotCountError детали ошибки ErrWrongSlotCount
type WrongSlotCountError struct {
	Selected int
	Required int
}

func (e *WrongSlotCountError) Error() string {
	return fmt.Sprintf("%v: selected %d, required %d", ErrWrongSlotCount, e.Selected, e.Required)
}

func (e *WrongSlotCountError) Unwrap() error {
	return ErrWrongSlotCount
}

// TooFew выбрано меньше слотов, чем требуется
func (e *WrongSlotCountError) TooFew() bool {
	return e.Selected < e.Required
}

// TooMany выбрано больше слотов, чем требуется
func (e *WrongSlotCountError) TooMany() bool {
	return e.Selected > e.Required
}

// Reason короткое имя причины отказа (для метрик и логов)
func Reason(err error) string {
	var countErr *WrongSlotCountError
	switch {
	case errors.Is(err, ErrNoSlotsSelected):
		return "no_slots_selected"
	case errors.As(err, &countErr) && countErr.TooFew():
		return "too_few_slots"
	case errors.As(err, &countErr) && countErr.TooMany():
		return "too_many_slots"
	case errors.Is(err, ErrNotConsecutive):
		return "not_consecutive"
	case errors.Is(err, ErrUnknownSlot):
		return "unknown_slot"
	default:
		return "other"
	}
}
