package schedules

import "errors"

var (
	// ErrScheduleNotFound возвращается, когда расписание не найдено
	ErrScheduleNotFound = errors.New("schedule not found")

	// ErrScheduleAlreadyExists возвращается, когда у барбера уже есть расписание на дату
	ErrScheduleAlreadyExists = errors.New("schedule already exists for this date")

	// ErrBarberNotFound возвращается, когда барбер не найден
	ErrBarberNotFound = errors.New("barber not found")

	// ErrSlotNotFound возвращается, когда слот не существует в рабочем дне
	ErrSlotNotFound = errors.New("slot not found")

	// ErrSlotBooked возвращается при попытке закрыть занятый слот
	ErrSlotBooked = errors.New("slot is booked")

	// ErrScheduleHasBookings возвращается при попытке удалить день с записями
	ErrScheduleHasBookings = errors.New("schedule has booked slots")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на расписание
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInvalidDate возвращается, когда дата в прошлом или слишком далеко
	ErrInvalidDate = errors.New("invalid schedule date")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
