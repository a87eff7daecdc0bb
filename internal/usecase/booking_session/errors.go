package booking_session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("booking_session: session not found")

	// ErrAccessDenied возвращается, когда сессия принадлежит другому пользователю
	ErrAccessDenied = errors.New("booking_session: access denied")

	// ErrStaleSession возвращается, когда результат операции устарел: сессию уже изменил более новый запрос
	ErrStaleSession = errors.New("booking_session: stale result discarded")

	// ErrUpstreamFetchFailed возвращается, когда не удалось получить данные для шага; сессия не изменена
	ErrUpstreamFetchFailed = errors.New("booking_session: upstream fetch failed")

	// ErrInvalidTransition возвращается, когда шаг недоступен на текущей стадии
	ErrInvalidTransition = errors.New("booking_session: invalid transition")

	// ErrSessionClosed возвращается, когда запись по сессии уже создана
	ErrSessionClosed = errors.New("booking_session: session is closed")

	// ErrBarberNotAvailable возвращается, когда барбер не работает в выбранную дату
	ErrBarberNotAvailable = errors.New("booking_session: barber is not available on this date")

	// ErrServiceNotFound возвращается, когда одна из услуг не найдена
	ErrServiceNotFound = errors.New("booking_session: service not found")

	// ErrInvalidDate возвращается, когда дата в прошлом
	ErrInvalidDate = errors.New("booking_session: invalid date")

	// ErrDateTooFarInFuture возвращается, когда дата превышает ограничение advanceBookingDays
	ErrDateTooFarInFuture = errors.New("booking_session: date is too far in the future")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("booking_session: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("booking_session: internal error")
)
