package identity

import "errors"

var (
	// ErrUnauthorized возвращается, когда провайдер отклонил токен
	ErrUnauthorized = errors.New("identity client: token rejected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("identity client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от провайдера
	ErrInvalidResponse = errors.New("identity client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Профиль собирается только из claims токена
	ErrServiceDegraded = errors.New("identity provider unavailable: graceful degradation applied")
)
