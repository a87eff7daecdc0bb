package messaging

import "errors"

var (
	// ErrThreadNotFound возвращается, когда тред не найден
	ErrThreadNotFound = errors.New("thread not found")

	// ErrAccessDenied возвращается, когда пользователь не участник треда
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
