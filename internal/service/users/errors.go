package users

import "errors"

var (
	// ErrUnauthorized возвращается, когда провайдер отклонил токен
	ErrUnauthorized = errors.New("users: unauthorized")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("users: internal error")
)
