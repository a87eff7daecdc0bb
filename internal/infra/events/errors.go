package events

import "errors"

var (
	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("events.publisher: failed to connect")

	// ErrMarshal возвращается при ошибке сериализации события
	ErrMarshal = errors.New("events.publisher: failed to marshal event")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("events.publisher: failed to publish event")
)
