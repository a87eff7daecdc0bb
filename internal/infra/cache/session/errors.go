package session

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена или истекла
	ErrSessionNotFound = errors.New("session.store: session not found")

	// ErrSessionAlreadyExists возвращается при повторном создании сессии с тем же ID
	ErrSessionAlreadyExists = errors.New("session.store: session already exists")

	// ErrStaleGeneration возвращается, когда после начала операции сессию уже изменил более новый запрос
	ErrStaleGeneration = errors.New("session.store: stale generation")

	// ErrMarshal возвращается при ошибке сериализации сессии
	ErrMarshal = errors.New("session.store: failed to marshal session")

	// ErrUnmarshal возвращается при ошибке десериализации сессии
	ErrUnmarshal = errors.New("session.store: failed to unmarshal session")

	// ErrRedis возвращается при ошибке обращения к Redis
	ErrRedis = errors.New("session.store: redis error")
)
