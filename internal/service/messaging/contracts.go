package messaging

import (
	"context"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// MessagingRepository интерфейс репозитория переписки
type MessagingRepository interface {
	GetOrCreateThread(ctx context.Context, userA, userB string) (*domain.Thread, error)
	GetThread(ctx context.Context, id int64) (*domain.Thread, error)
	ListThreads(ctx context.Context, userID string) ([]*domain.Thread, error)
	CreateMessage(ctx context.Context, message *domain.Message) (*domain.Message, error)
	ListMessages(ctx context.Context, page domain.MessagesPage) ([]*domain.Message, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
