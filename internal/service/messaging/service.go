package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	messagingRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/messaging"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
)

// Service сервис переписки между клиентами и барберами
type Service struct {
	repo   MessagingRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса переписки
func NewService(repo MessagingRepository, logger Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListThreads получает треды пользователя
func (s *Service) ListThreads(ctx context.Context, actor *domain.User) (*models.ThreadListResponse, error) {
	threads, err := s.repo.ListThreads(ctx, actor.ID)
	if err != nil {
		s.logger.Error("ListThreads: repository error for user=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: ListThreads - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListThreads: fetched %d threads for user=%s", len(threads), actor.ID)
	return models.FromDomainThreadList(threads, actor.ID), nil
}

// StartThread открывает тред с пользователем (или возвращает существующий)
func (s *Service) StartThread(ctx context.Context, actor *domain.User, req *models.StartThreadRequest) (*models.ThreadResponse, error) {
	peerID := strings.TrimSpace(req.PeerID)
	if peerID == "" {
		return nil, fmt.Errorf("%w: peerId is required", ErrInvalidInput)
	}
	if peerID == actor.ID {
		return nil, fmt.Errorf("%w: cannot start a thread with yourself", ErrInvalidInput)
	}

	thread, err := s.repo.GetOrCreateThread(ctx, actor.ID, peerID)
	if err != nil {
		s.logger.Error("StartThread: repository error for user=%s, peer=%s: %v", actor.ID, peerID, err)
		return nil, fmt.Errorf("%w: StartThread - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("StartThread: thread id=%d for user=%s, peer=%s", thread.ID, actor.ID, peerID)
	return models.FromDomainThread(thread, actor.ID), nil
}

// ListMessages получает страницу сообщений треда
func (s *Service) ListMessages(ctx context.Context, actor *domain.User, req *models.ListMessagesRequest) (*models.MessagePageResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = domain.DefaultMessagesPageSize
	}
	if limit > domain.MaxMessagesPageSize {
		limit = domain.MaxMessagesPageSize
	}

	if _, err := s.loadThread(ctx, actor, req.ThreadID, "ListMessages"); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, domain.MessagesPage{
		ThreadID: req.ThreadID,
		Before:   req.Before,
		Limit:    limit,
	})
	if err != nil {
		s.logger.Error("ListMessages: repository error for thread id=%d: %v", req.ThreadID, err)
		return nil, fmt.Errorf("%w: ListMessages - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainMessagePage(messages, limit), nil
}

// SendMessage отправляет сообщение в тред
func (s *Service) SendMessage(ctx context.Context, actor *domain.User, threadID int64, req *models.SendMessageRequest) (*models.MessageResponse, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > domain.MaxMessageLength {
		return nil, fmt.Errorf("%w: text exceeds %d characters", ErrInvalidInput, domain.MaxMessageLength)
	}

	if _, err := s.loadThread(ctx, actor, threadID, "SendMessage"); err != nil {
		return nil, err
	}

	message, err := s.repo.CreateMessage(ctx, &domain.Message{
		ThreadID: threadID,
		SenderID: actor.ID,
		Text:     text,
	})
	if err != nil {
		if errors.Is(err, messagingRepo.ErrThreadNotFound) {
			return nil, ErrThreadNotFound
		}
		s.logger.Error("SendMessage: repository error for thread id=%d: %v", threadID, err)
		return nil, fmt.Errorf("%w: SendMessage - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("SendMessage: message id=%d sent to thread id=%d by user=%s", message.ID, threadID, actor.ID)
	return models.FromDomainMessage(message), nil
}

// loadThread получает тред и проверяет участие пользователя
func (s *Service) loadThread(ctx context.Context, actor *domain.User, threadID int64, op string) (*domain.Thread, error) {
	thread, err := s.repo.GetThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, messagingRepo.ErrThreadNotFound) {
			s.logger.Warn("%s: thread id=%d not found", op, threadID)
			return nil, ErrThreadNotFound
		}
		s.logger.Error("%s: repository error for thread id=%d: %v", op, threadID, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}

	if !thread.HasParticipant(actor.ID) {
		s.logger.Warn("%s: user=%s is not a participant of thread id=%d", op, actor.ID, threadID)
		return nil, ErrAccessDenied
	}

	return thread, nil
}
