package models

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// StartThreadRequest запрос на открытие переписки с пользователем
type StartThreadRequest struct {
	PeerID string `json:"peerId"`
}

// SendMessageRequest запрос на отправку сообщения
type SendMessageRequest struct {
	Text string `json:"text"`
}

// ListMessagesRequest страница сообщений
type ListMessagesRequest struct {
	ThreadID int64
	Before   *int64
	Limit    int
}

// MessageResponse ответ с сообщением
type MessageResponse struct {
	ID        int64     `json:"id"`
	ThreadID  int64     `json:"threadId"`
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// ThreadResponse ответ с тредом
type ThreadResponse struct {
	ID          int64            `json:"id"`
	PeerID      string           `json:"peerId"`
	LastMessage *MessageResponse `json:"lastMessage,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// ThreadListResponse ответ со списком тредов
type ThreadListResponse struct {
	Threads []ThreadResponse `json:"threads"`
}

// MessagePageResponse страница сообщений (новые первыми)
// NextBefore передается в before для получения следующей страницы
type MessagePageResponse struct {
	Messages   []MessageResponse `json:"messages"`
	NextBefore *int64            `json:"nextBefore,omitempty"`
}

// FromDomainMessage конвертирует domain модель в DTO
func FromDomainMessage(m *domain.Message) *MessageResponse {
	if m == nil {
		return nil
	}
	return &MessageResponse{
		ID:        m.ID,
		ThreadID:  m.ThreadID,
		SenderID:  m.SenderID,
		Text:      m.Text,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomainThread конвертирует тред с точки зрения пользователя viewerID
func FromDomainThread(t *domain.Thread, viewerID string) *ThreadResponse {
	return &ThreadResponse{
		ID:          t.ID,
		PeerID:      t.Peer(viewerID),
		LastMessage: FromDomainMessage(t.LastMessage),
		CreatedAt:   t.CreatedAt,
	}
}

// FromDomainThreadList конвертирует список тредов
func FromDomainThreadList(threads []*domain.Thread, viewerID string) *ThreadListResponse {
	resp := &ThreadListResponse{
		Threads: make([]ThreadResponse, 0, len(threads)),
	}
	for _, t := range threads {
		resp.Threads = append(resp.Threads, *FromDomainThread(t, viewerID))
	}
	return resp
}

// FromDomainMessagePage конвертирует страницу сообщений
func FromDomainMessagePage(messages []*domain.Message, limit int) *MessagePageResponse {
	resp := &MessagePageResponse{
		Messages: make([]MessageResponse, 0, len(messages)),
	}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, *FromDomainMessage(m))
	}

	// Полная страница - возможно, есть еще более старые сообщения
	if limit > 0 && len(messages) == limit {
		last := messages[len(messages)-1].ID
		resp.NextBefore = &last
	}
	return resp
}
