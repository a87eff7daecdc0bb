package messaging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	messagingRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/messaging"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

type fakeRepo struct {
	threads  map[int64]*domain.Thread
	messages []*domain.Message
	lastPage domain.MessagesPage
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{threads: map[int64]*domain.Thread{}}
}

func (r *fakeRepo) GetOrCreateThread(_ context.Context, userA, userB string) (*domain.Thread, error) {
	a, b := domain.OrderedPair(userA, userB)
	for _, t := range r.threads {
		if t.UserA == a && t.UserB == b {
			return t, nil
		}
	}
	t := &domain.Thread{ID: int64(len(r.threads) + 1), UserA: a, UserB: b}
	r.threads[t.ID] = t
	return t, nil
}

func (r *fakeRepo) GetThread(_ context.Context, id int64) (*domain.Thread, error) {
	t, ok := r.threads[id]
	if !ok {
		return nil, messagingRepo.ErrThreadNotFound
	}
	return t, nil
}

func (r *fakeRepo) ListThreads(_ context.Context, userID string) ([]*domain.Thread, error) {
	result := make([]*domain.Thread, 0)
	for _, t := range r.threads {
		if t.HasParticipant(userID) {
			result = append(result, t)
		}
	}
	return result, nil
}

func (r *fakeRepo) CreateMessage(_ context.Context, m *domain.Message) (*domain.Message, error) {
	m.ID = int64(len(r.messages) + 1)
	r.messages = append(r.messages, m)
	return m, nil
}

func (r *fakeRepo) ListMessages(_ context.Context, page domain.MessagesPage) ([]*domain.Message, error) {
	r.lastPage = page
	result := make([]*domain.Message, 0)
	for i := len(r.messages) - 1; i >= 0 && len(result) < page.Limit; i-- {
		m := r.messages[i]
		if m.ThreadID != page.ThreadID || (page.Before != nil && m.ID >= *page.Before) {
			continue
		}
		result = append(result, m)
	}
	return result, nil
}

var (
	anna = &domain.User{ID: "anna"}
	oleg = &domain.User{ID: "oleg"}
	eve  = &domain.User{ID: "eve"}
)

func TestService_StartThread_SamePairSameThread(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())
	ctx := context.Background()

	first, err := svc.StartThread(ctx, oleg, &models.StartThreadRequest{PeerID: "anna"})
	require.NoError(t, err)
	assert.Equal(t, "anna", first.PeerID)

	second, err := svc.StartThread(ctx, anna, &models.StartThreadRequest{PeerID: "oleg"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "oleg", second.PeerID)

	_, err = svc.StartThread(ctx, anna, &models.StartThreadRequest{PeerID: "anna"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestService_SendAndPage(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())
	ctx := context.Background()

	thread, err := svc.StartThread(ctx, anna, &models.StartThreadRequest{PeerID: "oleg"})
	require.NoError(t, err)

	for _, text := range []string{"hi", "hello", "see you at 10"} {
		_, err := svc.SendMessage(ctx, anna, thread.ID, &models.SendMessageRequest{Text: text})
		require.NoError(t, err)
	}

	page, err := svc.ListMessages(ctx, oleg, &models.ListMessagesRequest{ThreadID: thread.ID, Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "see you at 10", page.Messages[0].Text)
	require.NotNil(t, page.NextBefore)

	next, err := svc.ListMessages(ctx, oleg, &models.ListMessagesRequest{ThreadID: thread.ID, Before: page.NextBefore, Limit: 2})
	require.NoError(t, err)
	require.Len(t, next.Messages, 1)
	assert.Equal(t, "hi", next.Messages[0].Text)
	assert.Nil(t, next.NextBefore)
}

func TestService_ListMessages_LimitClamp(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, logger.NewNop())
	ctx := context.Background()

	thread, err := svc.StartThread(ctx, anna, &models.StartThreadRequest{PeerID: "oleg"})
	require.NoError(t, err)

	_, err = svc.ListMessages(ctx, anna, &models.ListMessagesRequest{ThreadID: thread.ID})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultMessagesPageSize, repo.lastPage.Limit)

	_, err = svc.ListMessages(ctx, anna, &models.ListMessagesRequest{ThreadID: thread.ID, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, domain.MaxMessagesPageSize, repo.lastPage.Limit)
}

func TestService_NonParticipant(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())
	ctx := context.Background()

	thread, err := svc.StartThread(ctx, anna, &models.StartThreadRequest{PeerID: "oleg"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, eve, thread.ID, &models.SendMessageRequest{Text: "hey"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.ListMessages(ctx, eve, &models.ListMessagesRequest{ThreadID: thread.ID})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.SendMessage(ctx, anna, 999, &models.SendMessageRequest{Text: "hey"})
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestService_SendMessage_Validation(t *testing.T) {
	svc := NewService(newFakeRepo(), logger.NewNop())
	ctx := context.Background()

	thread, err := svc.StartThread(ctx, anna, &models.StartThreadRequest{PeerID: "oleg"})
	require.NoError(t, err)

	_, err = svc.SendMessage(ctx, anna, thread.ID, &models.SendMessageRequest{Text: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SendMessage(ctx, anna, thread.ID, &models.SendMessageRequest{Text: strings.Repeat("a", domain.MaxMessageLength+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
