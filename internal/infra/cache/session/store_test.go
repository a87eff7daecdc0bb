package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewStore(client, 30*time.Minute, time.UTC), mr
}

func newSession(t *testing.T) *domain.BookingSession {
	t.Helper()

	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	s := domain.NewBookingSession("sess-1", "user-1", now)

	date := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ChooseDate(date, []domain.Barber{{ID: 7, UserID: "barber-7", FirstName: "Ivan"}}, now))

	slots, err := domain.GenerateDaySlots(nil)
	require.NoError(t, err)
	require.NoError(t, s.ChooseBarber(7, &domain.Schedule{ID: 3, BarberID: 7, Date: date, Slots: slots}, now))

	return s
}

func TestStore_CreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.Create(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)

	assert.Equal(t, s.UserID, got.UserID)
	assert.Equal(t, domain.StageBarberChosen, got.Stage)
	require.NotNil(t, got.Date)
	assert.True(t, s.Date.Equal(*got.Date))
	require.Len(t, got.Barbers, 1)
	assert.Equal(t, "Ivan", got.Barbers[0].FirstName)
	require.NotNil(t, got.Schedule)
	assert.Len(t, got.Schedule.Slots, domain.SlotsPerDay)
	assert.Equal(t, "09:00", got.Schedule.Slots[0].StartTime.String())
	assert.Equal(t, int64(3), got.Schedule.Slots[0].ScheduleID)
}

func TestStore_CreateTwice(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.Create(ctx, s))
	assert.ErrorIs(t, store.Create(ctx, s), ErrSessionAlreadyExists)
}

func TestStore_GetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = store.NextGeneration(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestStore_SaveIfCurrent(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.Create(ctx, s))

	gen, err := store.NextGeneration(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)

	s.Generation = gen
	s.LastError = "marker"
	require.NoError(t, store.SaveIfCurrent(ctx, s))

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Generation)
	assert.Equal(t, "marker", got.LastError)
}

func TestStore_StaleResultDiscarded(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.Create(ctx, s))

	// Два запроса стартовали один за другим
	older, err := store.NextGeneration(ctx, s.ID)
	require.NoError(t, err)
	newer, err := store.NextGeneration(ctx, s.ID)
	require.NoError(t, err)
	require.Greater(t, newer, older)

	// Новый запрос завершился первым
	fresh := newSession(t)
	fresh.Generation = newer
	fresh.LastError = "newer"
	require.NoError(t, store.SaveIfCurrent(ctx, fresh))

	// Ответ старого запроса пришел позже и должен быть отброшен
	stale := newSession(t)
	stale.Generation = older
	stale.LastError = "older"
	assert.ErrorIs(t, store.SaveIfCurrent(ctx, stale), ErrStaleGeneration)

	got, err := store.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "newer", got.LastError)
}

func TestStore_StaleEvenIfOlderFinishesFirst(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.Create(ctx, s))

	older, err := store.NextGeneration(ctx, s.ID)
	require.NoError(t, err)
	_, err = store.NextGeneration(ctx, s.ID)
	require.NoError(t, err)

	s.Generation = older
	assert.ErrorIs(t, store.SaveIfCurrent(ctx, s), ErrStaleGeneration)
}

func TestStore_Expired(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	s := newSession(t)
	require.NoError(t, store.Create(ctx, s))

	mr.FastForward(31 * time.Minute)

	_, err := store.Get(ctx, s.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
