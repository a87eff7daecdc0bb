package booking_session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	sessionStore "github.com/m04kA/SMC-BarberService/internal/infra/cache/session"
	catalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	"github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

var moscow = time.FixedZone("MSK", 3*60*60)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeBarbers struct {
	err error
}

func (f *fakeBarbers) ListByDate(context.Context, time.Time) ([]*domain.Barber, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*domain.Barber{{ID: 7, FirstName: "Oleg"}, {ID: 8, FirstName: "Ivan"}}, nil
}

type fakeCatalog struct {
	// hook вызывается во время загрузки услуг, имитируя параллельный запрос
	hook func()
}

func (f *fakeCatalog) GetByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	if f.hook != nil {
		hook := f.hook
		f.hook = nil
		hook()
	}

	catalog := map[int64]*domain.Service{
		1: {ID: 1, Name: "Haircut", DurationMinutes: 60},
		2: {ID: 2, Name: "Beard", DurationMinutes: 30},
	}
	result := make([]*domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := catalog[id]
		if !ok {
			return nil, fmt.Errorf("%w: id=%d", catalogRepo.ErrServiceNotFound, id)
		}
		result = append(result, s)
	}
	return result, nil
}

type fakeSchedules struct {
	booked []int64
	err    error
}

func (f *fakeSchedules) GetByBarberAndDate(_ context.Context, barberID int64, date time.Time) (*domain.Schedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	if barberID != 7 {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	slots, err := domain.GenerateDaySlots(nil)
	if err != nil {
		return nil, err
	}
	for _, id := range f.booked {
		slots[id].IsBooked = true
	}
	y, m, d := date.Date()
	return &domain.Schedule{ID: 11, BarberID: 7, Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Slots: slots}, nil
}

type fakeCreator struct {
	requests []*create_appointment.Request
	err      error
}

func (f *fakeCreator) Execute(_ context.Context, req *create_appointment.Request) (*create_appointment.Response, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &create_appointment.Response{Appointment: &domain.Appointment{ID: 99, Status: domain.StatusPending}}, nil
}

type fakeMetrics struct {
	stale int
}

func (m *fakeMetrics) IncStaleSessionResult() { m.stale++ }

type testEnv struct {
	uc        *UseCase
	store     *sessionStore.Store
	barbers   *fakeBarbers
	catalog   *fakeCatalog
	schedules *fakeSchedules
	creator   *fakeCreator
	metrics   *fakeMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	env := &testEnv{
		store:     sessionStore.NewStore(client, 30*time.Minute, moscow),
		barbers:   &fakeBarbers{},
		catalog:   &fakeCatalog{},
		schedules: &fakeSchedules{},
		creator:   &fakeCreator{},
		metrics:   &fakeMetrics{},
	}
	env.uc = NewUseCase(env.store, env.barbers, env.catalog, env.schedules, env.creator, env.metrics,
		slotmatcher.PolicyMax, domain.DefaultAdvanceBookingDays, moscow, logger.NewNop())
	env.uc.timeProvider = fixedTime{now: time.Date(2025, 3, 10, 12, 0, 0, 0, moscow)}
	env.uc.newID = func() string { return "sess-1" }
	return env
}

var tomorrow = time.Date(2025, 3, 11, 0, 0, 0, 0, moscow)

// prepare проводит сессию до стадии slots_proposed
func (env *testEnv) prepare(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	_, err := env.uc.Start(ctx, "user-1")
	require.NoError(t, err)
	_, err = env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow)
	require.NoError(t, err)
	_, err = env.uc.ChooseBarber(ctx, "user-1", "sess-1", 7)
	require.NoError(t, err)
	_, err = env.uc.ChooseServices(ctx, "user-1", "sess-1", []int64{1, 2})
	require.NoError(t, err)
}

func TestUseCase_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.prepare(t)

	got, err := env.uc.Get(ctx, "user-1", "sess-1")
	require.NoError(t, err)
	s := got.Session
	assert.Equal(t, domain.StageSlotsProposed, s.Stage)
	assert.Equal(t, 60, s.RequiredDuration)
	assert.Equal(t, 2, s.RequiredSlots)
	require.Len(t, s.CandidateRuns, 9)
	assert.Equal(t, []int64{0, 1}, s.CandidateRuns[0])

	_, err = env.uc.SelectSlots(ctx, "user-1", "sess-1", []int64{2, 3})
	require.NoError(t, err)

	resp, err := env.uc.Submit(ctx, "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSubmitted, resp.Session.Stage)
	assert.Equal(t, domain.OutcomePending, resp.Session.Outcome)
	require.NotNil(t, resp.Session.AppointmentID)
	assert.Equal(t, int64(99), *resp.Session.AppointmentID)

	require.Len(t, env.creator.requests, 1)
	req := env.creator.requests[0]
	assert.Equal(t, "user-1", req.UserID)
	assert.Equal(t, int64(7), req.BarberID)
	assert.True(t, tomorrow.Equal(req.Date))
	assert.Equal(t, []int64{1, 2}, req.ServiceIDs)
	assert.Equal(t, []int64{2, 3}, req.SlotIDs)

	_, err = env.uc.SelectSlots(ctx, "user-1", "sess-1", []int64{4, 5})
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestUseCase_NewDateClearsLaterStages(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.prepare(t)

	resp, err := env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow.AddDate(0, 0, 1))
	require.NoError(t, err)

	s := resp.Session
	assert.Equal(t, domain.StageDateChosen, s.Stage)
	assert.Nil(t, s.BarberID)
	assert.Nil(t, s.Schedule)
	assert.Empty(t, s.Services)
	assert.Empty(t, s.CandidateRuns)
	assert.Len(t, s.Barbers, 2)
}

func TestUseCase_StaleFetchResultDiscarded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.prepare(t)

	// Пока загружаются услуги, пользователь успевает выбрать другого барбера
	var innerErr error
	env.catalog.hook = func() {
		_, innerErr = env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow.AddDate(0, 0, 2))
	}

	_, err := env.uc.ChooseServices(ctx, "user-1", "sess-1", []int64{2})
	require.NoError(t, innerErr)
	assert.ErrorIs(t, err, ErrStaleSession)
	assert.Equal(t, 1, env.metrics.stale)

	// Сохранено состояние более нового запроса
	got, err := env.uc.Get(ctx, "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageDateChosen, got.Session.Stage)
	require.NotNil(t, got.Session.Date)
	assert.True(t, tomorrow.AddDate(0, 0, 2).Equal(*got.Session.Date))
	assert.Empty(t, got.Session.Services)
}

func TestUseCase_FetchFailureKeepsPriorState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.prepare(t)

	env.schedules.err = errors.New("db is down")

	_, err := env.uc.ChooseServices(ctx, "user-1", "sess-1", []int64{2})
	assert.ErrorIs(t, err, ErrUpstreamFetchFailed)

	got, err := env.uc.Get(ctx, "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSlotsProposed, got.Session.Stage)
	assert.Equal(t, 2, got.Session.RequiredSlots)
	assert.Len(t, got.Session.Services, 2)

	env.barbers.err = errors.New("db is down")
	_, err = env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow)
	assert.ErrorIs(t, err, ErrUpstreamFetchFailed)
}

func TestUseCase_SubmitFailureKeepsSelection(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.prepare(t)

	_, err := env.uc.SelectSlots(ctx, "user-1", "sess-1", []int64{0, 2})
	require.NoError(t, err)

	env.creator.err = slotmatcher.ErrNotConsecutive
	_, err = env.uc.Submit(ctx, "user-1", "sess-1")
	assert.ErrorIs(t, err, slotmatcher.ErrNotConsecutive)

	got, err := env.uc.Get(ctx, "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StageSubmitted, got.Session.Stage)
	assert.Equal(t, domain.OutcomeFailed, got.Session.Outcome)
	assert.Equal(t, "not_consecutive", got.Session.LastError)
	assert.Equal(t, []int64{0, 2}, got.Session.SelectedSlotIDs)

	// Повторная попытка после исправления выбора
	env.creator.err = nil
	_, err = env.uc.SelectSlots(ctx, "user-1", "sess-1", []int64{0, 1})
	require.NoError(t, err)

	resp, err := env.uc.Submit(ctx, "user-1", "sess-1")
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomePending, resp.Session.Outcome)
}

func TestUseCase_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.uc.Get(ctx, "user-1", "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	_, err = env.uc.Start(ctx, "user-1")
	require.NoError(t, err)

	_, err = env.uc.Get(ctx, "user-2", "sess-1")
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = env.uc.ChooseBarber(ctx, "user-1", "sess-1", 7)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.uc.Submit(ctx, "user-1", "sess-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow.AddDate(0, 0, -2))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow.AddDate(0, 0, 10))
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	_, err = env.uc.ChooseDate(ctx, "user-1", "sess-1", tomorrow)
	require.NoError(t, err)

	_, err = env.uc.ChooseBarber(ctx, "user-1", "sess-1", 42)
	assert.ErrorIs(t, err, ErrBarberNotAvailable)

	_, err = env.uc.ChooseBarber(ctx, "user-1", "sess-1", 8)
	assert.ErrorIs(t, err, ErrBarberNotAvailable)

	_, err = env.uc.ChooseBarber(ctx, "user-1", "sess-1", 7)
	require.NoError(t, err)

	_, err = env.uc.ChooseServices(ctx, "user-1", "sess-1", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = env.uc.ChooseServices(ctx, "user-1", "sess-1", []int64{5})
	assert.ErrorIs(t, err, ErrServiceNotFound)

	assert.Zero(t, env.metrics.stale)
}

func TestUseCase_ChooseServicesUsesFreshSchedule(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.prepare(t)

	env.schedules.booked = []int64{1}

	resp, err := env.uc.ChooseServices(ctx, "user-1", "sess-1", []int64{1})
	require.NoError(t, err)
	assert.Equal(t, []int64{2, 3}, resp.Session.CandidateRuns[0])
	assert.True(t, resp.Session.Schedule.Slots[1].IsBooked)
}
