package create_appointment

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	barberRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/barber"
	catalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

var moscow = time.FixedZone("MSK", 3*60*60)

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type fakeAppointments struct {
	created []*domain.Appointment
}

func (r *fakeAppointments) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	a.ID = int64(len(r.created) + 1)
	r.created = append(r.created, a)
	return a, nil
}

type fakeBarbers struct{}

func (fakeBarbers) GetByID(_ context.Context, id int64) (*domain.Barber, error) {
	if id != 7 {
		return nil, barberRepo.ErrBarberNotFound
	}
	return &domain.Barber{ID: 7, FirstName: "Oleg", LastName: "Ivanov"}, nil
}

type fakeServices struct{}

func (fakeServices) GetByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	catalog := map[int64]*domain.Service{
		1: {ID: 1, Name: "Haircut", DurationMinutes: 60, Price: 1500},
		2: {ID: 2, Name: "Beard", DurationMinutes: 30, Price: 700},
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
	schedule *domain.Schedule
	booked   []int64
	delta    int
}

func (f *fakeSchedules) GetByBarberAndDate(_ context.Context, barberID int64, _ time.Time) (*domain.Schedule, error) {
	if f.schedule == nil || f.schedule.BarberID != barberID {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return f.schedule, nil
}

func (f *fakeSchedules) GetSlots(_ context.Context, _ int64) ([]domain.Slot, error) {
	return f.schedule.Slots, nil
}

func (f *fakeSchedules) SetSlotsBooked(_ context.Context, _ int64, slotIDs []int64, booked bool) error {
	if booked {
		f.booked = append(f.booked, slotIDs...)
	}
	return nil
}

func (f *fakeSchedules) AdjustAppointmentCount(_ context.Context, _ int64, delta int) error {
	f.delta += delta
	return nil
}

type passTx struct{}

func (passTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakePublisher struct {
	created []int64
	err     error
}

func (p *fakePublisher) PublishAppointmentCreated(_ context.Context, a *domain.Appointment) error {
	p.created = append(p.created, a.ID)
	return p.err
}

type fakeMetrics struct {
	created  int
	rejected map[string]int
}

func (m *fakeMetrics) IncAppointmentsCreated() { m.created++ }

func (m *fakeMetrics) IncSelectionRejected(reason string) { m.rejected[reason]++ }

type testEnv struct {
	uc           *UseCase
	appointments *fakeAppointments
	schedules    *fakeSchedules
	publisher    *fakePublisher
	metrics      *fakeMetrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	slots, err := domain.GenerateDaySlots(nil)
	require.NoError(t, err)

	env := &testEnv{
		appointments: &fakeAppointments{},
		schedules: &fakeSchedules{schedule: &domain.Schedule{
			ID:       11,
			BarberID: 7,
			Date:     time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC),
			Slots:    slots,
		}},
		publisher: &fakePublisher{},
		metrics:   &fakeMetrics{rejected: map[string]int{}},
	}
	env.uc = NewUseCase(env.appointments, fakeBarbers{}, fakeServices{}, env.schedules, passTx{},
		env.publisher, env.metrics, slotmatcher.PolicyMax, domain.DefaultAdvanceBookingDays, moscow, logger.NewNop())
	env.uc.timeProvider = fixedTime{now: time.Date(2025, 3, 10, 12, 0, 0, 0, moscow)}
	return env
}

func request(slotIDs ...int64) *Request {
	return &Request{
		UserID:     "user-1",
		BarberID:   7,
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, moscow),
		ServiceIDs: []int64{2, 1},
		SlotIDs:    slotIDs,
	}
}

func TestUseCase_CreatesPendingAppointment(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.uc.Execute(context.Background(), request(1, 0))
	require.NoError(t, err)

	a := resp.Appointment
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, []int64{0, 1}, a.SlotIDs)
	assert.Equal(t, []int64{2, 1}, a.ServiceIDs)
	assert.Equal(t, "09:00", a.StartTime)
	assert.Equal(t, "10:00", a.EndTime)
	assert.Equal(t, 60, a.DurationMinutes)
	assert.Equal(t, 2200.0, a.TotalPrice)
	assert.Equal(t, "Oleg Ivanov", a.BarberName)
	assert.Equal(t, int64(11), a.ScheduleID)

	assert.Equal(t, []int64{0, 1}, env.schedules.booked)
	assert.Equal(t, 1, env.schedules.delta)
	assert.Equal(t, 1, env.metrics.created)
	assert.Equal(t, []int64{1}, env.publisher.created)
}

func TestUseCase_SelectionErrors(t *testing.T) {
	tests := []struct {
		name   string
		slots  []int64
		want   error
		reason string
	}{
		{"nothing selected", nil, slotmatcher.ErrNoSlotsSelected, "no_slots_selected"},
		{"too few", []int64{0}, slotmatcher.ErrWrongSlotCount, "too_few_slots"},
		{"too many", []int64{0, 1, 2}, slotmatcher.ErrWrongSlotCount, "too_many_slots"},
		{"gap", []int64{0, 2}, slotmatcher.ErrNotConsecutive, "not_consecutive"},
		{"unknown", []int64{17, 18}, slotmatcher.ErrUnknownSlot, "unknown_slot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			_, err := env.uc.Execute(context.Background(), request(tt.slots...))
			require.ErrorIs(t, err, tt.want)

			assert.Equal(t, 1, env.metrics.rejected[tt.reason])
			assert.Empty(t, env.appointments.created)
			assert.Empty(t, env.schedules.booked)
		})
	}
}

func TestUseCase_WrongCountCarriesDetails(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.uc.Execute(context.Background(), request(4))

	var countErr *slotmatcher.WrongSlotCountError
	require.True(t, errors.As(err, &countErr))
	assert.True(t, countErr.TooFew())
	assert.Equal(t, 2, countErr.Required)
}

func TestUseCase_SlotTakenMeanwhile(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.schedule.Slots[1].IsBooked = true

	_, err := env.uc.Execute(context.Background(), request(0, 1))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.Equal(t, 1, env.metrics.rejected["slot_not_available"])
	assert.Empty(t, env.appointments.created)
}

func TestUseCase_PastSlotToday(t *testing.T) {
	env := newTestEnv(t)
	env.schedules.schedule.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	req := request(0, 1)
	req.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, moscow)

	_, err := env.uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestUseCase_PublishFailureKeepsAppointment(t *testing.T) {
	env := newTestEnv(t)
	env.publisher.err = errors.New("broker down")

	resp, err := env.uc.Execute(context.Background(), request(4, 5))
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Appointment.ID)
}

func TestUseCase_InputErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := request(0, 1)
	req.ServiceIDs = []int64{1, 1}
	_, err := env.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidInput)

	req = request(0, 1)
	req.BarberID = 9
	_, err = env.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrBarberNotFound)

	req = request(0, 1)
	req.ServiceIDs = []int64{3}
	_, err = env.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrServiceNotFound)

	req = request(0, 1)
	req.Date = time.Date(2025, 3, 20, 0, 0, 0, 0, moscow)
	_, err = env.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)

	env.schedules.schedule = nil
	_, err = env.uc.Execute(ctx, request(0, 1))
	assert.ErrorIs(t, err, ErrScheduleNotFound)
}
