package schedules

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	barberRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/barber"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules/models"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
	"github.com/m04kA/SMC-BarberService/pkg/ptr"
)

type fakeScheduleRepo struct {
	schedules map[int64]*domain.Schedule
	nextID    int64
}

func (r *fakeScheduleRepo) Create(_ context.Context, s *domain.Schedule) (*domain.Schedule, error) {
	for _, existing := range r.schedules {
		if existing.BarberID == s.BarberID && existing.Date.Equal(s.Date) {
			return nil, scheduleRepo.ErrScheduleAlreadyExists
		}
	}
	r.nextID++
	s.ID = r.nextID
	r.schedules[s.ID] = s
	return s, nil
}

func (r *fakeScheduleRepo) GetByID(_ context.Context, id int64) (*domain.Schedule, error) {
	s, ok := r.schedules[id]
	if !ok {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	return s, nil
}

func (r *fakeScheduleRepo) List(_ context.Context, _ domain.ScheduleFilter) ([]*domain.Schedule, error) {
	result := make([]*domain.Schedule, 0, len(r.schedules))
	for _, s := range r.schedules {
		result = append(result, s)
	}
	return result, nil
}

func (r *fakeScheduleRepo) UpdateSlotAvailability(_ context.Context, id int64, availability map[int64]bool) error {
	s := r.schedules[id]
	for i := range s.Slots {
		if v, ok := availability[s.Slots[i].ID]; ok {
			s.Slots[i].IsAvailable = v
		}
	}
	return nil
}

func (r *fakeScheduleRepo) Delete(_ context.Context, id int64) error {
	delete(r.schedules, id)
	return nil
}

type fakeBarberRepo struct{}

func (fakeBarberRepo) GetByID(_ context.Context, id int64) (*domain.Barber, error) {
	if id != 7 {
		return nil, barberRepo.ErrBarberNotFound
	}
	return &domain.Barber{ID: 7, FirstName: "Ivan", LastName: "Petrov"}, nil
}

type passTx struct{}

func (passTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

var (
	barberUser = &domain.User{ID: "barber-7", Roles: []domain.Role{domain.RoleBarber}, BarberID: ptr.Ptr(int64(7))}
	otherUser  = &domain.User{ID: "barber-8", Roles: []domain.Role{domain.RoleBarber}, BarberID: ptr.Ptr(int64(8))}
	adminUser  = &domain.User{ID: "admin", Roles: []domain.Role{domain.RoleAdmin}}
)

func newTestService() (*Service, *fakeScheduleRepo) {
	repo := &fakeScheduleRepo{schedules: map[int64]*domain.Schedule{}}
	svc := NewService(repo, fakeBarberRepo{}, passTx{}, time.UTC, logger.NewNop())
	svc.timeProvider = fixedTime{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
	return svc, repo
}

func TestService_Create(t *testing.T) {
	svc, _ := newTestService()

	resp, err := svc.Create(context.Background(), barberUser, &models.CreateScheduleRequest{
		Date:             "2025-03-11",
		AvailableSlotIDs: []int64{0, 1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(7), resp.BarberID)
	assert.Equal(t, "Ivan Petrov", resp.BarberName)
	assert.Equal(t, "2025-03-11", resp.Date)
	require.Len(t, resp.Slots, domain.SlotsPerDay)
	assert.True(t, resp.Slots[2].IsAvailable)
	assert.False(t, resp.Slots[3].IsAvailable)
	assert.Equal(t, "17:30", resp.Slots[17].StartTime)
	assert.Equal(t, "18:00", resp.Slots[17].EndTime)

	_, err = svc.Create(context.Background(), barberUser, &models.CreateScheduleRequest{Date: "2025-03-11"})
	assert.ErrorIs(t, err, ErrScheduleAlreadyExists)
}

func TestService_Create_Rejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, otherUser, &models.CreateScheduleRequest{BarberID: ptr.Ptr(int64(7)), Date: "2025-03-11"})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.Create(ctx, adminUser, &models.CreateScheduleRequest{Date: "2025-03-11"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, barberUser, &models.CreateScheduleRequest{Date: "2025-03-09"})
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Create(ctx, barberUser, &models.CreateScheduleRequest{Date: "11.03.2025"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(ctx, barberUser, &models.CreateScheduleRequest{Date: "2025-03-11", AvailableSlotIDs: []int64{18}})
	assert.ErrorIs(t, err, ErrSlotNotFound)

	_, err = svc.Create(ctx, adminUser, &models.CreateScheduleRequest{BarberID: ptr.Ptr(int64(9)), Date: "2025-03-11"})
	assert.ErrorIs(t, err, ErrBarberNotFound)
}

func TestService_UpdateAvailability(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, barberUser, &models.CreateScheduleRequest{Date: "2025-03-11"})
	require.NoError(t, err)
	repo.schedules[created.ID].Slots[4].IsBooked = true

	resp, err := svc.UpdateAvailability(ctx, barberUser, created.ID, &models.UpdateAvailabilityRequest{
		Slots: []models.SlotAvailability{{ID: 0, IsAvailable: false}},
	})
	require.NoError(t, err)
	assert.False(t, resp.Slots[0].IsAvailable)

	_, err = svc.UpdateAvailability(ctx, barberUser, created.ID, &models.UpdateAvailabilityRequest{
		Slots: []models.SlotAvailability{{ID: 4, IsAvailable: false}},
	})
	assert.ErrorIs(t, err, ErrSlotBooked)

	_, err = svc.UpdateAvailability(ctx, otherUser, created.ID, &models.UpdateAvailabilityRequest{
		Slots: []models.SlotAvailability{{ID: 1, IsAvailable: false}},
	})
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = svc.UpdateAvailability(ctx, adminUser, created.ID, &models.UpdateAvailabilityRequest{
		Slots: []models.SlotAvailability{{ID: 30, IsAvailable: true}},
	})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestService_Delete(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, barberUser, &models.CreateScheduleRequest{Date: "2025-03-11"})
	require.NoError(t, err)

	repo.schedules[created.ID].Slots[0].IsBooked = true
	assert.ErrorIs(t, svc.Delete(ctx, barberUser, created.ID), ErrScheduleHasBookings)

	repo.schedules[created.ID].Slots[0].IsBooked = false
	require.NoError(t, svc.Delete(ctx, barberUser, created.ID))

	assert.ErrorIs(t, svc.Delete(ctx, barberUser, created.ID), ErrScheduleNotFound)
}
