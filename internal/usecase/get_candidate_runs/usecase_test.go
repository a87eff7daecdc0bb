package get_candidate_runs

import (
	"context"
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

type fakeBarbers struct{}

func (fakeBarbers) GetByID(_ context.Context, id int64) (*domain.Barber, error) {
	if id != 7 {
		return nil, barberRepo.ErrBarberNotFound
	}
	return &domain.Barber{ID: 7, FirstName: "Oleg"}, nil
}

type fakeServices struct{}

func (fakeServices) GetByIDs(_ context.Context, ids []int64) ([]*domain.Service, error) {
	catalog := map[int64]*domain.Service{
		1: {ID: 1, Name: "Haircut", DurationMinutes: 60},
		2: {ID: 2, Name: "Beard", DurationMinutes: 30},
		3: {ID: 3, Name: "Coloring", DurationMinutes: 90},
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
}

func (f *fakeSchedules) GetByBarberAndDate(_ context.Context, barberID int64, date time.Time) (*domain.Schedule, error) {
	if f.schedule == nil || f.schedule.BarberID != barberID {
		return nil, scheduleRepo.ErrScheduleNotFound
	}
	s := *f.schedule
	return &s, nil
}

// fullDay рабочий день в UTC-полночь, как его возвращает DATE колонка
func fullDay(t *testing.T, booked ...int64) *domain.Schedule {
	t.Helper()
	slots, err := domain.GenerateDaySlots(nil)
	require.NoError(t, err)
	for _, id := range booked {
		slots[id].IsBooked = true
	}
	return &domain.Schedule{ID: 11, BarberID: 7, Date: time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), Slots: slots}
}

func newUseCase(schedule *domain.Schedule, now time.Time, policy slotmatcher.DurationPolicy) *UseCase {
	uc := NewUseCase(fakeBarbers{}, fakeServices{}, &fakeSchedules{schedule: schedule}, policy,
		domain.DefaultAdvanceBookingDays, moscow, logger.NewNop())
	uc.timeProvider = fixedTime{now: now}
	return uc
}

func TestUseCase_FullDaySixtyMinutes(t *testing.T) {
	uc := newUseCase(fullDay(t), time.Date(2025, 3, 10, 12, 0, 0, 0, moscow), slotmatcher.PolicyMax)

	resp, err := uc.Execute(context.Background(), &Request{
		BarberID:   7,
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, moscow),
		ServiceIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 60, resp.RequiredDuration)
	assert.Equal(t, 2, resp.RequiredSlots)
	require.Len(t, resp.Runs, 9)
	assert.Equal(t, []int64{0, 1}, resp.Runs[0].SlotIDs)
	assert.Equal(t, "09:00", resp.Runs[0].StartTime.String())
	assert.Equal(t, "10:00", resp.Runs[0].EndTime.String())
	assert.Equal(t, moscow, resp.Date.Location())
}

func TestUseCase_SumPolicyAndBookedSlots(t *testing.T) {
	uc := newUseCase(fullDay(t, 3), time.Date(2025, 3, 10, 12, 0, 0, 0, moscow), slotmatcher.PolicySum)

	resp, err := uc.Execute(context.Background(), &Request{
		BarberID:   7,
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, moscow),
		ServiceIDs: []int64{1, 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 90, resp.RequiredDuration)
	assert.Equal(t, 3, resp.RequiredSlots)
	assert.NotContains(t, resp.EligibleSlotIDs, int64(3))
	assert.Equal(t, []int64{0, 1, 2}, resp.Runs[0].SlotIDs)
	assert.Equal(t, []int64{4, 5, 6}, resp.Runs[1].SlotIDs)
}

func TestUseCase_TodayExcludesPastSlots(t *testing.T) {
	schedule := fullDay(t)
	schedule.Date = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	// 16:40 по Москве: остаются 17:00 и 17:30
	uc := newUseCase(schedule, time.Date(2025, 3, 10, 16, 40, 0, 0, moscow), slotmatcher.PolicyMax)

	resp, err := uc.Execute(context.Background(), &Request{
		BarberID:   7,
		Date:       time.Date(2025, 3, 10, 0, 0, 0, 0, moscow),
		ServiceIDs: []int64{2},
	})
	require.NoError(t, err)
	assert.Equal(t, []int64{16, 17}, resp.EligibleSlotIDs)
	assert.Len(t, resp.Runs, 2)
}

func TestUseCase_NoRunsIsNotAnError(t *testing.T) {
	schedule := fullDay(t)
	for i := range schedule.Slots {
		schedule.Slots[i].IsBooked = i%2 == 0
	}
	uc := newUseCase(schedule, time.Date(2025, 3, 10, 12, 0, 0, 0, moscow), slotmatcher.PolicyMax)

	resp, err := uc.Execute(context.Background(), &Request{
		BarberID:   7,
		Date:       time.Date(2025, 3, 11, 0, 0, 0, 0, moscow),
		ServiceIDs: []int64{1},
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Runs)
	assert.NotNil(t, resp.Runs)
}

func TestUseCase_Errors(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, moscow)
	day := time.Date(2025, 3, 11, 0, 0, 0, 0, moscow)

	tests := []struct {
		name string
		req  *Request
		want error
	}{
		{"no services", &Request{BarberID: 7, Date: day}, ErrInvalidInput},
		{"past date", &Request{BarberID: 7, Date: day.AddDate(0, 0, -2), ServiceIDs: []int64{1}}, ErrInvalidDate},
		{"too far", &Request{BarberID: 7, Date: day.AddDate(0, 0, 7), ServiceIDs: []int64{1}}, ErrDateTooFarInFuture},
		{"unknown barber", &Request{BarberID: 8, Date: day, ServiceIDs: []int64{1}}, ErrBarberNotFound},
		{"unknown service", &Request{BarberID: 7, Date: day, ServiceIDs: []int64{1, 42}}, ErrServiceNotFound},
		{"day off", &Request{BarberID: 7, Date: day.AddDate(0, 0, 1), ServiceIDs: []int64{1}}, ErrScheduleNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUseCase(fullDay(t), now, slotmatcher.PolicyMax)
			if tt.name == "day off" {
				uc.scheduleRepo = &fakeSchedules{}
			}
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUseCase_LastDayOfWindowAllowed(t *testing.T) {
	schedule := fullDay(t)
	schedule.Date = time.Date(2025, 3, 17, 0, 0, 0, 0, time.UTC)
	uc := newUseCase(schedule, time.Date(2025, 3, 10, 12, 0, 0, 0, moscow), slotmatcher.PolicyMax)

	_, err := uc.Execute(context.Background(), &Request{
		BarberID:   7,
		Date:       time.Date(2025, 3, 17, 0, 0, 0, 0, moscow),
		ServiceIDs: []int64{1},
	})
	require.NoError(t, err)
}
