package get_candidate_runs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	barberRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/barber"
	catalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
)

// UseCase use case подбора непрерывных серий слотов под выбранные услуги
type UseCase struct {
	barberRepo         BarberRepository
	serviceRepo        ServiceRepository
	scheduleRepo       ScheduleRepository
	policy             slotmatcher.DurationPolicy
	advanceBookingDays int
	location           *time.Location
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	barberRepo BarberRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	policy slotmatcher.DurationPolicy,
	advanceBookingDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		barberRepo:         barberRepo,
		serviceRepo:        serviceRepo,
		scheduleRepo:       scheduleRepo,
		policy:             policy,
		advanceBookingDays: advanceBookingDays,
		location:           location,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case подбора серий
// Пустой список серий - корректный ответ: у барбера нет подходящего окна
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetCandidateRuns: barber=%d, date=%s, services=%v",
		req.BarberID, req.Date.Format(domain.DateFormat), req.ServiceIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetCandidateRuns: validation failed: %v", err)
		return nil, err
	}
	serviceIDs := uniqueIDs(req.ServiceIDs)
	date := domain.DateIn(req.Date, uc.location)

	// 2. Получаем текущее время и проверяем окно записи
	now := uc.timeProvider.Now()
	if err := validateDate(date, now, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("GetCandidateRuns: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем барбера
	if _, err := uc.barberRepo.GetByID(ctx, req.BarberID); err != nil {
		if errors.Is(err, barberRepo.ErrBarberNotFound) {
			uc.logger.Warn("GetCandidateRuns: barber id=%d not found", req.BarberID)
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("GetCandidateRuns: failed to get barber id=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get barber: %v", ErrInternal, err)
	}

	// 4. Получаем услуги
	services, err := uc.serviceRepo.GetByIDs(ctx, serviceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("GetCandidateRuns: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("GetCandidateRuns: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	// 5. Получаем рабочий день барбера
	schedule, err := uc.scheduleRepo.GetByBarberAndDate(ctx, req.BarberID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			uc.logger.Warn("GetCandidateRuns: barber id=%d has no schedule on %s", req.BarberID, date.Format(domain.DateFormat))
			return nil, ErrScheduleNotFound
		}
		uc.logger.Error("GetCandidateRuns: failed to get schedule: %v", err)
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
	}
	schedule.Date = domain.DateIn(schedule.Date, uc.location)

	// 6. Подбираем серии
	plan := uc.policy.Propose(*schedule, derefServices(services), now)

	uc.logger.Info("GetCandidateRuns: barber=%d, date=%s, required=%d slots, eligible=%d, runs=%d",
		req.BarberID, date.Format(domain.DateFormat), plan.RequiredSlots, len(plan.Eligible), len(plan.Runs))

	return toResponse(schedule, serviceIDs, plan), nil
}

func toResponse(schedule *domain.Schedule, serviceIDs []int64, plan slotmatcher.Plan) *Response {
	runs := make([]Run, 0, len(plan.Runs))
	for _, run := range plan.Runs {
		runs = append(runs, Run{
			SlotIDs:   run.IDs(),
			StartTime: run.Slots[0].StartTime,
			EndTime:   run.Slots[len(run.Slots)-1].EndTime,
		})
	}

	return &Response{
		BarberID:         schedule.BarberID,
		ScheduleID:       schedule.ID,
		Date:             schedule.Date,
		ServiceIDs:       serviceIDs,
		RequiredDuration: plan.RequiredDuration,
		RequiredSlots:    plan.RequiredSlots,
		EligibleSlotIDs:  domain.SlotIDs(plan.Eligible),
		Runs:             runs,
	}
}

func derefServices(services []*domain.Service) []domain.Service {
	result := make([]domain.Service, len(services))
	for i, s := range services {
		result[i] = *s
	}
	return result
}
