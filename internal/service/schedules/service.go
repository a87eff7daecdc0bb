package schedules

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	barberRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/barber"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules/models"
)

// Service сервис управления рабочими днями барберов
type Service struct {
	scheduleRepo ScheduleRepository
	barberRepo   BarberRepository
	txManager    TransactionManager
	timeProvider TimeProvider
	location     *time.Location
	logger       Logger
}

// NewService создает новый экземпляр сервиса расписаний
func NewService(
	scheduleRepo ScheduleRepository,
	barberRepo BarberRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		barberRepo:   barberRepo,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		location:     location,
		logger:       logger,
	}
}

// Create создает рабочий день барбера со стандартной сеткой слотов
// Барбер может создать только свой день, администратор - любой
func (s *Service) Create(ctx context.Context, actor *domain.User, req *models.CreateScheduleRequest) (*models.ScheduleResponse, error) {
	// 1. Определяем барбера
	barberID, err := s.resolveBarberID(actor, req.BarberID)
	if err != nil {
		s.logger.Warn("Create: user=%s cannot create schedule: %v", actor.ID, err)
		return nil, err
	}

	s.logger.Info("Create: creating schedule for barber=%d, date=%s by user=%s", barberID, req.Date, actor.ID)

	// 2. Валидируем дату
	date, err := domain.ParseDate(req.Date, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
	}
	if err := s.validateDate(date); err != nil {
		s.logger.Warn("Create: invalid date %s: %v", req.Date, err)
		return nil, err
	}

	// 3. Проверяем барбера
	barber, err := s.barberRepo.GetByID(ctx, barberID)
	if err != nil {
		if errors.Is(err, barberRepo.ErrBarberNotFound) {
			return nil, ErrBarberNotFound
		}
		s.logger.Error("Create: failed to get barber id=%d: %v", barberID, err)
		return nil, fmt.Errorf("%w: Create - failed to get barber: %v", ErrInternal, err)
	}

	// 4. Генерируем слоты
	var available map[int64]bool
	if req.AvailableSlotIDs != nil {
		available = make(map[int64]bool, len(req.AvailableSlotIDs))
		for _, id := range req.AvailableSlotIDs {
			if id < 0 || id >= domain.SlotsPerDay {
				return nil, fmt.Errorf("%w: slot id=%d", ErrSlotNotFound, id)
			}
			available[id] = true
		}
	}

	slots, err := domain.GenerateDaySlots(available)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - generate slots: %v", ErrInternal, err)
	}

	schedule := &domain.Schedule{
		BarberID:   barber.ID,
		BarberName: barber.FullName(),
		Date:       date,
		Slots:      slots,
	}

	// 5. Сохраняем день и слоты атомарно
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		schedule, err = s.scheduleRepo.Create(ctx, schedule)
		return err
	})
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleAlreadyExists) {
			s.logger.Warn("Create: schedule for barber=%d on %s already exists", barberID, req.Date)
			return nil, ErrScheduleAlreadyExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: schedule id=%d created for barber=%d", schedule.ID, barberID)
	return models.FromDomainSchedule(schedule), nil
}

// GetByID получает рабочий день со слотами
func (s *Service) GetByID(ctx context.Context, id int64) (*models.ScheduleResponse, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("GetByID: schedule id=%d not found", id)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("GetByID: repository error for schedule id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSchedule(schedule), nil
}

// List получает рабочие дни по фильтру
func (s *Service) List(ctx context.Context, req *models.ListSchedulesRequest) (*models.ScheduleListResponse, error) {
	schedules, err := s.scheduleRepo.List(ctx, domain.ScheduleFilter{
		Date:     req.Date,
		BarberID: req.BarberID,
	})
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d schedules", len(schedules))
	return models.FromDomainScheduleList(schedules), nil
}

// UpdateAvailability открывает или закрывает слоты рабочего дня
// Занятый слот закрыть нельзя: сначала нужно отменить запись
func (s *Service) UpdateAvailability(ctx context.Context, actor *domain.User, id int64, req *models.UpdateAvailabilityRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateAvailability: schedule id=%d, %d slots by user=%s", id, len(req.Slots), actor.ID)

	if len(req.Slots) == 0 {
		return nil, fmt.Errorf("%w: slots are required", ErrInvalidInput)
	}

	availability := make(map[int64]bool, len(req.Slots))
	for _, slot := range req.Slots {
		availability[slot.ID] = slot.IsAvailable
	}

	var updated *domain.Schedule
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		schedule, err := s.loadForUpdate(ctx, actor, id)
		if err != nil {
			return err
		}

		for slotID, isAvailable := range availability {
			slot, ok := schedule.SlotByID(slotID)
			if !ok {
				return fmt.Errorf("%w: slot id=%d", ErrSlotNotFound, slotID)
			}
			if slot.IsBooked && !isAvailable {
				return fmt.Errorf("%w: slot id=%d", ErrSlotBooked, slotID)
			}
		}

		if err := s.scheduleRepo.UpdateSlotAvailability(ctx, id, availability); err != nil {
			return err
		}

		updated, err = s.scheduleRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, s.mapError("UpdateAvailability", id, err)
	}

	s.logger.Info("UpdateAvailability: schedule id=%d updated", id)
	return models.FromDomainSchedule(updated), nil
}

// Delete удаляет рабочий день
// День с занятыми слотами удалить нельзя
func (s *Service) Delete(ctx context.Context, actor *domain.User, id int64) error {
	s.logger.Info("Delete: deleting schedule id=%d by user=%s", id, actor.ID)

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		schedule, err := s.loadForUpdate(ctx, actor, id)
		if err != nil {
			return err
		}

		if schedule.HasBookedSlots() {
			return ErrScheduleHasBookings
		}

		return s.scheduleRepo.Delete(ctx, id)
	})
	if err != nil {
		return s.mapError("Delete", id, err)
	}

	s.logger.Info("Delete: schedule id=%d deleted", id)
	return nil
}

// Вспомогательные методы

// loadForUpdate получает день в транзакции и проверяет права
func (s *Service) loadForUpdate(ctx context.Context, actor *domain.User, id int64) (*domain.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !canManage(actor, schedule.BarberID) {
		return nil, ErrAccessDenied
	}

	return schedule, nil
}

func (s *Service) mapError(op string, id int64, err error) error {
	switch {
	case errors.Is(err, scheduleRepo.ErrScheduleNotFound):
		s.logger.Warn("%s: schedule id=%d not found", op, id)
		return ErrScheduleNotFound
	case errors.Is(err, scheduleRepo.ErrSlotNotFound):
		s.logger.Warn("%s: slot not found in schedule id=%d", op, id)
		return ErrSlotNotFound
	case errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrSlotNotFound),
		errors.Is(err, ErrSlotBooked),
		errors.Is(err, ErrScheduleHasBookings):
		s.logger.Warn("%s: schedule id=%d rejected: %v", op, id, err)
		return err
	default:
		s.logger.Error("%s: repository error for schedule id=%d: %v", op, id, err)
		return fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
}

// resolveBarberID определяет барбера, чьим днем управляет пользователь
func (s *Service) resolveBarberID(actor *domain.User, requested *int64) (int64, error) {
	if requested == nil {
		if actor.BarberID == nil {
			return 0, fmt.Errorf("%w: barberId is required", ErrInvalidInput)
		}
		return *actor.BarberID, nil
	}

	if !canManage(actor, *requested) {
		return 0, ErrAccessDenied
	}
	return *requested, nil
}

// validateDate проверяет, что день не в прошлом и не дальше MaxAdvanceBookingDays
func (s *Service) validateDate(date time.Time) error {
	today := domain.DateIn(s.timeProvider.Now().In(s.location), s.location)

	if date.Before(today) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}
	if date.After(today.AddDate(0, 0, domain.MaxAdvanceBookingDays)) {
		return fmt.Errorf("%w: date is more than %d days ahead", ErrInvalidDate, domain.MaxAdvanceBookingDays)
	}
	return nil
}

// canManage барбер управляет своими днями, администратор - любыми
func canManage(actor *domain.User, barberID int64) bool {
	if actor.HasRole(domain.RoleAdmin) {
		return true
	}
	return actor.BarberID != nil && *actor.BarberID == barberID
}
