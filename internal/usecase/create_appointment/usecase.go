package create_appointment

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

// UseCase use case для создания записи
type UseCase struct {
	appointmentRepo    AppointmentRepository
	barberRepo         BarberRepository
	serviceRepo        ServiceRepository
	scheduleRepo       ScheduleRepository
	txManager          TransactionManager
	publisher          EventPublisher
	metrics            Metrics
	policy             slotmatcher.DurationPolicy
	advanceBookingDays int
	location           *time.Location
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	barberRepo BarberRepository,
	serviceRepo ServiceRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	policy slotmatcher.DurationPolicy,
	advanceBookingDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo:    appointmentRepo,
		barberRepo:         barberRepo,
		serviceRepo:        serviceRepo,
		scheduleRepo:       scheduleRepo,
		txManager:          txManager,
		publisher:          publisher,
		metrics:            metrics,
		policy:             policy,
		advanceBookingDays: advanceBookingDays,
		location:           location,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute выполняет use case создания записи
// Слоты дня блокируются в сериализуемой транзакции, выбор проверяется по заблокированному состоянию
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%s, barber=%d, date=%s, services=%v, slots=%v",
		req.UserID, req.BarberID, req.Date.Format(domain.DateFormat), req.ServiceIDs, req.SlotIDs)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}
	date := domain.DateIn(req.Date, uc.location)

	// 2. Получаем текущее время и проверяем окно записи
	now := uc.timeProvider.Now()
	if err := validateDate(date, now, uc.advanceBookingDays); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем барбера
	barber, err := uc.barberRepo.GetByID(ctx, req.BarberID)
	if err != nil {
		if errors.Is(err, barberRepo.ErrBarberNotFound) {
			uc.logger.Warn("CreateAppointment: barber id=%d not found", req.BarberID)
			return nil, ErrBarberNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get barber id=%d: %v", req.BarberID, err)
		return nil, fmt.Errorf("%w: failed to get barber: %v", ErrInternal, err)
	}

	// 4. Получаем услуги
	services, err := uc.serviceRepo.GetByIDs(ctx, req.ServiceIDs)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, err)
		}
		uc.logger.Error("CreateAppointment: failed to get services: %v", err)
		return nil, fmt.Errorf("%w: failed to get services: %v", ErrInternal, err)
	}

	// 5. Считаем требуемую длительность
	duration := uc.policy.RequiredDuration(derefServices(services))
	requiredSlots := slotmatcher.RequiredSlots(duration)

	var result *domain.Appointment

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Получаем рабочий день с блокировкой
		schedule, err := uc.scheduleRepo.GetByBarberAndDate(txCtx, req.BarberID, date)
		if err != nil {
			if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("%w: failed to get schedule: %v", ErrInternal, err)
		}

		// 6.2. Блокируем слоты дня (FOR UPDATE)
		slots, err := uc.scheduleRepo.GetSlots(txCtx, schedule.ID)
		if err != nil {
			return fmt.Errorf("%w: failed to lock slots: %v", ErrInternal, err)
		}

		// 6.3. Проверяем выбор клиента
		run, err := slotmatcher.ValidateSelection(slots, req.SlotIDs, requiredSlots)
		if err != nil {
			return err
		}

		// 6.4. Слоты могли занять или закрыть после показа серий
		if err := validateEligible(run, date, now); err != nil {
			return err
		}

		// 6.5. Создаем запись с денормализацией данных
		appointment := &domain.Appointment{
			UserID:          req.UserID,
			BarberID:        barber.ID,
			ScheduleID:      schedule.ID,
			Date:            date,
			ServiceIDs:      domain.ServiceIDs(services),
			SlotIDs:         run.IDs(),
			Status:          domain.StatusPending,
			Notes:           req.Notes,
			BarberName:      barber.FullName(),
			Services:        toAppointmentServices(services),
			StartTime:       run.Slots[0].StartTime.String(),
			EndTime:         run.Slots[len(run.Slots)-1].EndTime.String(),
			DurationMinutes: duration,
			TotalPrice:      totalPrice(services),
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		// 6.6. Занимаем слоты и увеличиваем счетчик дня
		if err := uc.scheduleRepo.SetSlotsBooked(txCtx, schedule.ID, created.SlotIDs, true); err != nil {
			return fmt.Errorf("%w: failed to book slots: %v", ErrInternal, err)
		}
		if err := uc.scheduleRepo.AdjustAppointmentCount(txCtx, schedule.ID, 1); err != nil {
			return fmt.Errorf("%w: failed to update appointment count: %v", ErrInternal, err)
		}

		result = created
		return nil
	})
	if err != nil {
		switch {
		case isSelectionError(err):
			uc.metrics.IncSelectionRejected(slotmatcher.Reason(err))
			uc.logger.Warn("CreateAppointment: selection rejected: %v", err)
		case errors.Is(err, ErrSlotNotAvailable):
			uc.metrics.IncSelectionRejected("slot_not_available")
			uc.logger.Warn("CreateAppointment: %v", err)
		case errors.Is(err, ErrScheduleNotFound):
			uc.logger.Warn("CreateAppointment: barber id=%d has no schedule on %s", req.BarberID, date.Format(domain.DateFormat))
		default:
			uc.logger.Error("CreateAppointment: transaction failed: %v", err)
		}
		return nil, err
	}

	uc.metrics.IncAppointmentsCreated()

	// 7. Публикуем событие после коммита, ошибка не отменяет запись
	if err := uc.publisher.PublishAppointmentCreated(ctx, result); err != nil {
		uc.logger.Warn("CreateAppointment: failed to publish event for appointment id=%d: %v", result.ID, err)
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d, slots=%v", result.ID, result.SlotIDs)

	return &Response{Appointment: result}, nil
}

func isSelectionError(err error) bool {
	return errors.Is(err, slotmatcher.ErrNoSlotsSelected) ||
		errors.Is(err, slotmatcher.ErrWrongSlotCount) ||
		errors.Is(err, slotmatcher.ErrNotConsecutive) ||
		errors.Is(err, slotmatcher.ErrUnknownSlot)
}

func toAppointmentServices(services []*domain.Service) []domain.AppointmentService {
	result := make([]domain.AppointmentService, len(services))
	for i, s := range services {
		result[i] = domain.AppointmentService{
			ServiceID:       s.ID,
			Name:            s.Name,
			DurationMinutes: s.DurationMinutes,
			Price:           s.Price,
		}
	}
	return result
}

func totalPrice(services []*domain.Service) float64 {
	total := 0.0
	for _, s := range services {
		total += s.Price
	}
	return total
}

func derefServices(services []*domain.Service) []domain.Service {
	result := make([]domain.Service, len(services))
	for i, s := range services {
		result[i] = *s
	}
	return result
}
