package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-BarberService/internal/service/appointments/models"
)

// allowedTransitions переходы статуса, доступные барберу
// Отмена выполняется отдельно через Cancel
var allowedTransitions = map[domain.AppointmentStatus][]domain.AppointmentStatus{
	domain.StatusPending:   {domain.StatusConfirmed},
	domain.StatusConfirmed: {domain.StatusCompleted, domain.StatusNoShow},
}

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	scheduleRepo    ScheduleRepository
	txManager       TransactionManager
	publisher       EventPublisher
	metrics         Metrics
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	scheduleRepo ScheduleRepository,
	txManager TransactionManager,
	publisher EventPublisher,
	metrics Metrics,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		scheduleRepo:    scheduleRepo,
		txManager:       txManager,
		publisher:       publisher,
		metrics:         metrics,
		logger:          logger,
	}
}

// GetByID получает запись по ID
// Клиент видит только свои записи, барбер - записи к себе, администратор - любые
func (s *Service) GetByID(ctx context.Context, actor *domain.User, id int64) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByID: fetching appointment id=%d for user=%s", id, actor.ID)

	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByID: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByID: repository error for appointment id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !canView(actor, appointment) {
		s.logger.Warn("GetByID: access denied for user=%s to appointment id=%d", actor.ID, id)
		return nil, ErrAccessDenied
	}

	return models.FromDomainAppointment(appointment), nil
}

// ListForUser получает историю записей пользователя
func (s *Service) ListForUser(ctx context.Context, actor *domain.User, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("ListForUser: fetching appointments for user=%s, status=%v", actor.ID, req.Status)

	filter, err := toDomainFilter(req)
	if err != nil {
		s.logger.Warn("ListForUser: invalid filter for user=%s: %v", actor.ID, err)
		return nil, err
	}
	filter.UserID = &actor.ID
	filter.BarberID = nil

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%s: %v", actor.ID, err)
		return nil, fmt.Errorf("%w: ListForUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForUser: fetched %d appointments for user=%s", len(appointments), actor.ID)
	return models.FromDomainAppointmentList(appointments), nil
}

// ListForBarber получает записи к барберу
// Барбер видит только свои записи, администратор - любые
func (s *Service) ListForBarber(ctx context.Context, actor *domain.User, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	if req.BarberID == nil {
		return nil, fmt.Errorf("%w: barberId is required", ErrInvalidInput)
	}

	s.logger.Info("ListForBarber: fetching appointments for barber=%d by user=%s", *req.BarberID, actor.ID)

	if !isStaffOf(actor, *req.BarberID) {
		s.logger.Warn("ListForBarber: user=%s is not allowed to see barber=%d", actor.ID, *req.BarberID)
		return nil, ErrAccessDenied
	}

	filter, err := toDomainFilter(req)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("ListForBarber: repository error for barber=%d: %v", *req.BarberID, err)
		return nil, fmt.Errorf("%w: ListForBarber - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись и освобождает ее слоты
// Клиент отменяет свою запись (cancelled_by_user), барбер или администратор - любую к барберу (cancelled_by_barber)
func (s *Service) Cancel(ctx context.Context, actor *domain.User, id int64, req *models.CancelAppointmentRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("Cancel: cancelling appointment id=%d by user=%s", id, actor.ID)

	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason exceeds %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	var cancelled *domain.Appointment
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		// 1. Получаем запись с блокировкой строки
		appointment, err := s.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		// 2. Определяем статус отмены по правам
		var status domain.AppointmentStatus
		switch {
		case appointment.UserID == actor.ID:
			status = domain.StatusCancelledByUser
		case isStaffOf(actor, appointment.BarberID):
			status = domain.StatusCancelledByBarber
		default:
			return ErrAccessDenied
		}

		if !appointment.CanBeCancelled() {
			return ErrCannotCancel
		}

		// 3. Отменяем запись
		if err := s.appointmentRepo.Cancel(ctx, id, status, req.CancellationReason); err != nil {
			return err
		}

		// 4. Освобождаем слоты и уменьшаем счетчик дня
		if err := s.scheduleRepo.SetSlotsBooked(ctx, appointment.ScheduleID, appointment.SlotIDs, false); err != nil {
			return err
		}
		if err := s.scheduleRepo.AdjustAppointmentCount(ctx, appointment.ScheduleID, -1); err != nil {
			return err
		}

		cancelled, err = s.appointmentRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("Cancel: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, ErrAccessDenied):
			s.logger.Warn("Cancel: access denied for user=%s to appointment id=%d", actor.ID, id)
			return nil, ErrAccessDenied
		case errors.Is(err, ErrCannotCancel), errors.Is(err, appointmentRepo.ErrCannotCancel):
			s.logger.Warn("Cancel: appointment id=%d cannot be cancelled", id)
			return nil, ErrCannotCancel
		default:
			s.logger.Error("Cancel: failed to cancel appointment id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
		}
	}

	s.metrics.IncAppointmentsCancelled(string(cancelled.Status))

	// Событие публикуется после коммита; ошибка публикации не отменяет отмену
	if err := s.publisher.PublishAppointmentCancelled(ctx, cancelled); err != nil {
		s.logger.Warn("Cancel: failed to publish event for appointment id=%d: %v", id, err)
	}

	s.logger.Info("Cancel: appointment id=%d cancelled with status=%s", id, cancelled.Status)
	return models.FromDomainAppointment(cancelled), nil
}

// UpdateStatus изменяет статус записи (подтверждение, завершение, неявка)
// Доступно барберу записи и администратору
func (s *Service) UpdateStatus(ctx context.Context, actor *domain.User, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	s.logger.Info("UpdateStatus: updating appointment id=%d to status=%s by user=%s", id, req.Status, actor.ID)

	newStatus, err := models.ToDomainAppointmentStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for appointment id=%d", req.Status, id)
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidStatus, req.Status)
	}

	var updated *domain.Appointment
	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		appointment, err := s.appointmentRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		if !isStaffOf(actor, appointment.BarberID) {
			return ErrAccessDenied
		}

		if !canTransition(appointment.Status, newStatus) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatus, appointment.Status, newStatus)
		}

		if err := s.appointmentRepo.UpdateStatus(ctx, id, newStatus); err != nil {
			return err
		}

		updated, err = s.appointmentRepo.GetByID(ctx, id)
		return err
	})
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrAppointmentNotFound):
			s.logger.Warn("UpdateStatus: appointment id=%d not found", id)
			return nil, ErrAppointmentNotFound
		case errors.Is(err, ErrAccessDenied), errors.Is(err, ErrInvalidStatus):
			s.logger.Warn("UpdateStatus: appointment id=%d rejected: %v", id, err)
			return nil, err
		default:
			s.logger.Error("UpdateStatus: failed to update appointment id=%d: %v", id, err)
			return nil, fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
		}
	}

	s.logger.Info("UpdateStatus: appointment id=%d now %s", id, newStatus)
	return models.FromDomainAppointment(updated), nil
}

// Вспомогательные методы

func toDomainFilter(req *models.ListAppointmentsRequest) (domain.AppointmentsFilter, error) {
	filter := domain.AppointmentsFilter{
		BarberID:        req.BarberID,
		Date:            req.Date,
		IncludeInactive: req.IncludeInactive,
	}

	if req.Status != nil {
		status, err := models.ToDomainAppointmentStatus(*req.Status)
		if err != nil {
			return filter, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	return filter, nil
}

// canView владелец, барбер записи или администратор
func canView(actor *domain.User, appointment *domain.Appointment) bool {
	return appointment.UserID == actor.ID || isStaffOf(actor, appointment.BarberID)
}

// isStaffOf пользователь - этот барбер или администратор
func isStaffOf(actor *domain.User, barberID int64) bool {
	if actor.HasRole(domain.RoleAdmin) {
		return true
	}
	return actor.BarberID != nil && *actor.BarberID == barberID
}

func canTransition(from, to domain.AppointmentStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
