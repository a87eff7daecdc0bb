package booking_session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	sessionStore "github.com/m04kA/SMC-BarberService/internal/infra/cache/session"
	catalogRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/catalog"
	scheduleRepo "github.com/m04kA/SMC-BarberService/internal/infra/storage/schedule"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	"github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
)

// UseCase пошаговая запись клиента: дата, барбер, услуги, слоты, отправка
//
// Каждый шаг резервирует новое поколение сессии до обращения к источникам данных
// и сохраняет результат, только если за это время сессию не изменил другой запрос.
type UseCase struct {
	store              SessionStore
	barbers            BarberLister
	catalog            ServiceCatalog
	schedules          ScheduleSource
	creator            AppointmentCreator
	metrics            Metrics
	policy             slotmatcher.DurationPolicy
	advanceBookingDays int
	location           *time.Location
	timeProvider       TimeProvider
	newID              func() string
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	store SessionStore,
	barbers BarberLister,
	catalog ServiceCatalog,
	schedules ScheduleSource,
	creator AppointmentCreator,
	metrics Metrics,
	policy slotmatcher.DurationPolicy,
	advanceBookingDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		store:              store,
		barbers:            barbers,
		catalog:            catalog,
		schedules:          schedules,
		creator:            creator,
		metrics:            metrics,
		policy:             policy,
		advanceBookingDays: advanceBookingDays,
		location:           location,
		timeProvider:       &RealTimeProvider{},
		newID:              uuid.NewString,
		logger:             logger,
	}
}

// Start создает новую сессию в стадии idle
func (uc *UseCase) Start(ctx context.Context, userID string) (*Response, error) {
	session := domain.NewBookingSession(uc.newID(), userID, uc.timeProvider.Now())

	if err := uc.store.Create(ctx, session); err != nil {
		uc.logger.Error("BookingSession.Start: failed to create session for user=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: failed to create session: %v", ErrInternal, err)
	}

	uc.logger.Info("BookingSession.Start: session=%s created for user=%s", session.ID, userID)
	return &Response{Session: session}, nil
}

// Get возвращает текущее состояние сессии
func (uc *UseCase) Get(ctx context.Context, userID, sessionID string) (*Response, error) {
	session, err := uc.load(ctx, userID, sessionID, "Get")
	if err != nil {
		return nil, err
	}
	return &Response{Session: session}, nil
}

// ChooseDate выбирает дату и загружает барберов, работающих в этот день
func (uc *UseCase) ChooseDate(ctx context.Context, userID, sessionID string, date time.Time) (*Response, error) {
	date = domain.DateIn(date, uc.location)
	if err := validateDate(date, uc.timeProvider.Now(), uc.advanceBookingDays); err != nil {
		uc.logger.Warn("BookingSession.ChooseDate: date validation failed: %v", err)
		return nil, err
	}

	return uc.mutate(ctx, userID, sessionID, "ChooseDate", func(ctx context.Context, session *domain.BookingSession, now time.Time) error {
		if session.IsClosed() {
			return ErrSessionClosed
		}

		barbers, err := uc.barbers.ListByDate(ctx, date)
		if err != nil {
			return fmt.Errorf("%w: failed to list barbers: %v", ErrUpstreamFetchFailed, err)
		}

		return session.ChooseDate(date, derefBarbers(barbers), now)
	})
}

// ChooseBarber выбирает барбера и загружает его рабочий день
func (uc *UseCase) ChooseBarber(ctx context.Context, userID, sessionID string, barberID int64) (*Response, error) {
	return uc.mutate(ctx, userID, sessionID, "ChooseBarber", func(ctx context.Context, session *domain.BookingSession, now time.Time) error {
		if session.IsClosed() {
			return ErrSessionClosed
		}
		if !session.Stage.AtLeast(domain.StageDateChosen) || session.Date == nil {
			return ErrInvalidTransition
		}
		if !session.HasBarber(barberID) {
			return ErrBarberNotAvailable
		}

		schedule, err := uc.fetchSchedule(ctx, barberID, *session.Date)
		if err != nil {
			return err
		}

		return session.ChooseBarber(barberID, schedule, now)
	})
}

// ChooseServices выбирает услуги и предлагает серии слотов под них
// Рабочий день перечитывается, чтобы серии строились по свежей занятости
func (uc *UseCase) ChooseServices(ctx context.Context, userID, sessionID string, serviceIDs []int64) (*Response, error) {
	ids, err := validateServiceIDs(serviceIDs)
	if err != nil {
		uc.logger.Warn("BookingSession.ChooseServices: validation failed: %v", err)
		return nil, err
	}

	return uc.mutate(ctx, userID, sessionID, "ChooseServices", func(ctx context.Context, session *domain.BookingSession, now time.Time) error {
		if session.IsClosed() {
			return ErrSessionClosed
		}
		if !session.Stage.AtLeast(domain.StageBarberChosen) || session.BarberID == nil || session.Date == nil {
			return ErrInvalidTransition
		}

		services, err := uc.catalog.GetByIDs(ctx, ids)
		if err != nil {
			if errors.Is(err, catalogRepo.ErrServiceNotFound) {
				return fmt.Errorf("%w: %v", ErrServiceNotFound, err)
			}
			return fmt.Errorf("%w: failed to get services: %v", ErrUpstreamFetchFailed, err)
		}

		schedule, err := uc.fetchSchedule(ctx, *session.BarberID, *session.Date)
		if err != nil {
			return err
		}

		chosen := derefServices(services)
		plan := uc.policy.Propose(*schedule, chosen, now)

		if err := session.ChooseServices(chosen, plan.RequiredDuration, plan.RequiredSlots, now); err != nil {
			return err
		}
		session.Schedule = schedule

		return session.ProposeRuns(plan.RunIDs(), now)
	})
}

// SelectSlots сохраняет выбор слотов клиентом
// Выбор проверяется при отправке
func (uc *UseCase) SelectSlots(ctx context.Context, userID, sessionID string, slotIDs []int64) (*Response, error) {
	return uc.mutate(ctx, userID, sessionID, "SelectSlots", func(_ context.Context, session *domain.BookingSession, now time.Time) error {
		return session.SelectSlots(append([]int64(nil), slotIDs...), now)
	})
}

// Submit создает запись по выбору сессии
// При отказе сессия переходит в submitted/failed с сохранением выбора, ошибка возвращается вызывающему
func (uc *UseCase) Submit(ctx context.Context, userID, sessionID string) (*Response, error) {
	// 1. Резервируем поколение
	session, err := uc.begin(ctx, userID, sessionID, "Submit")
	if err != nil {
		return nil, err
	}

	if err := session.CanSubmit(); err != nil {
		uc.logger.Warn("BookingSession.Submit: session=%s cannot be submitted from stage=%s", sessionID, session.Stage)
		return nil, transitionError(err)
	}

	// 2. Создаем запись
	created, createErr := uc.creator.Execute(ctx, &create_appointment.Request{
		UserID:     session.UserID,
		BarberID:   *session.BarberID,
		Date:       *session.Date,
		ServiceIDs: session.ServiceIDs(),
		SlotIDs:    session.SelectedSlotIDs,
	})

	now := uc.timeProvider.Now()

	// 3. Фиксируем результат в сессии
	if createErr != nil {
		uc.logger.Warn("BookingSession.Submit: session=%s appointment rejected: %v", sessionID, createErr)

		if err := session.MarkSubmitFailed(submitFailureReason(createErr), now); err != nil {
			return nil, transitionError(err)
		}
		if err := uc.save(ctx, session, "Submit"); err != nil {
			return nil, err
		}
		return nil, createErr
	}

	appointment := created.Appointment
	if err := session.MarkSubmitted(appointment.ID, now); err != nil {
		return nil, transitionError(err)
	}

	// Запись уже создана: устаревшее сохранение сессии не отменяет ее
	if err := uc.save(ctx, session, "Submit"); err != nil {
		uc.logger.Warn("BookingSession.Submit: appointment id=%d created, but session=%s not saved: %v",
			appointment.ID, sessionID, err)
	}

	uc.logger.Info("BookingSession.Submit: session=%s submitted, appointment id=%d", sessionID, appointment.ID)
	return &Response{Session: session}, nil
}

// mutate выполняет шаг сессии: резервирует поколение, применяет шаг и сохраняет результат
// Если шаг вернул ошибку, сессия не сохраняется и остается в прежнем состоянии
func (uc *UseCase) mutate(
	ctx context.Context,
	userID, sessionID, op string,
	step func(ctx context.Context, session *domain.BookingSession, now time.Time) error,
) (*Response, error) {
	session, err := uc.begin(ctx, userID, sessionID, op)
	if err != nil {
		return nil, err
	}

	if err := step(ctx, session, uc.timeProvider.Now()); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrSessionClosed):
			err = transitionError(err)
			uc.logger.Warn("BookingSession.%s: session=%s at stage=%s: %v", op, sessionID, session.Stage, err)
		case errors.Is(err, ErrUpstreamFetchFailed):
			uc.logger.Error("BookingSession.%s: session=%s: %v", op, sessionID, err)
		default:
			uc.logger.Warn("BookingSession.%s: session=%s: %v", op, sessionID, err)
		}
		return nil, err
	}

	if err := uc.save(ctx, session, op); err != nil {
		return nil, err
	}

	uc.logger.Info("BookingSession.%s: session=%s now at stage=%s, generation=%d", op, sessionID, session.Stage, session.Generation)
	return &Response{Session: session}, nil
}

// begin проверяет владельца, резервирует поколение и перечитывает снимок
// Снимок читается после резервирования, чтобы шаг применялся к последнему сохраненному состоянию
func (uc *UseCase) begin(ctx context.Context, userID, sessionID, op string) (*domain.BookingSession, error) {
	if _, err := uc.load(ctx, userID, sessionID, op); err != nil {
		return nil, err
	}

	generation, err := uc.store.NextGeneration(ctx, sessionID)
	if err != nil {
		return nil, uc.storeError(err, sessionID, op)
	}

	session, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, uc.storeError(err, sessionID, op)
	}
	session.Generation = generation

	return session, nil
}

// load получает сессию и проверяет, что она принадлежит пользователю
func (uc *UseCase) load(ctx context.Context, userID, sessionID, op string) (*domain.BookingSession, error) {
	session, err := uc.store.Get(ctx, sessionID)
	if err != nil {
		return nil, uc.storeError(err, sessionID, op)
	}

	if session.UserID != userID {
		uc.logger.Warn("BookingSession.%s: user=%s is not the owner of session=%s", op, userID, sessionID)
		return nil, ErrAccessDenied
	}

	return session, nil
}

// save сохраняет сессию, если ее поколение все еще последнее
func (uc *UseCase) save(ctx context.Context, session *domain.BookingSession, op string) error {
	err := uc.store.SaveIfCurrent(ctx, session)
	if err == nil {
		return nil
	}

	if errors.Is(err, sessionStore.ErrStaleGeneration) {
		uc.metrics.IncStaleSessionResult()
		uc.logger.Warn("BookingSession.%s: session=%s generation=%d is stale, result discarded",
			op, session.ID, session.Generation)
		return ErrStaleSession
	}

	return uc.storeError(err, session.ID, op)
}

func (uc *UseCase) fetchSchedule(ctx context.Context, barberID int64, date time.Time) (*domain.Schedule, error) {
	schedule, err := uc.schedules.GetByBarberAndDate(ctx, barberID, date)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrBarberNotAvailable
		}
		return nil, fmt.Errorf("%w: failed to get schedule: %v", ErrUpstreamFetchFailed, err)
	}
	schedule.Date = domain.DateIn(schedule.Date, uc.location)
	return schedule, nil
}

func (uc *UseCase) storeError(err error, sessionID, op string) error {
	if errors.Is(err, sessionStore.ErrSessionNotFound) {
		uc.logger.Warn("BookingSession.%s: session=%s not found", op, sessionID)
		return ErrSessionNotFound
	}
	uc.logger.Error("BookingSession.%s: session store error for session=%s: %v", op, sessionID, err)
	return fmt.Errorf("%w: session store: %v", ErrInternal, err)
}
