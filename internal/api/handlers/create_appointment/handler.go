package create_appointment

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	createAppointment "github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgBarberNotFound     = "барбер не найден"
	msgServiceNotFound    = "услуга не найдена"
	msgScheduleNotFound   = "барбер не работает в выбранную дату"
	msgInvalidBookingDate = "нельзя записаться на прошедшую дату"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgSlotNotAvailable   = "выбранные слоты уже недоступны"
	msgInvalidInput       = "некорректные данные записи"
	msgNoSlotsSelected    = "не выбрано ни одного слота"
	msgTooFewSlots        = "выбрано слишком мало слотов: нужно %d, выбрано %d"
	msgTooManySlots       = "выбрано слишком много слотов: нужно %d, выбрано %d"
	msgNotConsecutive     = "слоты должны идти подряд"
	msgUnknownSlot        = "выбранного слота нет в расписании"
)

type Handler struct {
	useCase  CreateAppointmentUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateAppointmentUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, h.location)
	if err != nil {
		h.logger.Warn("POST /appointments - Failed to parse date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		h.respondError(w, err, userID, req.BarberID)
		return
	}

	h.logger.Info("POST /appointments - Appointment created successfully: appointment_id=%d, user_id=%s, barber_id=%d",
		result.Appointment.ID, userID, req.BarberID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) respondError(w http.ResponseWriter, err error, userID string, barberID int64) {
	var countErr *slotmatcher.WrongSlotCountError

	switch {
	case errors.Is(err, slotmatcher.ErrNoSlotsSelected):
		h.logger.Warn("POST /appointments - No slots selected: user_id=%s", userID)
		handlers.RespondUnprocessable(w, msgNoSlotsSelected)

	case errors.As(err, &countErr):
		h.logger.Warn("POST /appointments - Wrong slot count: user_id=%s, %v", userID, err)
		if countErr.TooFew() {
			handlers.RespondUnprocessable(w, fmt.Sprintf(msgTooFewSlots, countErr.Required, countErr.Selected))
		} else {
			handlers.RespondUnprocessable(w, fmt.Sprintf(msgTooManySlots, countErr.Required, countErr.Selected))
		}

	case errors.Is(err, slotmatcher.ErrNotConsecutive):
		h.logger.Warn("POST /appointments - Slots not consecutive: user_id=%s", userID)
		handlers.RespondUnprocessable(w, msgNotConsecutive)

	case errors.Is(err, slotmatcher.ErrUnknownSlot):
		h.logger.Warn("POST /appointments - Unknown slot: user_id=%s", userID)
		handlers.RespondUnprocessable(w, msgUnknownSlot)

	case errors.Is(err, createAppointment.ErrSlotNotAvailable):
		h.logger.Warn("POST /appointments - Slot not available: user_id=%s, barber_id=%d", userID, barberID)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, createAppointment.ErrBarberNotFound):
		h.logger.Warn("POST /appointments - Barber not found: barber_id=%d", barberID)
		handlers.RespondNotFound(w, msgBarberNotFound)

	case errors.Is(err, createAppointment.ErrServiceNotFound):
		h.logger.Warn("POST /appointments - Service not found: user_id=%s", userID)
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, createAppointment.ErrScheduleNotFound):
		h.logger.Warn("POST /appointments - Schedule not found: barber_id=%d", barberID)
		handlers.RespondNotFound(w, msgScheduleNotFound)

	case errors.Is(err, createAppointment.ErrInvalidDate):
		h.logger.Warn("POST /appointments - Date in the past: user_id=%s", userID)
		handlers.RespondBadRequest(w, msgInvalidBookingDate)

	case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
		h.logger.Warn("POST /appointments - Date too far in future: user_id=%s", userID)
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, createAppointment.ErrInvalidInput):
		h.logger.Warn("POST /appointments - Invalid input: user_id=%s, %v", userID, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	default:
		h.logger.Error("POST /appointments - Failed to create appointment: user_id=%s, barber_id=%d, error=%v",
			userID, barberID, err)
		handlers.RespondInternalError(w)
	}
}
