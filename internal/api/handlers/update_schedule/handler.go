package update_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules/models"
)

const (
	msgInvalidScheduleID  = "некорректный ID расписания"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUser        = "отсутствует пользователь"
	msgNotFound           = "расписание не найдено"
	msgForbidden          = "доступ запрещен"
	msgSlotNotFound       = "слот не найден"
	msgSlotBooked         = "нельзя закрыть занятый слот"
	msgInvalidInput       = "некорректные данные расписания"
)

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/schedules/{scheduleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	scheduleID, err := handlers.PathInt64(r, "scheduleId")
	if err != nil {
		h.logger.Warn("PUT /schedules/{id} - Invalid schedule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidScheduleID)
		return
	}

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("PUT /schedules/{id} - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.UpdateAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /schedules/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateAvailability(r.Context(), user, scheduleID, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrScheduleNotFound):
			h.logger.Warn("PUT /schedules/{id} - Schedule not found: schedule_id=%d", scheduleID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("PUT /schedules/{id} - Access denied: schedule_id=%d, user_id=%s", scheduleID, user.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrSlotNotFound):
			h.logger.Warn("PUT /schedules/{id} - Slot not found: %v", err)
			handlers.RespondBadRequest(w, msgSlotNotFound)

		case errors.Is(err, schedules.ErrSlotBooked):
			h.logger.Warn("PUT /schedules/{id} - Slot is booked: %v", err)
			handlers.RespondConflict(w, msgSlotBooked)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("PUT /schedules/{id} - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("PUT /schedules/{id} - Failed to update schedule: schedule_id=%d, error=%v", scheduleID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /schedules/{id} - Schedule updated successfully: schedule_id=%d", scheduleID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
