package create_schedule

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUser        = "отсутствует пользователь"
	msgForbidden          = "доступ запрещен"
	msgBarberNotFound     = "барбер не найден"
	msgAlreadyExists      = "расписание на эту дату уже существует"
	msgInvalidDate        = "недопустимая дата расписания"
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

// Handle POST /api/v1/schedules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("POST /schedules - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.CreateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /schedules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), user, &req)
	if err != nil {
		switch {
		case errors.Is(err, schedules.ErrAccessDenied):
			h.logger.Warn("POST /schedules - Access denied: user_id=%s", user.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, schedules.ErrBarberNotFound):
			h.logger.Warn("POST /schedules - Barber not found: user_id=%s", user.ID)
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, schedules.ErrScheduleAlreadyExists):
			h.logger.Warn("POST /schedules - Schedule already exists: date=%s", req.Date)
			handlers.RespondConflict(w, msgAlreadyExists)

		case errors.Is(err, schedules.ErrInvalidDate):
			h.logger.Warn("POST /schedules - Invalid date: date=%s", req.Date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		case errors.Is(err, schedules.ErrInvalidInput):
			h.logger.Warn("POST /schedules - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /schedules - Failed to create schedule: user_id=%s, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /schedules - Schedule created successfully: schedule_id=%d, barber_id=%d, date=%s",
		result.ID, result.BarberID, result.Date)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
