package get_user_appointments

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/appointments"
)

const (
	msgMissingUser   = "отсутствует пользователь"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/appointments
// Query params: status, includeInactive (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me/appointments - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	serviceReq, err := ToServiceRequest(r.URL.Query().Get("status"), r.URL.Query().Get("includeInactive"))
	if err != nil {
		h.logger.Warn("GET /users/me/appointments - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.ListForUser(r.Context(), user, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /users/me/appointments - Invalid filter: user_id=%s, %v", user.ID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("GET /users/me/appointments - Failed to get appointments: user_id=%s, error=%v", user.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/me/appointments - Appointments retrieved successfully: user_id=%s, count=%d",
		user.ID, len(result.Appointments))
	handlers.RespondJSON(w, http.StatusOK, result)
}
