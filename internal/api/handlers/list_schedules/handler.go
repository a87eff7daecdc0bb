package list_schedules

import (
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
)

const (
	msgInvalidParams = "некорректные параметры запроса"
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

// Handle GET /api/v1/schedules
// Query params: date, barberId (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceReq, err := ToServiceRequest(r.URL.Query().Get("date"), r.URL.Query().Get("barberId"))
	if err != nil {
		h.logger.Warn("GET /schedules - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		h.logger.Error("GET /schedules - Failed to list schedules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /schedules - Schedules retrieved successfully: count=%d", len(result.Schedules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
