package list_threads

import (
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
)

const (
	msgMissingUser = "отсутствует пользователь"
)

type Handler struct {
	service MessagingService
	logger  Logger
}

func NewHandler(service MessagingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/threads
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("GET /threads - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	result, err := h.service.ListThreads(r.Context(), user)
	if err != nil {
		h.logger.Error("GET /threads - Failed to list threads: user_id=%s, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
