package list_messages

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging"
)

const (
	msgInvalidThreadID = "некорректный ID треда"
	msgMissingUser     = "отсутствует пользователь"
	msgInvalidParams   = "некорректные параметры запроса"
	msgNotFound        = "тред не найден"
	msgForbidden       = "доступ запрещен"
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

// Handle GET /api/v1/threads/{threadId}/messages
// Query params: before, limit (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	threadID, err := handlers.PathInt64(r, "threadId")
	if err != nil {
		h.logger.Warn("GET /threads/{id}/messages - Invalid thread ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidThreadID)
		return
	}

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("GET /threads/{id}/messages - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	serviceReq, err := ToServiceRequest(threadID, r.URL.Query().Get("before"), r.URL.Query().Get("limit"))
	if err != nil {
		h.logger.Warn("GET /threads/{id}/messages - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	page, err := h.service.ListMessages(r.Context(), user, serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, messaging.ErrThreadNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, messaging.ErrAccessDenied):
			h.logger.Warn("GET /threads/{id}/messages - Access denied: thread_id=%d, user_id=%s", threadID, user.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("GET /threads/{id}/messages - Failed to list messages: thread_id=%d, error=%v", threadID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, page)
}
