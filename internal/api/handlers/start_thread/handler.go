package start_thread

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
)

const (
	msgMissingUser        = "отсутствует пользователь"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidPeer        = "некорректный собеседник"
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

// Handle POST /api/v1/threads
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("POST /threads - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.StartThreadRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /threads - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	thread, err := h.service.StartThread(r.Context(), user, &req)
	if err != nil {
		if errors.Is(err, messaging.ErrInvalidInput) {
			h.logger.Warn("POST /threads - Invalid input: user_id=%s, %v", user.ID, err)
			handlers.RespondBadRequest(w, msgInvalidPeer)
			return
		}
		h.logger.Error("POST /threads - Failed to start thread: user_id=%s, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /threads - Thread ready: thread_id=%d, user_id=%s", thread.ID, user.ID)
	handlers.RespondJSON(w, http.StatusOK, thread)
}
