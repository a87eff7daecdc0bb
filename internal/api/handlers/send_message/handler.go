package send_message

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging"
	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
)

const (
	msgInvalidThreadID    = "некорректный ID треда"
	msgMissingUser        = "отсутствует пользователь"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidText        = "текст сообщения пустой или слишком длинный"
	msgNotFound           = "тред не найден"
	msgForbidden          = "доступ запрещен"
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

// Handle POST /api/v1/threads/{threadId}/messages
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	threadID, err := handlers.PathInt64(r, "threadId")
	if err != nil {
		h.logger.Warn("POST /threads/{id}/messages - Invalid thread ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidThreadID)
		return
	}

	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("POST /threads/{id}/messages - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var req models.SendMessageRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /threads/{id}/messages - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	message, err := h.service.SendMessage(r.Context(), user, threadID, &req)
	if err != nil {
		switch {
		case errors.Is(err, messaging.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidText)

		case errors.Is(err, messaging.ErrThreadNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, messaging.ErrAccessDenied):
			h.logger.Warn("POST /threads/{id}/messages - Access denied: thread_id=%d, user_id=%s", threadID, user.ID)
			handlers.RespondForbidden(w, msgForbidden)

		default:
			h.logger.Error("POST /threads/{id}/messages - Failed to send message: thread_id=%d, error=%v", threadID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /threads/{id}/messages - Message sent: message_id=%d, thread_id=%d", message.ID, threadID)
	handlers.RespondJSON(w, http.StatusCreated, message)
}
