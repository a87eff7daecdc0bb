package get_me

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/service/users"
)

const (
	msgMissingUser  = "отсутствует пользователь"
	msgUnauthorized = "токен отклонен провайдером"
)

type Handler struct {
	service UserService
	logger  Logger
}

func NewHandler(service UserService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("GET /users/me - Missing user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}
	token, _ := middleware.GetAccessToken(r.Context())

	profile, err := h.service.GetMe(r.Context(), user, token)
	if err != nil {
		if errors.Is(err, users.ErrUnauthorized) {
			h.logger.Warn("GET /users/me - Token rejected by provider: user_id=%s", user.ID)
			handlers.RespondUnauthorized(w, msgUnauthorized)
			return
		}
		h.logger.Error("GET /users/me - Failed to get profile: user_id=%s, error=%v", user.ID, err)
		handlers.RespondInternalError(w)
		return
	}

	if profile.Degraded {
		h.logger.Warn("GET /users/me - Served degraded profile: user_id=%s", user.ID)
	}
	handlers.RespondJSON(w, http.StatusOK, profile)
}
