package create_barber

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/service/barbers"
	"github.com/m04kA/SMC-BarberService/internal/service/barbers/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные барбера"
	msgAlreadyExists      = "пользователь уже зарегистрирован как барбер"
)

type Handler struct {
	service BarberService
	logger  Logger
}

func NewHandler(service BarberService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/barbers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBarberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /barbers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, barbers.ErrInvalidInput):
			h.logger.Warn("POST /barbers - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, barbers.ErrBarberAlreadyExists):
			h.logger.Warn("POST /barbers - Barber already exists: user_id=%s", req.UserID)
			handlers.RespondConflict(w, msgAlreadyExists)

		default:
			h.logger.Error("POST /barbers - Failed to create barber: error=%v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /barbers - Barber created successfully: barber_id=%d, user_id=%s", result.ID, result.UserID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
