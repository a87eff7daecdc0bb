package get_candidate_runs

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/domain"
	getCandidateRuns "github.com/m04kA/SMC-BarberService/internal/usecase/get_candidate_runs"
)

const (
	msgInvalidBarberID   = "некорректный ID барбера"
	msgMissingDate       = "дата обязательна"
	msgInvalidDate       = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidServiceIDs = "некорректный список услуг"
	msgMissingServiceIDs = "нужно выбрать хотя бы одну услугу"
	msgBarberNotFound    = "барбер не найден"
	msgServiceNotFound   = "услуга не найдена"
	msgScheduleNotFound  = "барбер не работает в выбранную дату"
	msgPastDate          = "дата в прошлом"
	msgDateTooFar        = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase  GetCandidateRunsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetCandidateRunsUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/barbers/{barberId}/candidate-runs
// Query params: date (required, YYYY-MM-DD), serviceIds (required, "1,2")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	barberID, err := handlers.PathInt64(r, "barberId")
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/candidate-runs - Invalid barber ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBarberID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /barbers/{id}/candidate-runs - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := domain.ParseDate(dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/candidate-runs - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	serviceIDs, err := handlers.QueryInt64List(r, "serviceIds")
	if err != nil {
		h.logger.Warn("GET /barbers/{id}/candidate-runs - Invalid service IDs: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}
	if len(serviceIDs) == 0 {
		h.logger.Warn("GET /barbers/{id}/candidate-runs - Missing service IDs")
		handlers.RespondBadRequest(w, msgMissingServiceIDs)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getCandidateRuns.Request{
		BarberID:   barberID,
		Date:       date,
		ServiceIDs: serviceIDs,
	})
	if err != nil {
		switch {
		case errors.Is(err, getCandidateRuns.ErrBarberNotFound):
			h.logger.Warn("GET /barbers/{id}/candidate-runs - Barber not found: barber_id=%d", barberID)
			handlers.RespondNotFound(w, msgBarberNotFound)

		case errors.Is(err, getCandidateRuns.ErrServiceNotFound):
			h.logger.Warn("GET /barbers/{id}/candidate-runs - Service not found: service_ids=%v", serviceIDs)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, getCandidateRuns.ErrScheduleNotFound):
			h.logger.Warn("GET /barbers/{id}/candidate-runs - Schedule not found: barber_id=%d, date=%s", barberID, dateStr)
			handlers.RespondNotFound(w, msgScheduleNotFound)

		case errors.Is(err, getCandidateRuns.ErrInvalidDate):
			h.logger.Warn("GET /barbers/{id}/candidate-runs - Date in the past: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgPastDate)

		case errors.Is(err, getCandidateRuns.ErrDateTooFarInFuture):
			h.logger.Warn("GET /barbers/{id}/candidate-runs - Date too far in future: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getCandidateRuns.ErrInvalidInput):
			h.logger.Warn("GET /barbers/{id}/candidate-runs - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidServiceIDs)

		default:
			h.logger.Error("GET /barbers/{id}/candidate-runs - Failed to get candidate runs: barber_id=%d, error=%v", barberID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /barbers/{id}/candidate-runs - Found %d runs: barber_id=%d, date=%s", len(result.Runs), barberID, dateStr)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
