package booking_session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-BarberService/internal/api/handlers"
	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	createAppointment "github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
	bookingSession "github.com/m04kA/SMC-BarberService/internal/usecase/booking_session"
)

const (
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDateFormat  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgSessionNotFound    = "сессия записи не найдена или истекла"
	msgForbidden          = "доступ запрещен"
	msgStaleSession       = "сессия изменилась, результат шага отброшен"
	msgUpstreamFailed     = "не удалось получить данные, попробуйте еще раз"
	msgInvalidTransition  = "шаг недоступен на текущей стадии записи"
	msgSessionClosed      = "запись уже оформлена"
	msgBarberNotAvailable = "барбер не работает в выбранную дату"
	msgServiceNotFound    = "услуга не найдена"
	msgPastDate           = "нельзя записаться на прошедшую дату"
	msgDateTooFar         = "дата записи слишком далеко в будущем"
	msgInvalidInput       = "некорректные данные шага"
	msgNoSlotsSelected    = "не выбрано ни одного слота"
	msgTooFewSlots        = "выбрано слишком мало слотов: нужно %d, выбрано %d"
	msgTooManySlots       = "выбрано слишком много слотов: нужно %d, выбрано %d"
	msgNotConsecutive     = "слоты должны идти подряд"
	msgUnknownSlot        = "выбранного слота нет в расписании"
	msgSlotNotAvailable   = "выбранные слоты уже недоступны"
	msgScheduleNotFound   = "барбер больше не работает в выбранную дату"
)

// Handler обрабатывает шаги сессии записи
// Все шаги используют один use case и одинаковое сопоставление ошибок
type Handler struct {
	useCase  BookingSessionUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase BookingSessionUseCase, location *time.Location, logger Logger) *Handler {
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Start POST /api/v1/booking-sessions
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Start(r.Context(), userID)
	if err != nil {
		h.respondError(w, "POST /booking-sessions", "", err)
		return
	}

	h.logger.Info("POST /booking-sessions - Session started: session_id=%s, user_id=%s", result.Session.ID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

// Get GET /api/v1/booking-sessions/{sessionId}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := h.identify(w, r)
	if !ok {
		return
	}

	result, err := h.useCase.Get(r.Context(), userID, sessionID)
	if err != nil {
		h.respondError(w, "GET /booking-sessions/{id}", sessionID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// ChooseDate PUT /api/v1/booking-sessions/{sessionId}/date
func (h *Handler) ChooseDate(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /booking-sessions/{id}/date"

	userID, sessionID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req ChooseDateRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	date, err := domain.ParseDate(req.Date, h.location)
	if err != nil {
		h.logger.Warn("%s - Invalid date: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidDateFormat)
		return
	}

	result, err := h.useCase.ChooseDate(r.Context(), userID, sessionID, date)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	h.logger.Info("%s - Date chosen: session_id=%s, date=%s, barbers=%d", route, sessionID, req.Date, len(result.Session.Barbers))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// ChooseBarber PUT /api/v1/booking-sessions/{sessionId}/barber
func (h *Handler) ChooseBarber(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /booking-sessions/{id}/barber"

	userID, sessionID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req ChooseBarberRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ChooseBarber(r.Context(), userID, sessionID, req.BarberID)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	h.logger.Info("%s - Barber chosen: session_id=%s, barber_id=%d", route, sessionID, req.BarberID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// ChooseServices PUT /api/v1/booking-sessions/{sessionId}/services
func (h *Handler) ChooseServices(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /booking-sessions/{id}/services"

	userID, sessionID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req ChooseServicesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.ChooseServices(r.Context(), userID, sessionID, req.ServiceIDs)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	h.logger.Info("%s - Services chosen: session_id=%s, required_slots=%d, runs=%d",
		route, sessionID, result.Session.RequiredSlots, len(result.Session.CandidateRuns))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// SelectSlots PUT /api/v1/booking-sessions/{sessionId}/slots
func (h *Handler) SelectSlots(w http.ResponseWriter, r *http.Request) {
	const route = "PUT /booking-sessions/{id}/slots"

	userID, sessionID, ok := h.identify(w, r)
	if !ok {
		return
	}

	var req SelectSlotsRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("%s - Invalid request body: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.SelectSlots(r.Context(), userID, sessionID, req.SlotIDs)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}

// Submit POST /api/v1/booking-sessions/{sessionId}/submit
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	const route = "POST /booking-sessions/{id}/submit"

	userID, sessionID, ok := h.identify(w, r)
	if !ok {
		return
	}

	result, err := h.useCase.Submit(r.Context(), userID, sessionID)
	if err != nil {
		h.respondError(w, route, sessionID, err)
		return
	}

	h.logger.Info("%s - Session submitted: session_id=%s, appointment_id=%d", route, sessionID, *result.Session.AppointmentID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func (h *Handler) identify(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return "", "", false
	}

	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		handlers.RespondNotFound(w, msgSessionNotFound)
		return "", "", false
	}

	return userID, sessionID, true
}

func (h *Handler) respondError(w http.ResponseWriter, route, sessionID string, err error) {
	var countErr *slotmatcher.WrongSlotCountError

	switch {
	case errors.Is(err, bookingSession.ErrSessionNotFound):
		h.logger.Warn("%s - Session not found: session_id=%s", route, sessionID)
		handlers.RespondNotFound(w, msgSessionNotFound)

	case errors.Is(err, bookingSession.ErrAccessDenied):
		h.logger.Warn("%s - Access denied: session_id=%s", route, sessionID)
		handlers.RespondForbidden(w, msgForbidden)

	case errors.Is(err, bookingSession.ErrStaleSession):
		h.logger.Warn("%s - Stale result discarded: session_id=%s", route, sessionID)
		handlers.RespondConflict(w, msgStaleSession)

	case errors.Is(err, bookingSession.ErrUpstreamFetchFailed):
		h.logger.Error("%s - Upstream fetch failed: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondBadGateway(w, msgUpstreamFailed)

	case errors.Is(err, bookingSession.ErrSessionClosed):
		handlers.RespondConflict(w, msgSessionClosed)

	case errors.Is(err, bookingSession.ErrInvalidTransition):
		h.logger.Warn("%s - Invalid transition: session_id=%s", route, sessionID)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, bookingSession.ErrBarberNotAvailable):
		handlers.RespondUnprocessable(w, msgBarberNotAvailable)

	case errors.Is(err, bookingSession.ErrServiceNotFound):
		handlers.RespondNotFound(w, msgServiceNotFound)

	case errors.Is(err, bookingSession.ErrInvalidDate):
		handlers.RespondBadRequest(w, msgPastDate)

	case errors.Is(err, bookingSession.ErrDateTooFarInFuture):
		handlers.RespondBadRequest(w, msgDateTooFar)

	case errors.Is(err, bookingSession.ErrInvalidInput):
		h.logger.Warn("%s - Invalid input: %v", route, err)
		handlers.RespondBadRequest(w, msgInvalidInput)

	// Отказы при отправке приходят из создания записи
	case errors.Is(err, slotmatcher.ErrNoSlotsSelected):
		handlers.RespondUnprocessable(w, msgNoSlotsSelected)

	case errors.As(err, &countErr):
		if countErr.TooFew() {
			handlers.RespondUnprocessable(w, fmt.Sprintf(msgTooFewSlots, countErr.Required, countErr.Selected))
		} else {
			handlers.RespondUnprocessable(w, fmt.Sprintf(msgTooManySlots, countErr.Required, countErr.Selected))
		}

	case errors.Is(err, slotmatcher.ErrNotConsecutive):
		handlers.RespondUnprocessable(w, msgNotConsecutive)

	case errors.Is(err, slotmatcher.ErrUnknownSlot):
		handlers.RespondUnprocessable(w, msgUnknownSlot)

	case errors.Is(err, createAppointment.ErrSlotNotAvailable):
		h.logger.Warn("%s - Slot not available: session_id=%s", route, sessionID)
		handlers.RespondConflict(w, msgSlotNotAvailable)

	case errors.Is(err, createAppointment.ErrScheduleNotFound):
		handlers.RespondNotFound(w, msgScheduleNotFound)

	case errors.Is(err, createAppointment.ErrInvalidDate):
		handlers.RespondBadRequest(w, msgPastDate)

	case errors.Is(err, createAppointment.ErrDateTooFarInFuture):
		handlers.RespondBadRequest(w, msgDateTooFar)

	default:
		h.logger.Error("%s - Failed: session_id=%s, error=%v", route, sessionID, err)
		handlers.RespondInternalError(w)
	}
}
