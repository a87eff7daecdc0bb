package booking_session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberService/internal/api/middleware"
	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/slotmatcher"
	bookingSession "github.com/m04kA/SMC-BarberService/internal/usecase/booking_session"
	"github.com/m04kA/SMC-BarberService/pkg/logger"
)

var moscow = time.FixedZone("MSK", 3*60*60)

type fakeUseCase struct {
	err      error
	date     time.Time
	barberID int64
}

func (f *fakeUseCase) session(id string) (*bookingSession.Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	appointmentID := int64(9)
	return &bookingSession.Response{Session: &domain.BookingSession{
		ID:            id,
		UserID:        "user-1",
		Stage:         domain.StageSubmitted,
		Outcome:       domain.OutcomePending,
		AppointmentID: &appointmentID,
		Barbers:       []domain.Barber{{ID: 7, FirstName: "Oleg", LastName: "Ivanov"}},
	}}, nil
}

func (f *fakeUseCase) Start(_ context.Context, _ string) (*bookingSession.Response, error) {
	return f.session("new")
}

func (f *fakeUseCase) Get(_ context.Context, _, id string) (*bookingSession.Response, error) {
	return f.session(id)
}

func (f *fakeUseCase) ChooseDate(_ context.Context, _, id string, date time.Time) (*bookingSession.Response, error) {
	f.date = date
	return f.session(id)
}

func (f *fakeUseCase) ChooseBarber(_ context.Context, _, id string, barberID int64) (*bookingSession.Response, error) {
	f.barberID = barberID
	return f.session(id)
}

func (f *fakeUseCase) ChooseServices(_ context.Context, _, id string, _ []int64) (*bookingSession.Response, error) {
	return f.session(id)
}

func (f *fakeUseCase) SelectSlots(_ context.Context, _, id string, _ []int64) (*bookingSession.Response, error) {
	return f.session(id)
}

func (f *fakeUseCase) Submit(_ context.Context, _, id string) (*bookingSession.Response, error) {
	return f.session(id)
}

func newRouter(uc *fakeUseCase) *mux.Router {
	h := NewHandler(uc, moscow, logger.NewNop())

	router := mux.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := middleware.WithUser(r.Context(), &domain.User{ID: "user-1"}, "token")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	})
	router.HandleFunc("/booking-sessions", h.Start).Methods(http.MethodPost)
	router.HandleFunc("/booking-sessions/{sessionId}", h.Get).Methods(http.MethodGet)
	router.HandleFunc("/booking-sessions/{sessionId}/date", h.ChooseDate).Methods(http.MethodPut)
	router.HandleFunc("/booking-sessions/{sessionId}/barber", h.ChooseBarber).Methods(http.MethodPut)
	router.HandleFunc("/booking-sessions/{sessionId}/submit", h.Submit).Methods(http.MethodPost)
	return router
}

func serve(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Steps(t *testing.T) {
	uc := &fakeUseCase{}
	router := newRouter(uc)

	rec := serve(router, http.MethodPost, "/booking-sessions", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(router, http.MethodPut, "/booking-sessions/abc/date", `{"date":"2025-03-11"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, moscow), uc.date)

	rec = serve(router, http.MethodPut, "/booking-sessions/abc/barber", `{"barberId":7}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), uc.barberID)

	rec = serve(router, http.MethodPost, "/booking-sessions/abc/submit", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp SessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, "submitted", resp.Stage)
	assert.Equal(t, "pending", resp.Outcome)
	require.NotNil(t, resp.AppointmentID)
	assert.Equal(t, int64(9), *resp.AppointmentID)
	require.Len(t, resp.Barbers, 1)
	assert.Equal(t, "Oleg Ivanov", resp.Barbers[0].FullName)
	assert.Empty(t, resp.CandidateRuns)
}

func TestHandler_InvalidDate(t *testing.T) {
	rec := serve(newRouter(&fakeUseCase{}), http.MethodPut, "/booking-sessions/abc/date", `{"date":"tomorrow"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", bookingSession.ErrSessionNotFound, http.StatusNotFound},
		{"foreign session", bookingSession.ErrAccessDenied, http.StatusForbidden},
		{"stale", bookingSession.ErrStaleSession, http.StatusConflict},
		{"upstream", bookingSession.ErrUpstreamFetchFailed, http.StatusBadGateway},
		{"transition", bookingSession.ErrInvalidTransition, http.StatusConflict},
		{"closed", bookingSession.ErrSessionClosed, http.StatusConflict},
		{"barber off", bookingSession.ErrBarberNotAvailable, http.StatusUnprocessableEntity},
		{"wrong count", &slotmatcher.WrongSlotCountError{Selected: 1, Required: 3}, http.StatusUnprocessableEntity},
		{"internal", bookingSession.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(newRouter(&fakeUseCase{err: tt.err}), http.MethodGet, "/booking-sessions/abc", "")
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
