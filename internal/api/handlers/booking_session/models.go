package booking_session

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	bookingSession "github.com/m04kA/SMC-BarberService/internal/usecase/booking_session"
)

// Request модели

// ChooseDateRequest шаг выбора даты
type ChooseDateRequest struct {
	Date string `json:"date"` // "2025-10-15"
}

// ChooseBarberRequest шаг выбора барбера
type ChooseBarberRequest struct {
	BarberID int64 `json:"barberId"`
}

// ChooseServicesRequest шаг выбора услуг
type ChooseServicesRequest struct {
	ServiceIDs []int64 `json:"serviceIds"`
}

// SelectSlotsRequest шаг выбора слотов
type SelectSlotsRequest struct {
	SlotIDs []int64 `json:"slotIds"`
}

// Response модели

// BarberResponse барбер, работающий в выбранную дату
type BarberResponse struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
}

// ServiceResponse выбранная услуга
type ServiceResponse struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	DurationMinutes int     `json:"durationMinutes"`
	Price           float64 `json:"price"`
}

// SlotResponse слот рабочего дня барбера
type SlotResponse struct {
	ID          int64  `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
	IsBooked    bool   `json:"isBooked"`
}

// SessionResponse состояние сессии записи
type SessionResponse struct {
	ID         string `json:"id"`
	Stage      string `json:"stage"`
	Generation int64  `json:"generation"`

	Date       *string          `json:"date,omitempty"`
	Barbers    []BarberResponse `json:"barbers"`
	BarberID   *int64           `json:"barberId,omitempty"`
	ScheduleID *int64           `json:"scheduleId,omitempty"`
	Slots      []SlotResponse   `json:"slots"`

	Services         []ServiceResponse `json:"services"`
	RequiredDuration int               `json:"requiredDuration"`
	RequiredSlots    int               `json:"requiredSlots"`
	CandidateRuns    [][]int64         `json:"candidateRuns"`
	SelectedSlotIDs  []int64           `json:"selectedSlotIds"`

	AppointmentID *int64 `json:"appointmentId,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	LastError     string `json:"lastError,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *bookingSession.Response) *SessionResponse {
	s := resp.Session

	result := &SessionResponse{
		ID:               s.ID,
		Stage:            string(s.Stage),
		Generation:       s.Generation,
		Barbers:          make([]BarberResponse, 0, len(s.Barbers)),
		BarberID:         s.BarberID,
		Slots:            []SlotResponse{},
		Services:         make([]ServiceResponse, 0, len(s.Services)),
		RequiredDuration: s.RequiredDuration,
		RequiredSlots:    s.RequiredSlots,
		CandidateRuns:    s.CandidateRuns,
		SelectedSlotIDs:  s.SelectedSlotIDs,
		AppointmentID:    s.AppointmentID,
		Outcome:          string(s.Outcome),
		LastError:        s.LastError,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	if result.CandidateRuns == nil {
		result.CandidateRuns = [][]int64{}
	}
	if result.SelectedSlotIDs == nil {
		result.SelectedSlotIDs = []int64{}
	}

	if s.Date != nil {
		date := s.Date.Format(domain.DateFormat)
		result.Date = &date
	}

	for i := range s.Barbers {
		result.Barbers = append(result.Barbers, BarberResponse{
			ID:       s.Barbers[i].ID,
			FullName: s.Barbers[i].FullName(),
		})
	}

	if s.Schedule != nil {
		result.ScheduleID = &s.Schedule.ID
		for _, slot := range s.Schedule.Slots {
			result.Slots = append(result.Slots, SlotResponse{
				ID:          slot.ID,
				StartTime:   slot.StartTime.String(),
				EndTime:     slot.EndTime.String(),
				IsAvailable: slot.IsAvailable,
				IsBooked:    slot.IsBooked,
			})
		}
	}

	for _, svc := range s.Services {
		result.Services = append(result.Services, ServiceResponse{
			ID:              svc.ID,
			Name:            svc.Name,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}

	return result
}
