package models

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// Request модели

// CreateScheduleRequest запрос на создание рабочего дня
// AvailableSlotIDs == nil открывает все слоты дня
type CreateScheduleRequest struct {
	BarberID         *int64  `json:"barberId,omitempty"` // для барбера по умолчанию его собственный ID
	Date             string  `json:"date"`               // "2025-10-15"
	AvailableSlotIDs []int64 `json:"availableSlotIds,omitempty"`
}

// SlotAvailability доступность одного слота
type SlotAvailability struct {
	ID          int64 `json:"id"`
	IsAvailable bool  `json:"isAvailable"`
}

// UpdateAvailabilityRequest запрос на изменение доступности слотов
type UpdateAvailabilityRequest struct {
	Slots []SlotAvailability `json:"slots"`
}

// ListSchedulesRequest фильтр списка расписаний
type ListSchedulesRequest struct {
	Date     *time.Time
	BarberID *int64
}

// Response модели

// SlotResponse ответ с данными слота
type SlotResponse struct {
	ID          int64  `json:"id"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsAvailable bool   `json:"isAvailable"`
	IsBooked    bool   `json:"isBooked"`
}

// ScheduleResponse ответ с данными рабочего дня
type ScheduleResponse struct {
	ID               int64          `json:"id"`
	BarberID         int64          `json:"barberId"`
	BarberName       string         `json:"barberName"`
	Date             string         `json:"date"`
	AppointmentCount int            `json:"appointmentCount"`
	Slots            []SlotResponse `json:"slots"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// ScheduleListResponse ответ со списком рабочих дней
type ScheduleListResponse struct {
	Schedules []ScheduleResponse `json:"schedules"`
}

// FromDomainSchedule конвертирует domain модель в DTO
func FromDomainSchedule(s *domain.Schedule) *ScheduleResponse {
	if s == nil {
		return nil
	}

	resp := &ScheduleResponse{
		ID:               s.ID,
		BarberID:         s.BarberID,
		BarberName:       s.BarberName,
		Date:             s.Date.Format(domain.DateFormat),
		AppointmentCount: s.AppointmentCount,
		Slots:            FromDomainSlots(s.Slots),
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}
	return resp
}

// FromDomainSlots конвертирует слоты в DTO
func FromDomainSlots(slots []domain.Slot) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, slot := range slots {
		result = append(result, SlotResponse{
			ID:          slot.ID,
			StartTime:   slot.StartTime.String(),
			EndTime:     slot.EndTime.String(),
			IsAvailable: slot.IsAvailable,
			IsBooked:    slot.IsBooked,
		})
	}
	return result
}

// FromDomainScheduleList конвертирует список domain моделей в DTO
func FromDomainScheduleList(schedules []*domain.Schedule) *ScheduleListResponse {
	resp := &ScheduleListResponse{
		Schedules: make([]ScheduleResponse, 0, len(schedules)),
	}
	for _, s := range schedules {
		resp.Schedules = append(resp.Schedules, *FromDomainSchedule(s))
	}
	return resp
}
