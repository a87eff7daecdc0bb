package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/appointments/models"
	createAppointment "github.com/m04kA/SMC-BarberService/internal/usecase/create_appointment"
)

// CreateAppointmentRequest HTTP модель запроса на создание записи
type CreateAppointmentRequest struct {
	BarberID   int64   `json:"barberId"`
	Date       string  `json:"date"` // "2025-10-15"
	ServiceIDs []int64 `json:"serviceIds"`
	SlotIDs    []int64 `json:"slotIds"`
	Notes      *string `json:"notes,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateAppointmentRequest) ToUseCaseRequest(userID string, loc *time.Location) (*createAppointment.Request, error) {
	date, err := domain.ParseDate(r.Date, loc)
	if err != nil {
		return nil, err
	}

	return &createAppointment.Request{
		UserID:     userID,
		BarberID:   r.BarberID,
		Date:       date,
		ServiceIDs: r.ServiceIDs,
		SlotIDs:    r.SlotIDs,
		Notes:      r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *createAppointment.Response) *models.AppointmentResponse {
	return models.FromDomainAppointment(resp.Appointment)
}
