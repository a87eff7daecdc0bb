package get_barber_appointments

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/appointments/models"
)

// ToServiceRequest формирует фильтр из query параметров
func ToServiceRequest(barberID int64, statusStr, dateStr, includeInactiveStr string) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{
		BarberID:        &barberID,
		IncludeInactive: false, // По умолчанию только активные
	}

	if statusStr != "" {
		req.Status = &statusStr
	}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
