package get_user_appointments

import (
	"fmt"
	"strconv"

	"github.com/m04kA/SMC-BarberService/internal/service/appointments/models"
)

// ToServiceRequest формирует фильтр из query параметров
func ToServiceRequest(statusStr, includeInactiveStr string) (*models.ListAppointmentsRequest, error) {
	// История клиента по умолчанию включает отмененные и завершенные записи
	req := &models.ListAppointmentsRequest{IncludeInactive: true}

	if statusStr != "" {
		req.Status = &statusStr
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
