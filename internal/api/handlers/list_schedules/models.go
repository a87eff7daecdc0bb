package list_schedules

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/internal/service/schedules/models"
)

// ToServiceRequest формирует фильтр из query параметров
func ToServiceRequest(dateStr, barberIDStr string) (*models.ListSchedulesRequest, error) {
	req := &models.ListSchedulesRequest{}

	if dateStr != "" {
		date, err := time.Parse(domain.DateFormat, dateStr)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}

	if barberIDStr != "" {
		barberID, err := strconv.ParseInt(barberIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.BarberID = &barberID
	}

	return req, nil
}
