package list_messages

import (
	"strconv"

	"github.com/m04kA/SMC-BarberService/internal/service/messaging/models"
)

// ToServiceRequest формирует запрос страницы из query параметров
func ToServiceRequest(threadID int64, beforeStr, limitStr string) (*models.ListMessagesRequest, error) {
	req := &models.ListMessagesRequest{ThreadID: threadID}

	if beforeStr != "" {
		before, err := strconv.ParseInt(beforeStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.Before = &before
	}

	if limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			return nil, err
		}
		req.Limit = limit
	}

	return req, nil
}
