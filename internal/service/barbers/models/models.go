package models

import "github.com/m04kA/SMC-BarberService/internal/domain"

// CreateBarberRequest запрос на регистрацию барбера
type CreateBarberRequest struct {
	UserID    string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Bio       *string `json:"bio,omitempty"`
}

// BarberResponse ответ с данными барбера
type BarberResponse struct {
	ID        int64   `json:"id"`
	UserID    string  `json:"userId"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	FullName  string  `json:"fullName"`
	Bio       *string `json:"bio,omitempty"`
}

// BarberListResponse ответ со списком барберов
type BarberListResponse struct {
	Barbers []BarberResponse `json:"barbers"`
}

// FromDomainBarber конвертирует domain модель в DTO
func FromDomainBarber(b *domain.Barber) *BarberResponse {
	if b == nil {
		return nil
	}
	return &BarberResponse{
		ID:        b.ID,
		UserID:    b.UserID,
		FirstName: b.FirstName,
		LastName:  b.LastName,
		FullName:  b.FullName(),
		Bio:       b.Bio,
	}
}

// FromDomainBarberList конвертирует список domain моделей в DTO
func FromDomainBarberList(barbers []*domain.Barber) *BarberListResponse {
	resp := &BarberListResponse{
		Barbers: make([]BarberResponse, 0, len(barbers)),
	}
	for _, b := range barbers {
		resp.Barbers = append(resp.Barbers, *FromDomainBarber(b))
	}
	return resp
}
