package models

import "github.com/m04kA/SMC-BarberService/internal/domain"

// UserResponse профиль текущего пользователя
type UserResponse struct {
	ID        string   `json:"id"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Phone     *string  `json:"phone,omitempty"`
	Roles     []string `json:"roles"`
	BarberID  *int64   `json:"barberId,omitempty"`

	// Degraded профиль собран только из токена, провайдер недоступен
	Degraded bool `json:"degraded"`
}

// FromDomainUser конвертирует domain модель в DTO
func FromDomainUser(u *domain.User, degraded bool) *UserResponse {
	roles := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, string(r))
	}

	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Phone:     u.Phone,
		Roles:     roles,
		BarberID:  u.BarberID,
		Degraded:  degraded,
	}
}
