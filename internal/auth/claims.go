package auth

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// RealmAccess роли пользователя в realm identity provider
type RealmAccess struct {
	Roles []string `json:"roles"`
}

// Claims claims access токена identity provider
type Claims struct {
	Email             string      `json:"email"`
	GivenName         string      `json:"given_name"`
	FamilyName        string      `json:"family_name"`
	PreferredUsername string      `json:"preferred_username"`
	PhoneNumber       string      `json:"phone_number,omitempty"`
	RealmAccess       RealmAccess `json:"realm_access"`
	BarberID          *int64      `json:"barber_id,omitempty"`
	jwt.RegisteredClaims
}

// Roles возвращает известные сервису роли
// Пользователь без ролей считается клиентом
func (c *Claims) Roles() []domain.Role {
	roles := make([]domain.Role, 0, len(c.RealmAccess.Roles))
	for _, r := range c.RealmAccess.Roles {
		switch role := domain.Role(r); role {
		case domain.RoleCustomer, domain.RoleBarber, domain.RoleAdmin:
			roles = append(roles, role)
		}
	}
	if len(roles) == 0 {
		roles = append(roles, domain.RoleCustomer)
	}
	return roles
}

// ToUser собирает пользователя из claims
func (c *Claims) ToUser() *domain.User {
	user := &domain.User{
		ID:        c.Subject,
		Email:     c.Email,
		FirstName: c.GivenName,
		LastName:  c.FamilyName,
		Roles:     c.Roles(),
		BarberID:  c.BarberID,
	}
	if c.PhoneNumber != "" {
		phone := c.PhoneNumber
		user.Phone = &phone
	}
	return user
}
