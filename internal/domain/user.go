package domain

// Role user role issued by the identity provider
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBarber   Role = "barber"
	RoleAdmin    Role = "admin"
)

// User represents the authenticated user
type User struct {
	ID        string // identity provider subject
	Email     string
	FirstName string
	LastName  string
	Phone     *string
	Roles     []Role
	BarberID  *int64 // set when the user is a barber
}

// HasRole returns true if the user has the role
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff returns true for barbers and admins
func (u *User) IsStaff() bool {
	return u.HasRole(RoleBarber) || u.HasRole(RoleAdmin)
}
