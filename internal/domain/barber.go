package domain

// Barber represents a barber working in the shop
type Barber struct {
	ID        int64
	UserID    string // identity provider subject
	FirstName string
	LastName  string
	Bio       *string
}

// FullName returns "FirstName LastName"
func (b *Barber) FullName() string {
	if b.LastName == "" {
		return b.FirstName
	}
	return b.FirstName + " " + b.LastName
}
