package domain

import "time"

// Service represents a catalog service (haircut, beard trim, ...)
type Service struct {
	ID              int64
	Name            string
	Description     *string
	DurationMinutes int
	Price           float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ServiceIDs returns IDs of the given services preserving order
func ServiceIDs(services []*Service) []int64 {
	ids := make([]int64, len(services))
	for i, s := range services {
		ids[i] = s.ID
	}
	return ids
}
