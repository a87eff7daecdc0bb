package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Schedule represents a barber's working day split into slots
type Schedule struct {
	ID               int64
	BarberID         int64
	BarberName       string // denormalized for listings
	Date             time.Time
	Slots            []Slot // ordered by ID
	AppointmentCount int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SlotByID returns the slot with the given ordinal ID
func (s *Schedule) SlotByID(id int64) (Slot, bool) {
	for _, slot := range s.Slots {
		if slot.ID == id {
			return slot, true
		}
	}
	return Slot{}, false
}

// HasBookedSlots returns true if any slot is held by an appointment
func (s *Schedule) HasBookedSlots() bool {
	for _, slot := range s.Slots {
		if slot.IsBooked {
			return true
		}
	}
	return false
}

// GenerateDaySlots builds the standard working day grid (09:00-18:00, 30 min)
// Slots listed in available are marked as available, the rest are closed.
// A nil available map opens every slot.
func GenerateDaySlots(available map[int64]bool) ([]Slot, error) {
	slots := make([]Slot, 0, SlotsPerDay)

	current := types.TimeString(WorkdayStart)
	for i := int64(0); i < SlotsPerDay; i++ {
		end, err := current.AddMinutes(SlotDurationMinutes)
		if err != nil {
			return nil, err
		}

		isAvailable := true
		if available != nil {
			isAvailable = available[i]
		}

		slots = append(slots, Slot{
			ID:          i,
			StartTime:   current,
			EndTime:     end,
			IsAvailable: isAvailable,
		})
		current = end
	}

	return slots, nil
}

// ScheduleFilter filter for schedule listings
type ScheduleFilter struct {
	Date     *time.Time
	BarberID *int64
}
