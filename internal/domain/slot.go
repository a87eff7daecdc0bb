package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Slot represents a fixed 30-minute interval of a barber's working day
// ID is the ordinal position within the day (0..SlotsPerDay-1): consecutive slots have consecutive IDs
type Slot struct {
	ID          int64
	ScheduleID  int64
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool // barber marked the slot as open
	IsBooked    bool // slot is held by an appointment
}

// StartsAt returns the absolute start moment of the slot on the given date
func (s Slot) StartsAt(date time.Time) time.Time {
	return s.StartTime.OnDate(date)
}

// IsInFuture returns true if the slot starts at or after asOf
func (s Slot) IsInFuture(date, asOf time.Time) bool {
	return !s.StartsAt(date).Before(asOf)
}

// IsOpen returns true if the slot can be offered to a customer (ignoring time)
func (s Slot) IsOpen() bool {
	return s.IsAvailable && !s.IsBooked
}

// Follows returns true if s directly follows prev in the working day
func (s Slot) Follows(prev Slot) bool {
	return s.ID == prev.ID+1
}

// SlotIDs returns IDs of the given slots preserving order
func SlotIDs(slots []Slot) []int64 {
	ids := make([]int64, len(slots))
	for i, slot := range slots {
		ids[i] = slot.ID
	}
	return ids
}
