package session

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// sessionRecord представление сессии в Redis
type sessionRecord struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Generation int64  `json:"generation"`
	Stage      string `json:"stage"`

	Date     *string         `json:"date,omitempty"`
	Barbers  []barberRecord  `json:"barbers,omitempty"`
	BarberID *int64          `json:"barber_id,omitempty"`
	Schedule *scheduleRecord `json:"schedule,omitempty"`
	Services []serviceRecord `json:"services,omitempty"`

	RequiredDuration int       `json:"required_duration,omitempty"`
	RequiredSlots    int       `json:"required_slots,omitempty"`
	CandidateRuns    [][]int64 `json:"candidate_runs,omitempty"`
	SelectedSlotIDs  []int64   `json:"selected_slot_ids,omitempty"`

	AppointmentID *int64 `json:"appointment_id,omitempty"`
	Outcome       string `json:"outcome,omitempty"`
	LastError     string `json:"last_error,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type barberRecord struct {
	ID        int64   `json:"id"`
	UserID    string  `json:"user_id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Bio       *string `json:"bio,omitempty"`
}

type scheduleRecord struct {
	ID               int64        `json:"id"`
	BarberID         int64        `json:"barber_id"`
	BarberName       string       `json:"barber_name"`
	Date             string       `json:"date"`
	AppointmentCount int          `json:"appointment_count"`
	Slots            []slotRecord `json:"slots"`
}

type slotRecord struct {
	ID          int64  `json:"id"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	IsAvailable bool   `json:"is_available"`
	IsBooked    bool   `json:"is_booked"`
}

type serviceRecord struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	Description     *string `json:"description,omitempty"`
	DurationMinutes int     `json:"duration_minutes"`
	Price           float64 `json:"price"`
}

func toRecord(s *domain.BookingSession) sessionRecord {
	rec := sessionRecord{
		ID:               s.ID,
		UserID:           s.UserID,
		Generation:       s.Generation,
		Stage:            string(s.Stage),
		BarberID:         s.BarberID,
		RequiredDuration: s.RequiredDuration,
		RequiredSlots:    s.RequiredSlots,
		CandidateRuns:    s.CandidateRuns,
		SelectedSlotIDs:  s.SelectedSlotIDs,
		AppointmentID:    s.AppointmentID,
		Outcome:          string(s.Outcome),
		LastError:        s.LastError,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        s.UpdatedAt,
	}

	if s.Date != nil {
		date := s.Date.Format(domain.DateFormat)
		rec.Date = &date
	}

	for _, b := range s.Barbers {
		rec.Barbers = append(rec.Barbers, barberRecord{
			ID:        b.ID,
			UserID:    b.UserID,
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Bio:       b.Bio,
		})
	}

	if s.Schedule != nil {
		sched := &scheduleRecord{
			ID:               s.Schedule.ID,
			BarberID:         s.Schedule.BarberID,
			BarberName:       s.Schedule.BarberName,
			Date:             s.Schedule.Date.Format(domain.DateFormat),
			AppointmentCount: s.Schedule.AppointmentCount,
			Slots:            make([]slotRecord, 0, len(s.Schedule.Slots)),
		}
		for _, slot := range s.Schedule.Slots {
			sched.Slots = append(sched.Slots, slotRecord{
				ID:          slot.ID,
				StartTime:   slot.StartTime.String(),
				EndTime:     slot.EndTime.String(),
				IsAvailable: slot.IsAvailable,
				IsBooked:    slot.IsBooked,
			})
		}
		rec.Schedule = sched
	}

	for _, svc := range s.Services {
		rec.Services = append(rec.Services, serviceRecord{
			ID:              svc.ID,
			Name:            svc.Name,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}

	return rec
}

func (rec sessionRecord) toDomain(loc *time.Location) (*domain.BookingSession, error) {
	s := &domain.BookingSession{
		ID:               rec.ID,
		UserID:           rec.UserID,
		Generation:       rec.Generation,
		Stage:            domain.SessionStage(rec.Stage),
		BarberID:         rec.BarberID,
		RequiredDuration: rec.RequiredDuration,
		RequiredSlots:    rec.RequiredSlots,
		CandidateRuns:    rec.CandidateRuns,
		SelectedSlotIDs:  rec.SelectedSlotIDs,
		AppointmentID:    rec.AppointmentID,
		Outcome:          domain.SubmitOutcome(rec.Outcome),
		LastError:        rec.LastError,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
	}

	if rec.Date != nil {
		date, err := time.ParseInLocation(domain.DateFormat, *rec.Date, loc)
		if err != nil {
			return nil, err
		}
		s.Date = &date
	}

	for _, b := range rec.Barbers {
		s.Barbers = append(s.Barbers, domain.Barber{
			ID:        b.ID,
			UserID:    b.UserID,
			FirstName: b.FirstName,
			LastName:  b.LastName,
			Bio:       b.Bio,
		})
	}

	if rec.Schedule != nil {
		date, err := time.ParseInLocation(domain.DateFormat, rec.Schedule.Date, loc)
		if err != nil {
			return nil, err
		}
		sched := &domain.Schedule{
			ID:               rec.Schedule.ID,
			BarberID:         rec.Schedule.BarberID,
			BarberName:       rec.Schedule.BarberName,
			Date:             date,
			AppointmentCount: rec.Schedule.AppointmentCount,
			Slots:            make([]domain.Slot, 0, len(rec.Schedule.Slots)),
		}
		for _, slot := range rec.Schedule.Slots {
			sched.Slots = append(sched.Slots, domain.Slot{
				ID:          slot.ID,
				ScheduleID:  rec.Schedule.ID,
				StartTime:   types.TimeString(slot.StartTime),
				EndTime:     types.TimeString(slot.EndTime),
				IsAvailable: slot.IsAvailable,
				IsBooked:    slot.IsBooked,
			})
		}
		s.Schedule = sched
	}

	for _, svc := range rec.Services {
		s.Services = append(s.Services, domain.Service{
			ID:              svc.ID,
			Name:            svc.Name,
			Description:     svc.Description,
			DurationMinutes: svc.DurationMinutes,
			Price:           svc.Price,
		})
	}

	return s, nil
}
