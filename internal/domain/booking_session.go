package domain

import (
	"errors"
	"time"
)

var (
	// ErrInvalidTransition the session is not in a stage that allows the step
	ErrInvalidTransition = errors.New("booking session: invalid transition")

	// ErrSessionClosed the session was submitted successfully and accepts no more steps
	ErrSessionClosed = errors.New("booking session: session is closed")
)

// SessionStage stage of the booking flow
type SessionStage string

const (
	StageIdle           SessionStage = "idle"
	StageDateChosen     SessionStage = "date_chosen"
	StageBarberChosen   SessionStage = "barber_chosen"
	StageServicesChosen SessionStage = "services_chosen"
	StageSlotsProposed  SessionStage = "slots_proposed"
	StageSlotsSelected  SessionStage = "slots_selected"
	StageSubmitted      SessionStage = "submitted"
)

var stageOrder = map[SessionStage]int{
	StageIdle:           0,
	StageDateChosen:     1,
	StageBarberChosen:   2,
	StageServicesChosen: 3,
	StageSlotsProposed:  4,
	StageSlotsSelected:  5,
	StageSubmitted:      6,
}

// AtLeast returns true if the stage is s or later
func (s SessionStage) AtLeast(other SessionStage) bool {
	return stageOrder[s] >= stageOrder[other]
}

// SubmitOutcome result of the submit step
type SubmitOutcome string

const (
	OutcomePending SubmitOutcome = "pending" // appointment created, waiting for barber
	OutcomeFailed  SubmitOutcome = "failed"  // upstream rejected, selection kept for retry
)

// BookingSession server-side state of a customer's booking flow
//
// Each step moves the session forward and drops everything chosen at later steps.
// Generation identifies the mutation the snapshot was produced by.
type BookingSession struct {
	ID         string
	UserID     string
	Generation int64
	Stage      SessionStage

	Date     *time.Time
	Barbers  []Barber // barbers working on Date
	BarberID *int64
	Schedule *Schedule // snapshot of the chosen barber's day

	Services         []Service // chosen services
	RequiredDuration int
	RequiredSlots    int
	CandidateRuns    [][]int64

	SelectedSlotIDs []int64

	AppointmentID *int64
	Outcome       SubmitOutcome
	LastError     string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBookingSession creates an idle session
func NewBookingSession(id, userID string, now time.Time) *BookingSession {
	return &BookingSession{
		ID:        id,
		UserID:    userID,
		Stage:     StageIdle,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsClosed returns true once an appointment was created from the session
func (s *BookingSession) IsClosed() bool {
	return s.Stage == StageSubmitted && s.Outcome == OutcomePending
}

// ServiceIDs returns IDs of the chosen services preserving order
func (s *BookingSession) ServiceIDs() []int64 {
	ids := make([]int64, len(s.Services))
	for i, svc := range s.Services {
		ids[i] = svc.ID
	}
	return ids
}

// HasBarber returns true if the barber works on the chosen date
func (s *BookingSession) HasBarber(barberID int64) bool {
	for _, b := range s.Barbers {
		if b.ID == barberID {
			return true
		}
	}
	return false
}

// ChooseDate sets the date and the barbers available on it
func (s *BookingSession) ChooseDate(date time.Time, barbers []Barber, now time.Time) error {
	if s.IsClosed() {
		return ErrSessionClosed
	}

	s.resetFrom(StageDateChosen)
	s.Date = &date
	s.Barbers = barbers
	s.Stage = StageDateChosen
	s.UpdatedAt = now
	return nil
}

// ChooseBarber sets the barber and the snapshot of his day
func (s *BookingSession) ChooseBarber(barberID int64, schedule *Schedule, now time.Time) error {
	if s.IsClosed() {
		return ErrSessionClosed
	}
	if !s.Stage.AtLeast(StageDateChosen) || s.Date == nil {
		return ErrInvalidTransition
	}

	s.resetFrom(StageBarberChosen)
	s.BarberID = &barberID
	s.Schedule = schedule
	s.Stage = StageBarberChosen
	s.UpdatedAt = now
	return nil
}

// ChooseServices sets the services and the derived requirements
func (s *BookingSession) ChooseServices(services []Service, requiredDuration, requiredSlots int, now time.Time) error {
	if s.IsClosed() {
		return ErrSessionClosed
	}
	if !s.Stage.AtLeast(StageBarberChosen) || s.BarberID == nil {
		return ErrInvalidTransition
	}

	s.resetFrom(StageServicesChosen)
	s.Services = services
	s.RequiredDuration = requiredDuration
	s.RequiredSlots = requiredSlots
	s.Stage = StageServicesChosen
	s.UpdatedAt = now
	return nil
}

// ProposeRuns stores candidate runs computed for the chosen services
// An empty list is a valid proposal: the barber has no room for the services
func (s *BookingSession) ProposeRuns(runs [][]int64, now time.Time) error {
	if s.IsClosed() {
		return ErrSessionClosed
	}
	if !s.Stage.AtLeast(StageServicesChosen) || len(s.Services) == 0 {
		return ErrInvalidTransition
	}

	s.resetFrom(StageSlotsProposed)
	s.CandidateRuns = runs
	s.Stage = StageSlotsProposed
	s.UpdatedAt = now
	return nil
}

// SelectSlots stores the customer's selection
// The selection is validated on submit, not here
func (s *BookingSession) SelectSlots(slotIDs []int64, now time.Time) error {
	if s.IsClosed() {
		return ErrSessionClosed
	}
	if !s.Stage.AtLeast(StageSlotsProposed) {
		return ErrInvalidTransition
	}

	s.resetFrom(StageSlotsSelected)
	s.SelectedSlotIDs = slotIDs
	s.Stage = StageSlotsSelected
	s.UpdatedAt = now
	return nil
}

// CanSubmit returns nil if the session is ready to create an appointment
func (s *BookingSession) CanSubmit() error {
	if s.IsClosed() {
		return ErrSessionClosed
	}
	if s.Stage == StageSlotsSelected || (s.Stage == StageSubmitted && s.Outcome == OutcomeFailed) {
		return nil
	}
	return ErrInvalidTransition
}

// MarkSubmitted records the created appointment and closes the session
func (s *BookingSession) MarkSubmitted(appointmentID int64, now time.Time) error {
	if err := s.CanSubmit(); err != nil {
		return err
	}
	s.AppointmentID = &appointmentID
	s.Outcome = OutcomePending
	s.LastError = ""
	s.Stage = StageSubmitted
	s.UpdatedAt = now
	return nil
}

// MarkSubmitFailed records a failed submit, the selection stays for retry
func (s *BookingSession) MarkSubmitFailed(reason string, now time.Time) error {
	if err := s.CanSubmit(); err != nil {
		return err
	}
	s.Outcome = OutcomeFailed
	s.LastError = reason
	s.Stage = StageSubmitted
	s.UpdatedAt = now
	return nil
}

// resetFrom clears the state chosen at stage and every later stage
func (s *BookingSession) resetFrom(stage SessionStage) {
	if stage == StageDateChosen {
		s.Date = nil
		s.Barbers = nil
	}
	if stageOrder[stage] <= stageOrder[StageBarberChosen] {
		s.BarberID = nil
		s.Schedule = nil
	}
	if stageOrder[stage] <= stageOrder[StageServicesChosen] {
		s.Services = nil
		s.RequiredDuration = 0
		s.RequiredSlots = 0
	}
	if stageOrder[stage] <= stageOrder[StageSlotsProposed] {
		s.CandidateRuns = nil
	}
	if stageOrder[stage] <= stageOrder[StageSlotsSelected] {
		s.SelectedSlotIDs = nil
	}
	s.AppointmentID = nil
	s.Outcome = ""
	s.LastError = ""
}
