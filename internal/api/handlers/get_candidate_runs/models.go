package get_candidate_runs

import (
	"github.com/m04kA/SMC-BarberService/internal/domain"
	getCandidateRuns "github.com/m04kA/SMC-BarberService/internal/usecase/get_candidate_runs"
)

// RunResponse HTTP модель серии слотов
type RunResponse struct {
	SlotIDs   []int64 `json:"slotIds"`
	StartTime string  `json:"startTime"` // "10:00"
	EndTime   string  `json:"endTime"`
}

// CandidateRunsResponse HTTP модель ответа с сериями слотов
type CandidateRunsResponse struct {
	BarberID         int64         `json:"barberId"`
	ScheduleID       int64         `json:"scheduleId"`
	Date             string        `json:"date"`
	ServiceIDs       []int64       `json:"serviceIds"`
	RequiredDuration int           `json:"requiredDuration"`
	RequiredSlots    int           `json:"requiredSlots"`
	EligibleSlotIDs  []int64       `json:"eligibleSlotIds"`
	Runs             []RunResponse `json:"runs"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getCandidateRuns.Response) *CandidateRunsResponse {
	result := &CandidateRunsResponse{
		BarberID:         resp.BarberID,
		ScheduleID:       resp.ScheduleID,
		Date:             resp.Date.Format(domain.DateFormat),
		ServiceIDs:       resp.ServiceIDs,
		RequiredDuration: resp.RequiredDuration,
		RequiredSlots:    resp.RequiredSlots,
		EligibleSlotIDs:  resp.EligibleSlotIDs,
		Runs:             make([]RunResponse, 0, len(resp.Runs)),
	}
	if result.EligibleSlotIDs == nil {
		result.EligibleSlotIDs = []int64{}
	}

	for _, run := range resp.Runs {
		result.Runs = append(result.Runs, RunResponse{
			SlotIDs:   run.SlotIDs,
			StartTime: run.StartTime.String(),
			EndTime:   run.EndTime.String(),
		})
	}

	return result
}
