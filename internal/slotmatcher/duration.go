package slotmatcher

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// DurationPolicy способ сложения длительностей нескольких услуг
type DurationPolicy string

const (
	// PolicyMax запись занимает время самой длинной услуги
	PolicyMax DurationPolicy = "max"
	// PolicySum запись занимает суммарное время услуг
	PolicySum DurationPolicy = "sum"
)

// ParseDurationPolicy разбирает значение из конфига, пустая строка - PolicyMax
func ParseDurationPolicy(s string) (DurationPolicy, error) {
	switch DurationPolicy(s) {
	case "", PolicyMax:
		return PolicyMax, nil
	case PolicySum:
		return PolicySum, nil
	default:
		return "", fmt.Errorf("unknown duration policy: %q", s)
	}
}

// RequiredDuration длительность записи в минутах: максимум длительностей услуг
func RequiredDuration(services []domain.Service) int {
	return PolicyMax.RequiredDuration(services)
}

// RequiredDuration длительность записи в минутах по политике
func (p DurationPolicy) RequiredDuration(services []domain.Service) int {
	total := 0
	for _, svc := range services {
		if p == PolicySum {
			total += svc.DurationMinutes
			continue
		}
		if svc.DurationMinutes > total {
			total = svc.DurationMinutes
		}
	}
	return total
}

// RequiredSlots количество 30-минутных слотов, покрывающих длительность (с округлением вверх)
func RequiredSlots(durationMinutes int) int {
	if durationMinutes <= 0 {
		return 0
	}
	return (durationMinutes + domain.SlotDurationMinutes - 1) / domain.SlotDurationMinutes
}

// Plan результат подбора серий для набора услуг
type Plan struct {
	RequiredDuration int
	RequiredSlots    int
	Eligible         []domain.Slot
	Runs             []CandidateRun
}

// RunIDs возвращает серии в виде списков номеров слотов
func (p Plan) RunIDs() [][]int64 {
	ids := make([][]int64, len(p.Runs))
	for i, run := range p.Runs {
		ids[i] = run.IDs()
	}
	return ids
}

// Propose считает требования по услугам и подбирает серии по расписанию
func (p DurationPolicy) Propose(schedule domain.Schedule, services []domain.Service, asOf time.Time) Plan {
	duration := p.RequiredDuration(services)
	required := RequiredSlots(duration)
	eligible := FilterEligible(schedule, asOf)

	return Plan{
		RequiredDuration: duration,
		RequiredSlots:    required,
		Eligible:         eligible,
		Runs:             FindCandidateRuns(eligible, required),
	}
}
