// Package slotmatcher подбирает непрерывные серии слотов расписания под длительность услуг
// и проверяет выбор клиента.
//
// Все функции чистые: не делают I/O и не меняют входные данные.
package slotmatcher

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// CandidateRun непрерывная серия из ровно RequiredSlots подходящих слотов
type CandidateRun struct {
	Slots []domain.Slot
}

// IDs возвращает порядковые номера слотов серии
func (r CandidateRun) IDs() []int64 {
	return domain.SlotIDs(r.Slots)
}

// Start время начала серии
func (r CandidateRun) Start() string {
	if len(r.Slots) == 0 {
		return ""
	}
	return r.Slots[0].StartTime.String()
}

// End время окончания серии
func (r CandidateRun) End() string {
	if len(r.Slots) == 0 {
		return ""
	}
	return r.Slots[len(r.Slots)-1].EndTime.String()
}

// ValidatedRun выбор клиента, прошедший проверку, упорядоченный по номеру слота
type ValidatedRun struct {
	Slots []domain.Slot
}

// IDs возвращает порядковые номера слотов
func (r ValidatedRun) IDs() []int64 {
	return domain.SlotIDs(r.Slots)
}

// FilterEligible оставляет слоты, доступные для записи на момент asOf:
// открыты барбером, не заняты и начинаются не раньше asOf.
// Порядок сохраняется, слоты должны быть отсортированы вызывающим.
func FilterEligible(schedule domain.Schedule, asOf time.Time) []domain.Slot {
	eligible := make([]domain.Slot, 0, len(schedule.Slots))
	for _, slot := range schedule.Slots {
		if !slot.IsOpen() {
			continue
		}
		if !slot.IsInFuture(schedule.Date, asOf) {
			continue
		}
		eligible = append(eligible, slot)
	}
	return eligible
}

// FindCandidateRuns ищет непересекающиеся непрерывные серии длины requiredSlots
//
// Проход слева направо: окно из следующих requiredSlots подходящих слотов
// считается серией, если номера идут подряд. После найденной серии проход
// перескакивает через всё окно, иначе сдвигается на один слот.
// Поэтому для [0,1,2,3] и requiredSlots=2 будут найдены {0,1} и {2,3}, но не {1,2}.
func FindCandidateRuns(eligible []domain.Slot, requiredSlots int) []CandidateRun {
	runs := make([]CandidateRun, 0)
	if requiredSlots <= 0 {
		return runs
	}

	for i := 0; i+requiredSlots <= len(eligible); {
		window := eligible[i : i+requiredSlots]
		if !isContiguous(window) {
			i++
			continue
		}

		run := make([]domain.Slot, requiredSlots)
		copy(run, window)
		runs = append(runs, CandidateRun{Slots: run})
		i += requiredSlots
	}

	return runs
}

// ValidateSelection проверяет выбор клиента по полному расписанию дня
//
// Порядок проверок:
//  1. выбран хотя бы один слот - иначе ErrNoSlotsSelected
//  2. выбрано ровно requiredSlots - иначе *WrongSlotCountError
//  3. все слоты есть в расписании - иначе ErrUnknownSlot
//  4. слоты идут подряд - иначе ErrNotConsecutive
//
// Повторяющиеся идентификаторы считаются одним слотом.
// Доступность слотов здесь не проверяется, это задача вызывающего.
func ValidateSelection(allSlots []domain.Slot, selected []int64, requiredSlots int) (ValidatedRun, error) {
	ids := uniqueIDs(selected)

	if len(ids) == 0 {
		return ValidatedRun{}, ErrNoSlotsSelected
	}

	if len(ids) != requiredSlots {
		return ValidatedRun{}, &WrongSlotCountError{Selected: len(ids), Required: requiredSlots}
	}

	byID := make(map[int64]domain.Slot, len(allSlots))
	for _, slot := range allSlots {
		byID[slot.ID] = slot
	}

	resolved := make([]domain.Slot, 0, len(ids))
	for _, id := range ids {
		slot, ok := byID[id]
		if !ok {
			return ValidatedRun{}, fmt.Errorf("%w: id=%d", ErrUnknownSlot, id)
		}
		resolved = append(resolved, slot)
	}

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].ID < resolved[j].ID
	})

	if !isContiguous(resolved) {
		return ValidatedRun{}, ErrNotConsecutive
	}

	return ValidatedRun{Slots: resolved}, nil
}

// isContiguous проверяет, что номера слотов идут подряд от первого
func isContiguous(slots []domain.Slot) bool {
	if len(slots) == 0 {
		return false
	}
	first := slots[0].ID
	for k, slot := range slots {
		if slot.ID != first+int64(k) {
			return false
		}
	}
	return true
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	result := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
