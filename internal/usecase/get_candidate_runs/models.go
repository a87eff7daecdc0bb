package get_candidate_runs

import (
	"time"

	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Request модель запроса на подбор серий слотов
type Request struct {
	BarberID   int64     // ID барбера
	Date       time.Time // Дата в часовом поясе барбершопа
	ServiceIDs []int64   // Выбранные услуги
}

// Response модель ответа с сериями слотов
type Response struct {
	BarberID         int64
	ScheduleID       int64
	Date             time.Time
	ServiceIDs       []int64
	RequiredDuration int     // Длительность записи в минутах
	RequiredSlots    int     // Количество слотов подряд
	EligibleSlotIDs  []int64 // Свободные будущие слоты дня
	Runs             []Run   // Пустой список - нет подходящего окна
}

// Run непрерывная серия слотов
type Run struct {
	SlotIDs   []int64
	StartTime types.TimeString
	EndTime   types.TimeString
}
