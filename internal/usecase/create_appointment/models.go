package create_appointment

import (
	"time"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

// Request модель запроса на создание записи
type Request struct {
	UserID     string    // subject пользователя из токена
	BarberID   int64     // ID барбера
	Date       time.Time // Дата в часовом поясе барбершопа
	ServiceIDs []int64   // Услуги в порядке выбора
	SlotIDs    []int64   // Выбранные слоты
	Notes      *string   // Комментарий клиента
}

// Response модель ответа с созданной записью
type Response struct {
	Appointment *domain.Appointment
}
