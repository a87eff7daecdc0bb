package appointment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/psqlbuilder"
	"github.com/m04kA/SMC-BarberService/pkg/types"
)

// Repository репозиторий записей к барберам
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var appointmentColumns = []string{
	"id",
	"user_id",
	"barber_id",
	"schedule_id",
	"appointment_date",
	"start_time",
	"end_time",
	"duration_minutes",
	"total_price",
	"status",
	"barber_name",
	"notes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Create создает запись вместе с услугами и слотами
// Должен вызываться внутри транзакции вместе с бронированием слотов
func (r *Repository) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"user_id",
			"barber_id",
			"schedule_id",
			"appointment_date",
			"start_time",
			"end_time",
			"duration_minutes",
			"total_price",
			"status",
			"barber_name",
			"notes",
		).
		Values(
			appointment.UserID,
			appointment.BarberID,
			appointment.ScheduleID,
			appointment.Date,
			appointment.StartTime,
			appointment.EndTime,
			appointment.DurationMinutes,
			appointment.TotalPrice,
			appointment.Status,
			appointment.BarberName,
			appointment.Notes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&appointment.ID, &createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	appointment.CreatedAt = createdAt.Time
	appointment.UpdatedAt = updatedAt.Time

	// 1. Услуги в порядке выбора
	if len(appointment.Services) > 0 {
		servicesInsert := psqlbuilder.Insert("appointment_services").
			Columns("appointment_id", "position", "service_id", "service_name", "duration_minutes", "price")
		for i, s := range appointment.Services {
			servicesInsert = servicesInsert.Values(appointment.ID, i, s.ServiceID, s.Name, s.DurationMinutes, s.Price)
		}

		query, args, err = servicesInsert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build services insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - execute services insert: %v", ErrExecQuery, err)
		}
	}

	// 2. Слоты
	if len(appointment.SlotIDs) > 0 {
		slotsInsert := psqlbuilder.Insert("appointment_slots").
			Columns("appointment_id", "schedule_id", "slot_index")
		for _, slotID := range appointment.SlotIDs {
			slotsInsert = slotsInsert.Values(appointment.ID, appointment.ScheduleID, slotID)
		}

		query, args, err = slotsInsert.ToSql()
		if err != nil {
			return nil, fmt.Errorf("%w: Create - build slots insert: %v", ErrBuildQuery, err)
		}
		if _, err := executor.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("%w: Create - execute slots insert: %v", ErrExecQuery, err)
		}
	}

	return appointment, nil
}

// GetByID получает запись по ID вместе с услугами и слотами
// В транзакции блокирует строку записи (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appointment, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan appointment: %v", ErrScanRow, err)
	}

	if err := r.loadDetails(ctx, []*domain.Appointment{appointment}); err != nil {
		return nil, err
	}

	return appointment, nil
}

// List получает записи по фильтру
// По умолчанию возвращает только активные записи
func (r *Repository) List(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		OrderBy("appointment_date DESC", "start_time DESC")

	if filter.UserID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"user_id": *filter.UserID})
	}
	if filter.BarberID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"barber_id": *filter.BarberID})
	}
	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"appointment_date": *filter.Date})
	}
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	appointments := make([]*domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan appointment: %v", ErrScanRow, err)
		}
		appointments = append(appointments, appointment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if err := r.loadDetails(ctx, appointments); err != nil {
		return nil, err
	}

	return appointments, nil
}

// Cancel отменяет запись
// Отменить можно только запись в статусе pending или confirmed
func (r *Repository) Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("cancellation_reason", reason).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"id":     id,
			"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)},
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Cancel - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Cancel - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrCannotCancel
	}

	return nil
}

// UpdateStatus изменяет статус записи
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateStatus - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// loadDetails подгружает услуги и слоты для списка записей
func (r *Repository) loadDetails(ctx context.Context, appointments []*domain.Appointment) error {
	if len(appointments) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	ids := make([]int64, len(appointments))
	byID := make(map[int64]*domain.Appointment, len(appointments))
	for i, a := range appointments {
		ids[i] = a.ID
		byID[a.ID] = a
		a.ServiceIDs = make([]int64, 0)
		a.SlotIDs = make([]int64, 0)
		a.Services = make([]domain.AppointmentService, 0)
	}

	// 1. Услуги
	query, args, err := psqlbuilder.Select("appointment_id", "service_id", "service_name", "duration_minutes", "price").
		From("appointment_services").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "position ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadDetails - build services query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadDetails - execute services query: %v", ErrExecQuery, err)
	}
	for rows.Next() {
		var appointmentID int64
		var s domain.AppointmentService
		if err := rows.Scan(&appointmentID, &s.ServiceID, &s.Name, &s.DurationMinutes, &s.Price); err != nil {
			rows.Close()
			return fmt.Errorf("%w: loadDetails - scan service: %v", ErrScanRow, err)
		}
		a := byID[appointmentID]
		a.Services = append(a.Services, s)
		a.ServiceIDs = append(a.ServiceIDs, s.ServiceID)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("%w: loadDetails - services rows error: %v", ErrScanRow, err)
	}
	rows.Close()

	// 2. Слоты
	query, args, err = psqlbuilder.Select("appointment_id", "slot_index").
		From("appointment_slots").
		Where(squirrel.Eq{"appointment_id": ids}).
		OrderBy("appointment_id ASC", "slot_index ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: loadDetails - build slots query: %v", ErrBuildQuery, err)
	}

	rows, err = executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadDetails - execute slots query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	for rows.Next() {
		var appointmentID, slotID int64
		if err := rows.Scan(&appointmentID, &slotID); err != nil {
			return fmt.Errorf("%w: loadDetails - scan slot: %v", ErrScanRow, err)
		}
		a := byID[appointmentID]
		a.SlotIDs = append(a.SlotIDs, slotID)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadDetails - slots rows error: %v", ErrScanRow, err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var a domain.Appointment
	var startTime, endTime types.TimeString
	var cancelledAt, createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.BarberID,
		&a.ScheduleID,
		&a.Date,
		&startTime,
		&endTime,
		&a.DurationMinutes,
		&a.TotalPrice,
		&a.Status,
		&a.BarberName,
		&a.Notes,
		&a.CancellationReason,
		&cancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.StartTime = startTime.String()
	a.EndTime = endTime.String()
	if cancelledAt.Valid {
		t := cancelledAt.Time
		a.CancelledAt = &t
	}
	a.CreatedAt = createdAt.Time
	a.UpdatedAt = updatedAt.Time

	return &a, nil
}

func statusStrings(statuses []domain.AppointmentStatus) []string {
	result := make([]string, len(statuses))
	for i, s := range statuses {
		result[i] = string(s)
	}
	return result
}
