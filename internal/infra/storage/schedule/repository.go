package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/psqlbuilder"
)

// Repository репозиторий расписаний и слотов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписаний
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var scheduleColumns = []string{
	"s.id",
	"s.barber_id",
	"TRIM(b.first_name || ' ' || b.last_name)",
	"s.schedule_date",
	"s.appointment_count",
	"s.created_at",
	"s.updated_at",
}

var slotColumns = []string{
	"schedule_id",
	"slot_index",
	"start_time",
	"end_time",
	"is_available",
	"is_booked",
}

// Create создает расписание вместе со слотами
// Вставка расписания и слотов должна выполняться в транзакции (txManager.Do)
func (r *Repository) Create(ctx context.Context, schedule *domain.Schedule) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("schedules").
		Columns("barber_id", "schedule_date", "appointment_count").
		Values(schedule.BarberID, schedule.Date, schedule.AppointmentCount).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&schedule.ID, &createdAt, &updatedAt)
	if err != nil {
		if psqlbuilder.IsUniqueViolation(err) {
			return nil, ErrScheduleAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time

	if err := r.insertSlots(ctx, executor, schedule.ID, schedule.Slots); err != nil {
		return nil, err
	}
	for i := range schedule.Slots {
		schedule.Slots[i].ScheduleID = schedule.ID
	}

	return schedule, nil
}

// GetByID получает расписание со слотами
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Schedule, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"s.id": id})
}

// GetByBarberAndDate получает расписание барбера на дату
func (r *Repository) GetByBarberAndDate(ctx context.Context, barberID int64, date time.Time) (*domain.Schedule, error) {
	return r.getOne(ctx, "GetByBarberAndDate", squirrel.Eq{
		"s.barber_id":     barberID,
		"s.schedule_date": date,
	})
}

// List получает расписания по фильтру (со слотами)
func (r *Repository) List(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(scheduleColumns...).
		From("schedules s").
		Join("barbers b ON b.id = s.barber_id").
		OrderBy("s.schedule_date ASC", "s.barber_id ASC")

	if filter.Date != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.schedule_date": *filter.Date})
	}
	if filter.BarberID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"s.barber_id": *filter.BarberID})
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

	schedules := make([]*domain.Schedule, 0)
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: List - scan schedule: %v", ErrScanRow, err)
		}
		schedules = append(schedules, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	if len(schedules) == 0 {
		return schedules, nil
	}

	// Подгружаем слоты одним запросом
	ids := make([]int64, len(schedules))
	byID := make(map[int64]*domain.Schedule, len(schedules))
	for i, s := range schedules {
		ids[i] = s.ID
		byID[s.ID] = s
	}

	slots, err := r.selectSlots(ctx, squirrel.Eq{"schedule_id": ids}, false)
	if err != nil {
		return nil, err
	}
	for _, slot := range slots {
		s := byID[slot.ScheduleID]
		s.Slots = append(s.Slots, slot)
	}

	return schedules, nil
}

// GetSlots получает слоты расписания в порядке номеров
// В транзакции блокирует строки слотов (FOR UPDATE)
func (r *Repository) GetSlots(ctx context.Context, scheduleID int64) ([]domain.Slot, error) {
	return r.selectSlots(ctx, squirrel.Eq{"schedule_id": scheduleID}, dbmetrics.IsInTransaction(ctx))
}

// UpdateSlotAvailability выставляет доступность слотов
func (r *Repository) UpdateSlotAvailability(ctx context.Context, scheduleID int64, availability map[int64]bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	for slotID, isAvailable := range availability {
		query, args, err := psqlbuilder.Update("time_slots").
			Set("is_available", isAvailable).
			Where(squirrel.Eq{"schedule_id": scheduleID, "slot_index": slotID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotAvailability - build update query: %v", ErrBuildQuery, err)
		}

		result, err := executor.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotAvailability - execute update: %v", ErrExecQuery, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%w: UpdateSlotAvailability - get rows affected: %v", ErrExecQuery, err)
		}
		if affected == 0 {
			return fmt.Errorf("%w: slot_index=%d", ErrSlotNotFound, slotID)
		}
	}

	return r.touch(ctx, executor, scheduleID, 0)
}

// SetSlotsBooked помечает слоты занятыми или свободными
func (r *Repository) SetSlotsBooked(ctx context.Context, scheduleID int64, slotIDs []int64, booked bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("time_slots").
		Set("is_booked", booked).
		Where(squirrel.Eq{"schedule_id": scheduleID, "slot_index": slotIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: SetSlotsBooked - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetSlotsBooked - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetSlotsBooked - get rows affected: %v", ErrExecQuery, err)
	}
	if affected != int64(len(slotIDs)) {
		return fmt.Errorf("%w: expected %d slots, updated %d", ErrSlotNotFound, len(slotIDs), affected)
	}

	return nil
}

// AdjustAppointmentCount изменяет счетчик записей расписания на delta
func (r *Repository) AdjustAppointmentCount(ctx context.Context, scheduleID int64, delta int) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)
	return r.touch(ctx, executor, scheduleID, delta)
}

// Delete удаляет расписание (слоты удаляются каскадно)
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("schedules").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Schedule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(scheduleColumns...).
		From("schedules s").
		Join("barbers b ON b.id = s.barber_id").
		Where(where)

	// В транзакции блокируем строку расписания
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE OF s")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	schedule, err := scanSchedule(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrScheduleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan schedule: %v", ErrScanRow, op, err)
	}

	slots, err := r.GetSlots(ctx, schedule.ID)
	if err != nil {
		return nil, err
	}
	schedule.Slots = slots

	return schedule, nil
}

func (r *Repository) selectSlots(ctx context.Context, where squirrel.Sqlizer, forUpdate bool) ([]domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("time_slots").
		Where(where).
		OrderBy("schedule_id ASC", "slot_index ASC")
	if forUpdate {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: selectSlots - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: selectSlots - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.Slot, 0, domain.SlotsPerDay)
	for rows.Next() {
		var slot domain.Slot
		if err := rows.Scan(
			&slot.ScheduleID,
			&slot.ID,
			&slot.StartTime,
			&slot.EndTime,
			&slot.IsAvailable,
			&slot.IsBooked,
		); err != nil {
			return nil, fmt.Errorf("%w: selectSlots - scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: selectSlots - rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}

func (r *Repository) insertSlots(ctx context.Context, executor DBExecutor, scheduleID int64, slots []domain.Slot) error {
	if len(slots) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("time_slots").Columns(slotColumns...)
	for _, slot := range slots {
		insertBuilder = insertBuilder.Values(
			scheduleID,
			slot.ID,
			slot.StartTime,
			slot.EndTime,
			slot.IsAvailable,
			slot.IsBooked,
		)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: insertSlots - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: insertSlots - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// touch обновляет updated_at и счетчик записей
func (r *Repository) touch(ctx context.Context, executor DBExecutor, scheduleID int64, delta int) error {
	query, args, err := psqlbuilder.Update("schedules").
		Set("appointment_count", squirrel.Expr("GREATEST(appointment_count + ?, 0)", delta)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": scheduleID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: touch - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: touch - execute update: %v", ErrExecQuery, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: touch - get rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrScheduleNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSchedule(row rowScanner) (*domain.Schedule, error) {
	var schedule domain.Schedule
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&schedule.ID,
		&schedule.BarberID,
		&schedule.BarberName,
		&schedule.Date,
		&schedule.AppointmentCount,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	schedule.CreatedAt = createdAt.Time
	schedule.UpdatedAt = updatedAt.Time
	return &schedule, nil
}
