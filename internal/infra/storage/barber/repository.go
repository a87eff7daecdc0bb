package barber

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

// Repository репозиторий барберов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория барберов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

var barberColumns = []string{
	"b.id",
	"b.user_id",
	"b.first_name",
	"b.last_name",
	"b.bio",
}

// Create регистрирует барбера
func (r *Repository) Create(ctx context.Context, barber *domain.Barber) (*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("barbers").
		Columns("user_id", "first_name", "last_name", "bio").
		Values(barber.UserID, barber.FirstName, barber.LastName, barber.Bio).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	if err := executor.QueryRowContext(ctx, query, args...).Scan(&barber.ID); err != nil {
		if psqlbuilder.IsUniqueViolation(err) {
			return nil, ErrBarberAlreadyExists
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	return barber, nil
}

// GetByID получает барбера по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Barber, error) {
	return r.getOne(ctx, "GetByID", squirrel.Eq{"b.id": id})
}

// List получает всех барберов
func (r *Repository) List(ctx context.Context) ([]*domain.Barber, error) {
	selectBuilder := psqlbuilder.Select(barberColumns...).
		From("barbers b").
		OrderBy("b.first_name ASC", "b.id ASC")

	return r.list(ctx, "List", selectBuilder)
}

// ListByDate получает барберов, у которых есть рабочий день на дату
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.Barber, error) {
	selectBuilder := psqlbuilder.Select(barberColumns...).
		From("barbers b").
		Join("schedules s ON s.barber_id = b.id").
		Where(squirrel.Eq{"s.schedule_date": date}).
		OrderBy("b.first_name ASC", "b.id ASC")

	return r.list(ctx, "ListByDate", selectBuilder)
}

func (r *Repository) getOne(ctx context.Context, op string, where squirrel.Sqlizer) (*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(barberColumns...).
		From("barbers b").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	barber, err := scanBarber(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBarberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s - scan barber: %v", ErrScanRow, op, err)
	}

	return barber, nil
}

func (r *Repository) list(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]*domain.Barber, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %v", ErrExecQuery, op, err)
	}
	defer rows.Close()

	barbers := make([]*domain.Barber, 0)
	for rows.Next() {
		barber, err := scanBarber(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan barber: %v", ErrScanRow, op, err)
		}
		barbers = append(barbers, barber)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - rows error: %v", ErrScanRow, op, err)
	}

	return barbers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBarber(row rowScanner) (*domain.Barber, error) {
	var barber domain.Barber
	err := row.Scan(
		&barber.ID,
		&barber.UserID,
		&barber.FirstName,
		&barber.LastName,
		&barber.Bio,
	)
	if err != nil {
		return nil, err
	}
	return &barber, nil
}
