package messaging

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberService/internal/domain"
	"github.com/m04kA/SMC-BarberService/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberService/pkg/psqlbuilder"
)

// Repository репозиторий переписки
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория переписки
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetOrCreateThread возвращает тред пары пользователей, создавая его при необходимости
func (r *Repository) GetOrCreateThread(ctx context.Context, userA, userB string) (*domain.Thread, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	a, b := domain.OrderedPair(userA, userB)

	// DO UPDATE нужен, чтобы RETURNING вернул строку и для существующего треда
	query, args, err := psqlbuilder.Insert("threads").
		Columns("user_a", "user_b").
		Values(a, b).
		Suffix("ON CONFLICT (user_a, user_b) DO UPDATE SET user_a = EXCLUDED.user_a RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetOrCreateThread - build insert query: %v", ErrBuildQuery, err)
	}

	thread := &domain.Thread{UserA: a, UserB: b}
	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&thread.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: GetOrCreateThread - execute insert: %v", ErrExecQuery, err)
	}
	thread.CreatedAt = createdAt.Time

	return thread, nil
}

// GetThread получает тред по ID
func (r *Repository) GetThread(ctx context.Context, id int64) (*domain.Thread, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "user_a", "user_b", "created_at").
		From("threads").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetThread - build select query: %v", ErrBuildQuery, err)
	}

	var thread domain.Thread
	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&thread.ID, &thread.UserA, &thread.UserB, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrThreadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetThread - scan thread: %v", ErrScanRow, err)
	}
	thread.CreatedAt = createdAt.Time

	return &thread, nil
}

// ListThreads получает треды пользователя с последним сообщением
// Сортировка: сначала треды со свежими сообщениями
func (r *Repository) ListThreads(ctx context.Context, userID string) ([]*domain.Thread, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"t.id",
		"t.user_a",
		"t.user_b",
		"t.created_at",
		"m.id",
		"m.sender_id",
		"m.body",
		"m.created_at",
	).
		From("threads t").
		LeftJoin("LATERAL (SELECT id, sender_id, body, created_at FROM messages WHERE thread_id = t.id ORDER BY id DESC LIMIT 1) m ON TRUE").
		Where(squirrel.Or{
			squirrel.Eq{"t.user_a": userID},
			squirrel.Eq{"t.user_b": userID},
		}).
		OrderBy("COALESCE(m.created_at, t.created_at) DESC", "t.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListThreads - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListThreads - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	threads := make([]*domain.Thread, 0)
	for rows.Next() {
		var thread domain.Thread
		var createdAt, messageCreatedAt sql.NullTime
		var messageID sql.NullInt64
		var senderID, body sql.NullString

		if err := rows.Scan(
			&thread.ID,
			&thread.UserA,
			&thread.UserB,
			&createdAt,
			&messageID,
			&senderID,
			&body,
			&messageCreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%w: ListThreads - scan thread: %v", ErrScanRow, err)
		}

		thread.CreatedAt = createdAt.Time
		if messageID.Valid {
			thread.LastMessage = &domain.Message{
				ID:        messageID.Int64,
				ThreadID:  thread.ID,
				SenderID:  senderID.String,
				Text:      body.String,
				CreatedAt: messageCreatedAt.Time,
			}
		}
		threads = append(threads, &thread)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListThreads - rows error: %v", ErrScanRow, err)
	}

	return threads, nil
}

// CreateMessage добавляет сообщение в тред
func (r *Repository) CreateMessage(ctx context.Context, message *domain.Message) (*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("messages").
		Columns("thread_id", "sender_id", "body").
		Values(message.ThreadID, message.SenderID, message.Text).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: CreateMessage - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&message.ID, &createdAt); err != nil {
		if psqlbuilder.IsForeignKeyViolation(err) {
			return nil, ErrThreadNotFound
		}
		return nil, fmt.Errorf("%w: CreateMessage - execute insert: %v", ErrExecQuery, err)
	}
	message.CreatedAt = createdAt.Time

	return message, nil
}

// ListMessages получает страницу сообщений треда (новые первыми)
func (r *Repository) ListMessages(ctx context.Context, page domain.MessagesPage) ([]*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id", "thread_id", "sender_id", "body", "created_at").
		From("messages").
		Where(squirrel.Eq{"thread_id": page.ThreadID}).
		OrderBy("id DESC").
		Limit(uint64(page.Limit))
	if page.Before != nil {
		selectBuilder = selectBuilder.Where(squirrel.Lt{"id": *page.Before})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListMessages - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.Message, 0, page.Limit)
	for rows.Next() {
		var message domain.Message
		var createdAt sql.NullTime
		if err := rows.Scan(&message.ID, &message.ThreadID, &message.SenderID, &message.Text, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListMessages - scan message: %v", ErrScanRow, err)
		}
		message.CreatedAt = createdAt.Time
		messages = append(messages, &message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListMessages - rows error: %v", ErrScanRow, err)
	}

	return messages, nil
}
