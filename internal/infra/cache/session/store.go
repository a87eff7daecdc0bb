package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberService/internal/domain"
)

const keyPrefix = "booking_session:"

// Store хранилище сессий бронирования в Redis
//
// Для каждой сессии хранятся два ключа:
//   - booking_session:{id}     - JSON снимок сессии
//   - booking_session:{id}:gen - последнее выданное поколение
//
// Изменение сессии выполняется в два шага: NextGeneration резервирует поколение,
// SaveIfCurrent сохраняет снимок, только если поколение не сменилось.
type Store struct {
	client redis.UniversalClient
	ttl    time.Duration
	loc    *time.Location
}

// NewStore создает новое хранилище сессий
func NewStore(client redis.UniversalClient, ttl time.Duration, loc *time.Location) *Store {
	if loc == nil {
		loc = time.UTC
	}
	return &Store{client: client, ttl: ttl, loc: loc}
}

// Create сохраняет новую сессию
func (s *Store) Create(ctx context.Context, session *domain.BookingSession) error {
	data, err := json.Marshal(toRecord(session))
	if err != nil {
		return fmt.Errorf("%w: Create: %v", ErrMarshal, err)
	}

	ok, err := s.client.SetNX(ctx, dataKey(session.ID), data, s.ttl).Result()
	if err != nil {
		return fmt.Errorf("%w: Create - set session: %v", ErrRedis, err)
	}
	if !ok {
		return ErrSessionAlreadyExists
	}

	if err := s.client.Set(ctx, genKey(session.ID), session.Generation, s.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Create - set generation: %v", ErrRedis, err)
	}

	return nil
}

// Get получает текущий снимок сессии
func (s *Store) Get(ctx context.Context, id string) (*domain.BookingSession, error) {
	data, err := s.client.Get(ctx, dataKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get: %v", ErrRedis, err)
	}

	var rec sessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%w: Get: %v", ErrUnmarshal, err)
	}

	session, err := rec.toDomain(s.loc)
	if err != nil {
		return nil, fmt.Errorf("%w: Get - convert: %v", ErrUnmarshal, err)
	}

	return session, nil
}

// NextGeneration резервирует следующее поколение для изменения сессии
// Все ранее выданные поколения становятся устаревшими
func (s *Store) NextGeneration(ctx context.Context, id string) (int64, error) {
	exists, err := s.client.Exists(ctx, dataKey(id)).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: NextGeneration - exists: %v", ErrRedis, err)
	}
	if exists == 0 {
		return 0, ErrSessionNotFound
	}

	var incr *redis.IntCmd
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, genKey(id))
		pipe.Expire(ctx, genKey(id), s.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: NextGeneration - incr: %v", ErrRedis, err)
	}

	return incr.Val(), nil
}

// SaveIfCurrent сохраняет снимок, если session.Generation все еще последнее выданное поколение
// Иначе возвращает ErrStaleGeneration и ничего не меняет
func (s *Store) SaveIfCurrent(ctx context.Context, session *domain.BookingSession) error {
	data, err := json.Marshal(toRecord(session))
	if err != nil {
		return fmt.Errorf("%w: SaveIfCurrent: %v", ErrMarshal, err)
	}

	gk := genKey(session.ID)
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, gk).Int64()
		if errors.Is(err, redis.Nil) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: SaveIfCurrent - get generation: %v", ErrRedis, err)
		}
		if current != session.Generation {
			return ErrStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, dataKey(session.ID), data, s.ttl)
			pipe.Expire(ctx, gk, s.ttl)
			return nil
		})
		return err
	}, gk)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.TxFailedErr):
		// Поколение изменилось между проверкой и записью
		return ErrStaleGeneration
	case errors.Is(err, ErrStaleGeneration), errors.Is(err, ErrSessionNotFound), errors.Is(err, ErrRedis):
		return err
	default:
		return fmt.Errorf("%w: SaveIfCurrent - exec: %v", ErrRedis, err)
	}
}

func dataKey(id string) string {
	return keyPrefix + id
}

func genKey(id string) string {
	return keyPrefix + id + ":gen"
}
