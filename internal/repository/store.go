package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/base"
	"github.com/Freeeeeet/room_booking/internal/service"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// slotDayLockClass первый ключ pg_advisory_xact_lock для блокировок календарных дней
const slotDayLockClass int32 = 0x534c

// PgTx набор репозиториев поверх одной транзакции или пула
type PgTx struct {
	*RoomRepository
	*AccountRepository
	*SlotRepository
	*OutboxRepository
}

func newPgTx(db base.Querier) *PgTx {
	return &PgTx{
		RoomRepository:    NewRoomRepository(db),
		AccountRepository: NewAccountRepository(db),
		SlotRepository:    NewSlotRepository(db),
		OutboxRepository:  NewOutboxRepository(db),
	}
}

// PgStore хранилище на PostgreSQL
type PgStore struct {
	*PgTx
	pool *pgxpool.Pool
}

var _ service.Store = (*PgStore)(nil)

// NewPgStore создаёт хранилище поверх пула соединений
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{
		PgTx: newPgTx(pool),
		pool: pool,
	}
}

// Within выполняет fn в транзакции
func (s *PgStore) Within(ctx context.Context, fn func(ctx context.Context, tx service.Tx) error) error {
	return s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(ctx, newPgTx(tx))
	})
}

// WithinDay выполняет fn в транзакции под advisory lock на календарный день
func (s *PgStore) WithinDay(ctx context.Context, day time.Time, fn func(ctx context.Context, tx service.Tx) error) error {
	return s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, slotDayLockClass, dayLockKey(day)); err != nil {
			return fmt.Errorf("lock day: %w", err)
		}
		return fn(ctx, newPgTx(tx))
	})
}

// PublishPending публикует пачку событий outbox
func (s *PgStore) PublishPending(ctx context.Context, limit int, publish service.PublishFunc) (int, error) {
	published := 0
	err := s.inTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		outbox := NewOutboxRepository(tx)

		events, err := outbox.FetchUnpublished(ctx, limit)
		if err != nil {
			return err
		}

		var (
			ids        []uuid.UUID
			publishErr error
		)
		for _, event := range events {
			if publishErr = publish(ctx, event); publishErr != nil {
				break
			}
			ids = append(ids, event.ID)
		}

		if err := outbox.MarkPublished(ctx, ids); err != nil {
			return err
		}
		published = len(ids)

		// Уже отправленные события фиксируем даже при ошибке на следующем
		if publishErr != nil {
			if err := tx.Commit(ctx); err != nil {
				return fmt.Errorf("commit tx: %w", err)
			}
			return errCommitted{publishErr}
		}
		return nil
	})

	var committed errCommitted
	if errors.As(err, &committed) {
		return published, fmt.Errorf("publish event: %w", committed.err)
	}
	if err != nil {
		return 0, err
	}
	return published, nil
}

// Ping проверяет соединение с базой
func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PgStore) inTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if base.IsUniqueViolation(err) {
			return model.ErrSlotConflict
		}
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// errCommitted ошибка, возникшая после того как транзакция уже зафиксирована
type errCommitted struct {
	err error
}

func (e errCommitted) Error() string {
	return e.err.Error()
}

// dayLockKey номер дня от начала эпохи в UTC
func dayLockKey(day time.Time) int32 {
	return int32(model.DayStart(day.UTC()).Unix() / int64(24*time.Hour/time.Second))
}
