package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/base"
	"github.com/google/uuid"
)

type OutboxRepository struct {
	*base.Repository
}

func NewOutboxRepository(db base.Querier) *OutboxRepository {
	return &OutboxRepository{Repository: base.NewRepository(db)}
}

// AppendEvent пишет событие в outbox
func (r *OutboxRepository) AppendEvent(ctx context.Context, event *model.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	query := `
		INSERT INTO outbox_events (id, event_type, aggregate_id, payload)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.QueryRow(ctx, query, event.ID, event.Type, event.AggregateID, event.Payload).Scan(&event.CreatedAt)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// FetchUnpublished блокирует и возвращает неопубликованные события.
// Вызывать только внутри транзакции.
func (r *OutboxRepository) FetchUnpublished(ctx context.Context, limit int) ([]model.Event, error) {
	query := `
		SELECT id, event_type, aggregate_id, payload, created_at
		FROM outbox_events
		WHERE published_at IS NULL
		ORDER BY created_at, id
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`

	rows, err := r.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var event model.Event
		if err := rows.Scan(&event.ID, &event.Type, &event.AggregateID, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}

	return events, rows.Err()
}

// MarkPublished помечает события опубликованными
func (r *OutboxRepository) MarkPublished(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE outbox_events
		SET published_at = NOW()
		WHERE id = ANY($1)
	`

	if _, err := r.ExecAffected(ctx, query, ids); err != nil {
		return fmt.Errorf("mark published: %w", err)
	}

	return nil
}
