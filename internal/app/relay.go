package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/service"
	"go.uber.org/zap"
)

// relayBatchSize сколько событий outbox публикуется за один проход
const relayBatchSize = 100

// EventPublisher отправляет события слотов наружу
type EventPublisher interface {
	Publish(ctx context.Context, event model.Event) error
}

// Relay периодически переносит события из outbox в брокер
type Relay struct {
	store     service.Store
	publisher EventPublisher
	interval  time.Duration
	logger    *zap.Logger
}

// NewRelay создаёт relay
func NewRelay(store service.Store, publisher EventPublisher, interval time.Duration, logger *zap.Logger) *Relay {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Relay{
		store:     store,
		publisher: publisher,
		interval:  interval,
		logger:    logger,
	}
}

// Run публикует события до отмены ctx
func (r *Relay) Run(ctx context.Context) error {
	r.logger.Info("Starting outbox relay", zap.Duration("interval", r.interval))

	// Первый проход сразу при старте
	r.Flush(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Flush(ctx)
		case <-ctx.Done():
			r.logger.Info("Outbox relay stopped")
			return nil
		}
	}
}

// Flush публикует пачки событий, пока outbox не опустеет или не случится ошибка
func (r *Relay) Flush(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		n, err := r.store.PublishPending(ctx, relayBatchSize, r.publisher.Publish)
		total += n
		if err != nil {
			r.logger.Error("Failed to publish outbox events", zap.Error(err), zap.Int("published", n))
			break
		}
		if n < relayBatchSize {
			break
		}
	}

	if total > 0 {
		r.logger.Info("Outbox events published", zap.Int("count", total))
	}
	return total
}
