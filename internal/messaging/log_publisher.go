package messaging

import (
	"context"

	"github.com/Freeeeeet/room_booking/internal/model"
	"go.uber.org/zap"
)

// LogPublisher пишет события в лог, когда RabbitMQ не настроен
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event model.Event) error {
	p.logger.Info("Slot event",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.Type),
		zap.String("aggregate_id", event.AggregateID),
		zap.ByteString("payload", event.Payload),
	)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
