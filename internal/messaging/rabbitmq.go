package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/room_booking/internal/model"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// publishTimeout сколько ждём подтверждения публикации одного события
const publishTimeout = 5 * time.Second

// ErrNotConfirmed брокер ответил nack на публикацию
var ErrNotConfirmed = errors.New("publish not confirmed by broker")

// channel публикует в очередь по умолчанию и ждёт подтверждения брокера.
// ack == false означает nack.
type channel interface {
	PublishConfirmed(ctx context.Context, key string, msg amqp.Publishing) (ack bool, err error)
	Close() error
}

// confirmChannel канал RabbitMQ в режиме publisher confirms
type confirmChannel struct {
	*amqp.Channel
}

func (c confirmChannel) PublishConfirmed(ctx context.Context, key string, msg amqp.Publishing) (bool, error) {
	confirm, err := c.PublishWithDeferredConfirmWithContext(ctx, "", key, false, false, msg)
	if err != nil {
		return false, err
	}
	return confirm.WaitContext(ctx)
}

// RabbitMQBroker публикует события слотов в очередь RabbitMQ
type RabbitMQBroker struct {
	conn      *amqp.Connection
	ch        channel
	queueName string
	cb        *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewRabbitMQBroker подключается к RabbitMQ и объявляет очередь queueName
func NewRabbitMQBroker(amqpURL, queueName string, logger *zap.Logger) (*RabbitMQBroker, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Очередь durable, объявление идемпотентно
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}

	if err := ch.Confirm(false); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("enable publisher confirms: %w", err)
	}

	broker := newBroker(confirmChannel{Channel: ch}, queueName, logger)
	broker.conn = conn
	return broker, nil
}

func newBroker(ch channel, queueName string, logger *zap.Logger) *RabbitMQBroker {
	return &RabbitMQBroker{
		ch:        ch,
		queueName: queueName,
		cb:        NewCircuitBreaker("RabbitMQ-Publisher", 30*time.Second, logger),
		logger:    logger,
	}
}

// Publish отправляет событие в очередь через circuit breaker и ждёт ack брокера
func (b *RabbitMQBroker) Publish(ctx context.Context, event model.Event) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_, err := b.cb.Execute(func() (interface{}, error) {
		ack, err := b.ch.PublishConfirmed(
			ctx,
			b.queueName, // routing key == имя очереди, exchange по умолчанию
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    event.ID.String(),
				Type:         event.Type,
				Timestamp:    event.CreatedAt,
				Headers: amqp.Table{
					"aggregate_id": event.AggregateID,
				},
				Body: event.Payload,
			},
		)
		if err == nil && !ack {
			err = ErrNotConfirmed
		}
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	b.logger.Debug("Event published",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.Type),
		zap.String("aggregate_id", event.AggregateID),
	)

	return nil
}

// Close закрывает канал и соединение
func (b *RabbitMQBroker) Close() error {
	if b.ch != nil {
		if err := b.ch.Close(); err != nil {
			return err
		}
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}
