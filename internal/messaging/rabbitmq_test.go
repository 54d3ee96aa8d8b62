package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/room_booking/internal/model"
)

type fakeChannel struct {
	err       error
	nack      bool
	calls     int
	published []amqp.Publishing
	keys      []string
}

func (c *fakeChannel) PublishConfirmed(_ context.Context, key string, msg amqp.Publishing) (bool, error) {
	c.calls++
	if c.err != nil {
		return false, c.err
	}
	c.keys = append(c.keys, key)
	c.published = append(c.published, msg)
	return !c.nack, nil
}

func (c *fakeChannel) Close() error {
	return nil
}

func TestBrokerPublish(t *testing.T) {
	ch := &fakeChannel{}
	broker := newBroker(ch, "slot_events", zap.NewNop())

	event := model.Event{
		ID:          uuid.New(),
		Type:        model.EventSlotBooked,
		AggregateID: "A@2019-01-01T13:00:00Z",
		Payload:     []byte(`{"roomId":"A"}`),
	}
	require.NoError(t, broker.Publish(context.Background(), event))

	require.Len(t, ch.published, 1)
	assert.Equal(t, []string{"slot_events"}, ch.keys)
	msg := ch.published[0]
	assert.Equal(t, event.ID.String(), msg.MessageId)
	assert.Equal(t, model.EventSlotBooked, msg.Type)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, event.AggregateID, msg.Headers["aggregate_id"])
	assert.Equal(t, event.Payload, msg.Body)
}

func TestBrokerBreakerOpens(t *testing.T) {
	ch := &fakeChannel{err: errors.New("connection reset")}
	broker := newBroker(ch, "slot_events", zap.NewNop())
	event := model.Event{ID: uuid.New(), Type: model.EventSlotCreated}

	for i := 0; i < 3; i++ {
		assert.Error(t, broker.Publish(context.Background(), event))
	}
	assert.Equal(t, gobreaker.StateOpen, broker.cb.State())

	err := broker.Publish(context.Background(), event)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, ch.calls)
}

func TestBrokerPublishNack(t *testing.T) {
	ch := &fakeChannel{nack: true}
	broker := newBroker(ch, "slot_events", zap.NewNop())

	err := broker.Publish(context.Background(), model.Event{ID: uuid.New(), Type: model.EventSlotRemoved})
	assert.ErrorIs(t, err, ErrNotConfirmed)
	assert.Equal(t, 1, ch.calls)
}
