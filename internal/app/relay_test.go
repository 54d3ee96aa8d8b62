package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/room_booking/internal/model"
	"github.com/Freeeeeet/room_booking/internal/repository/memory"
	"github.com/Freeeeeet/room_booking/internal/service"
)

type recordingPublisher struct {
	fail   bool
	events []model.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event model.Event) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.events = append(p.events, event)
	return nil
}

func appendEvents(t *testing.T, store *memory.Store, n int) {
	t.Helper()
	err := store.Within(context.Background(), func(ctx context.Context, tx service.Tx) error {
		for i := 0; i < n; i++ {
			if err := tx.AppendEvent(ctx, &model.Event{Type: model.EventSlotCreated}); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)
}

func TestRelayFlush(t *testing.T) {
	store := memory.NewStore()
	appendEvents(t, store, relayBatchSize+5)

	publisher := &recordingPublisher{}
	relay := NewRelay(store, publisher, time.Minute, zap.NewNop())

	assert.Equal(t, relayBatchSize+5, relay.Flush(context.Background()))
	assert.Len(t, publisher.events, relayBatchSize+5)
	assert.Zero(t, relay.Flush(context.Background()))
}

func TestRelayKeepsEventsOnFailure(t *testing.T) {
	store := memory.NewStore()
	appendEvents(t, store, 2)

	publisher := &recordingPublisher{fail: true}
	relay := NewRelay(store, publisher, time.Minute, zap.NewNop())

	assert.Zero(t, relay.Flush(context.Background()))

	publisher.fail = false
	assert.Equal(t, 2, relay.Flush(context.Background()))
}

func TestRelayRunStopsOnCancel(t *testing.T) {
	store := memory.NewStore()
	appendEvents(t, store, 1)
	publisher := &recordingPublisher{}
	relay := NewRelay(store, publisher, 10*time.Millisecond, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- relay.Run(ctx) }()

	require.Eventually(t, func() bool {
		return len(store.Events()) == 1 && store.Events()[0].PublishedAt != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
