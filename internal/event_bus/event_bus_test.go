package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	t.Run("delivers events to subscribers of the type", func(t *testing.T) {
		bus := NewEventBus()
		var received []Event
		bus.Subscribe(EventTypeWindowSynced, func(e Event) error {
			received = append(received, e)
			return nil
		})

		bus.Publish(NewEvent(context.Background(), EventTypeWindowSynced, WindowSynced{UserId: 1, EventCount: 3}))
		bus.Publish(NewEvent(context.Background(), EventTypeCalendarConnected, 1))

		require.Len(t, received, 1)
		payload, ok := received[0].Data.(WindowSynced)
		require.True(t, ok)
		assert.Equal(t, 3, payload.EventCount)
	})

	t.Run("a failing handler does not block later handlers", func(t *testing.T) {
		bus := NewEventBus()
		bus.Subscribe(EventTypeCalendarConnected, func(e Event) error {
			return errors.New("boom")
		})
		called := false
		bus.Subscribe(EventTypeCalendarConnected, func(e Event) error {
			called = true
			return nil
		})

		bus.Publish(NewEvent(context.Background(), EventTypeCalendarConnected, 1))

		assert.True(t, called)
	})

	t.Run("event without a context falls back to background", func(t *testing.T) {
		e := Event{Type: EventTypeCalendarConnected}
		assert.Equal(t, context.Background(), e.Context())
	})
}
