package sse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_SubscribePublish(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe(ChannelAdmin)
	defer cleanup()

	hub.Publish(ChannelAdmin, Event{Name: "break_started", Data: "payload"})

	select {
	case ev := <-ch:
		assert.Equal(t, "break_started", ev.Name)
		assert.Equal(t, "payload", ev.Data)
	default:
		t.Fatal("expected event on admin channel")
	}
}

func TestHub_PublishToOtherChannelNotDelivered(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe(SupervisorChannel("leader-1"))
	defer cleanup()

	hub.Publish(SupervisorChannel("leader-2"), Event{Name: "break_started"})
	hub.Publish(ChannelAdmin, Event{Name: "break_started"})

	assert.Empty(t, ch)
}

func TestHub_CleanupLeavesChannel(t *testing.T) {
	hub := NewHub()

	_, cleanup1 := hub.Subscribe(UserChannel("u1"))
	_, cleanup2 := hub.Subscribe(UserChannel("u1"))
	require.Equal(t, 2, hub.SubscriberCount(UserChannel("u1")))

	cleanup1()
	assert.Equal(t, 1, hub.SubscriberCount(UserChannel("u1")))

	cleanup2()
	assert.Equal(t, 0, hub.SubscriberCount(UserChannel("u1")))
	assert.Equal(t, 0, hub.TotalSubscribers())
}

func TestHub_PublishDoesNotBlockOnFullBuffer(t *testing.T) {
	hub := NewHub()

	ch, cleanup := hub.Subscribe(ChannelAdmin)
	defer cleanup()

	// Buffer is 10; publishing more must drop, not deadlock.
	for i := 0; i < 25; i++ {
		hub.Publish(ChannelAdmin, Event{Name: "break_ended"})
	}

	assert.Len(t, ch, 10)
}

func TestHub_MultipleSubscribersEachReceive(t *testing.T) {
	hub := NewHub()

	ch1, cleanup1 := hub.Subscribe(ChannelAdmin)
	defer cleanup1()
	ch2, cleanup2 := hub.Subscribe(ChannelAdmin)
	defer cleanup2()

	hub.Publish(ChannelAdmin, Event{Name: "break_started"})

	assert.Len(t, ch1, 1)
	assert.Len(t, ch2, 1)
}
