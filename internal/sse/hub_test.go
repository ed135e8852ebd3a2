package sse

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/testing/leaktest"
)

func receiveEvent(t *testing.T, ch chan Event) Event {
	t.Helper()
	select {
	case ev := <-ch:
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for SSE event")
		return Event{}
	}
}

func TestHub_BroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	clientA := hub.Register(nil)
	clientB := hub.Register(nil)

	assert.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("goal.progress", map[string]int64{"progress": 10})

	evA := receiveEvent(t, clientA.EventChannel)
	evB := receiveEvent(t, clientB.EventChannel)
	assert.Equal(t, "goal.progress", evA.Type)
	assert.Equal(t, "goal.progress", evB.Type)
	assert.NotEmpty(t, evA.ID)
}

func TestHub_FilterSkipsOtherTypes(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register([]string{"goal.lottery_winner"})
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast("goal.progress", nil)
	hub.Broadcast("goal.lottery_winner", nil)

	ev := receiveEvent(t, client.EventChannel)
	assert.Equal(t, "goal.lottery_winner", ev.Type)
	assert.Empty(t, client.EventChannel)
}

func TestHub_StopLeavesNoGoroutines(t *testing.T) {
	leaktest.CheckNoGoroutineLeak(t, func() {
		hub := NewHub()
		hub.Start()
		hub.Register(nil)
		hub.Stop()
	})
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	client := hub.Register(nil)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client.ID)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.EventChannel
	assert.False(t, open)
}

func TestFormatMessage(t *testing.T) {
	msg, err := FormatMessage(Event{ID: "e1", Type: "goal.reset", Timestamp: 42})
	require.NoError(t, err)
	assert.Contains(t, string(msg), "id: e1\n")
	assert.Contains(t, string(msg), "event: goal.reset\n")
	assert.Contains(t, string(msg), "data: ")
}

func TestSubscriber_RelaysBusEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub, bus).Subscribe()

	client := hub.Register(nil)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	goal := &domain.CommunityGoal{HostID: "host1", Type: domain.GoalLikes, Progress: 100, Target: 10000}
	require.NoError(t, bus.Publish(context.Background(), event.NewGoalProgressEvent(goal)))

	ev := receiveEvent(t, client.EventChannel)
	assert.Equal(t, string(event.GoalProgress), ev.Type)
	payload, ok := ev.Payload.(event.GoalProgressPayloadV1)
	require.True(t, ok)
	assert.Equal(t, "host1", payload.HostID)
	assert.Equal(t, int64(100), payload.Progress)
}
