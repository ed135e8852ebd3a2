package sse

import (
	"context"
	"log/slog"

	"github.com/kalevra/GiftRally_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub. Every goal
// and achievement event published by the engines is re-broadcast to
// overlay clients under the bus type name.
type Subscriber struct {
	hub *Hub
	bus event.Bus
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub, bus event.Bus) *Subscriber {
	return &Subscriber{hub: hub, bus: bus}
}

// Subscribe registers handlers for every broadcast-worthy event type
func (s *Subscriber) Subscribe() {
	types := []event.Type{
		event.GoalProgress,
		event.GoalLotteryWinner,
		event.GoalReset,
		event.AchievementUnlocked,
		event.SessionStarted,
		event.SessionEnded,
	}
	for _, t := range types {
		s.bus.Subscribe(t, s.relay)
	}

	slog.Info("SSE subscriber registered for event types", "types", types)
}

// relay forwards a bus event to the hub. Payloads are already typed
// structs; they serialize as-is.
func (s *Subscriber) relay(_ context.Context, evt event.Event) error {
	s.hub.Broadcast(string(evt.Type), evt.Payload)
	slog.Debug(LogMsgEventBroadcast, "event_type", string(evt.Type))
	return nil
}
