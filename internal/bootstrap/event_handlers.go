package bootstrap

import (
	"log/slog"

	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/eventlog"
	"github.com/kalevra/GiftRally_Go/internal/sse"
)

// EventConsumerDependencies holds the dependencies needed to attach
// event consumers to the bus.
type EventConsumerDependencies struct {
	EventBus        event.Bus
	SSEHub          *sse.Hub
	EventLogService eventlog.Service
}

// RegisterEventConsumers attaches every bus consumer: the SSE subscriber
// that relays goal, achievement, and session events to connected overlay
// clients, and the audit logger that persists every published event.
func RegisterEventConsumers(deps EventConsumerDependencies) error {
	subscriber := sse.NewSubscriber(deps.SSEHub, deps.EventBus)
	subscriber.Subscribe()

	if err := deps.EventLogService.Subscribe(deps.EventBus); err != nil {
		return err
	}

	slog.Info(LogMsgEventConsumersAttached)
	return nil
}
