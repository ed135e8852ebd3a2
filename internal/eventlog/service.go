package eventlog

import (
	"context"

	"github.com/kalevra/GiftRally_Go/internal/event"
	"github.com/kalevra/GiftRally_Go/internal/logger"
)

// Service persists every published engagement event as an audit trail
type Service interface {
	// Subscribe registers the audit logger on every event type the core publishes
	Subscribe(bus event.Bus) error

	// CleanupOldEvents removes events older than the retention period
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}

type service struct {
	repo Repository
}

// NewService creates a new audit log service
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Subscribe registers the persistence handler for all published event types
func (s *service) Subscribe(bus event.Bus) error {
	eventTypes := []event.Type{
		event.GoalProgress,
		event.GoalLotteryWinner,
		event.GoalReset,
		event.AchievementUnlocked,
		event.SessionStarted,
		event.SessionEnded,
	}

	for _, eventType := range eventTypes {
		bus.Subscribe(eventType, s.handleEvent)
	}

	return nil
}

// handleEvent writes one published event to the audit log
func (s *service) handleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	subjectID := subjectOf(evt.Payload)

	if err := s.repo.LogEvent(ctx, string(evt.Type), subjectID, evt.Payload); err != nil {
		log.Error(LogMsgFailedToLogEvent, LogFieldError, err, LogFieldType, evt.Type)
		return err
	}

	log.Debug(LogMsgEventLogged, LogFieldType, evt.Type, LogFieldSubjectID, subjectID)
	return nil
}

// subjectOf extracts the host or viewer a payload is about, nil when unknown
func subjectOf(payload any) *string {
	var id string
	switch p := payload.(type) {
	case event.GoalProgressPayloadV1:
		id = p.HostID
	case event.GoalResetPayloadV1:
		id = p.HostID
	case event.LotteryWinnerPayloadV1:
		id = p.WinnerUserID
	case event.AchievementUnlockedPayloadV1:
		id = p.UserID
	case event.SessionPayloadV1:
		id = p.OwnerID
	default:
		return nil
	}
	if id == "" {
		return nil
	}
	return &id
}

// CleanupOldEvents removes events older than the retention period
func (s *service) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	return s.repo.CleanupOldEvents(ctx, retentionDays)
}
