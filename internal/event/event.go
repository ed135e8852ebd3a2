package event

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Event represents a generic event in the system
type Event struct {
	Version string      `json:"version"` // Event schema version (e.g., "1.0")
	Type    Type        `json:"type"`
	Payload interface{} `json:"payload"`
}

// Event types published by this core
const (
	GoalProgress        Type = "goal.progress"
	GoalLotteryWinner   Type = "goal.lottery_winner"
	GoalReset           Type = "goal.reset"
	AchievementUnlocked Type = "achievement.unlocked"
	SessionStarted      Type = "session.started"
	SessionEnded        Type = "session.ended"
)

// Typed event payloads

// GoalProgressPayloadV1 carries a goal's progress after a contribution
type GoalProgressPayloadV1 struct {
	HostID      string          `json:"host_id"`
	GoalType    domain.GoalType `json:"goal_type"`
	Description string          `json:"description"`
	Progress    int64           `json:"progress"`
	Target      int64           `json:"target"`
}

// LotteryWinnerPayloadV1 announces a lottery draw
type LotteryWinnerPayloadV1 struct {
	HostID       string          `json:"host_id"`
	GoalType     domain.GoalType `json:"goal_type"`
	WinnerUserID string          `json:"winner_user_id"`
	SubmissionID string          `json:"submission_id"`
	Timestamp    int64           `json:"timestamp"`
}

// GoalResetPayloadV1 carries the fresh goal state after a lottery
type GoalResetPayloadV1 struct {
	HostID        string          `json:"host_id"`
	GoalType      domain.GoalType `json:"goal_type"`
	Description   string          `json:"description"`
	NewTarget     int64           `json:"new_target"`
	CooldownUntil time.Time       `json:"cooldown_until"`
}

// AchievementUnlockedPayloadV1 announces one achievement unlock
type AchievementUnlockedPayloadV1 struct {
	UserID        string `json:"user_id"`
	AchievementID int    `json:"achievement_id"`
	Slug          string `json:"slug"`
	Title         string `json:"title"`
	Timestamp     int64  `json:"timestamp"`
}

// SessionPayloadV1 carries session open/close notifications
type SessionPayloadV1 struct {
	SessionID string `json:"session_id"`
	OwnerID   string `json:"owner_id"`
	Handle    string `json:"handle"`
	Timestamp int64  `json:"timestamp"`
}

// Type-safe event constructors

// NewGoalProgressEvent creates a goal progress event
func NewGoalProgressEvent(goal *domain.CommunityGoal) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GoalProgress,
		Payload: GoalProgressPayloadV1{
			HostID:      goal.HostID,
			GoalType:    goal.Type,
			Description: goal.Description,
			Progress:    goal.Progress,
			Target:      goal.Target,
		},
	}
}

// NewLotteryWinnerEvent creates a lottery winner announcement
func NewLotteryWinnerEvent(hostID string, goalType domain.GoalType, winnerUserID, submissionID string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    GoalLotteryWinner,
		Payload: LotteryWinnerPayloadV1{
			HostID:       hostID,
			GoalType:     goalType,
			WinnerUserID: winnerUserID,
			SubmissionID: submissionID,
			Timestamp:    time.Now().Unix(),
		},
	}
}

// NewGoalResetEvent creates a goal reset event
func NewGoalResetEvent(goal *domain.CommunityGoal) Event {
	var cooldownUntil time.Time
	if goal.CooldownUntil != nil {
		cooldownUntil = *goal.CooldownUntil
	}
	return Event{
		Version: EventSchemaVersion,
		Type:    GoalReset,
		Payload: GoalResetPayloadV1{
			HostID:        goal.HostID,
			GoalType:      goal.Type,
			Description:   goal.Description,
			NewTarget:     goal.Target,
			CooldownUntil: cooldownUntil,
		},
	}
}

// NewAchievementUnlockedEvent creates an unlock announcement
func NewAchievementUnlockedEvent(userID string, achievementID int, slug, title string) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    AchievementUnlocked,
		Payload: AchievementUnlockedPayloadV1{
			UserID:        userID,
			AchievementID: achievementID,
			Slug:          slug,
			Title:         title,
			Timestamp:     time.Now().Unix(),
		},
	}
}

// NewSessionStartedEvent creates a session started event
func NewSessionStartedEvent(session *domain.LiveSession) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SessionStarted,
		Payload: SessionPayloadV1{
			SessionID: session.ID,
			OwnerID:   session.OwnerID,
			Handle:    session.Handle,
			Timestamp: time.Now().Unix(),
		},
	}
}

// NewSessionEndedEvent creates a session ended event
func NewSessionEndedEvent(session *domain.LiveSession) Event {
	return Event{
		Version: EventSchemaVersion,
		Type:    SessionEnded,
		Payload: SessionPayloadV1{
			SessionID: session.ID,
			OwnerID:   session.OwnerID,
			Handle:    session.Handle,
			Timestamp: time.Now().Unix(),
		},
	}
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish publishes an event to all subscribers synchronously
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers, ok := b.handlers[event.Type]
	b.mu.RUnlock()

	if !ok {
		return nil
	}

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
