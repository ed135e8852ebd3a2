package eventlog

import (
	"context"
	"time"
)

// Event is one persisted row of the engagement audit log
type Event struct {
	ID        int64                  `json:"id"`
	EventType string                 `json:"event_type"`
	SubjectID *string                `json:"subject_id,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	CreatedAt time.Time              `json:"created_at"`
}

// EventFilter filters audit log queries
type EventFilter struct {
	SubjectID *string
	EventType *string
	Since     *time.Time
	Until     *time.Time
	Limit     int
}

// Repository defines the interface for audit log storage
type Repository interface {
	// LogEvent stores one event. The payload is marshaled to JSON as-is.
	LogEvent(ctx context.Context, eventType string, subjectID *string, payload any) error

	// GetEvents retrieves events matching the filter, newest first
	GetEvents(ctx context.Context, filter EventFilter) ([]Event, error)

	// GetEventsBySubject retrieves events about one host or viewer
	GetEventsBySubject(ctx context.Context, subjectID string, limit int) ([]Event, error)

	// GetEventsByType retrieves events of one type
	GetEventsByType(ctx context.Context, eventType string, limit int) ([]Event, error)

	// CleanupOldEvents removes events older than the given number of days
	CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error)
}
