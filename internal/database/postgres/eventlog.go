package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/eventlog"
)

// EventLogRepository implements the audit log repository for PostgreSQL
type EventLogRepository struct {
	pool *pgxpool.Pool
}

// NewEventLogRepository creates a new EventLogRepository
func NewEventLogRepository(pool *pgxpool.Pool) eventlog.Repository {
	return &EventLogRepository{pool: pool}
}

const sqlInsertEvent = `
INSERT INTO engagement_events (event_type, subject_id, payload)
VALUES ($1, $2, $3)`

// LogEvent stores one event row
func (r *EventLogRepository) LogEvent(ctx context.Context, eventType string, subjectID *string, payload any) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	if _, err := r.pool.Exec(ctx, sqlInsertEvent, eventType, subjectID, payloadJSON); err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvents retrieves events matching the filter, newest first
func (r *EventLogRepository) GetEvents(ctx context.Context, filter eventlog.EventFilter) ([]eventlog.Event, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
SELECT id, event_type, subject_id, payload, created_at
FROM engagement_events
WHERE 1=1`)

	args := []interface{}{}
	argNum := 1

	if filter.SubjectID != nil {
		fmt.Fprintf(&queryBuilder, " AND subject_id = $%d", argNum)
		args = append(args, *filter.SubjectID)
		argNum++
	}

	if filter.EventType != nil {
		fmt.Fprintf(&queryBuilder, " AND event_type = $%d", argNum)
		args = append(args, *filter.EventType)
		argNum++
	}

	if filter.Since != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at >= $%d", argNum)
		args = append(args, *filter.Since)
		argNum++
	}

	if filter.Until != nil {
		fmt.Fprintf(&queryBuilder, " AND created_at <= $%d", argNum)
		args = append(args, *filter.Until)
		argNum++
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	if filter.Limit > 0 {
		fmt.Fprintf(&queryBuilder, " LIMIT $%d", argNum)
		args = append(args, filter.Limit)
	}

	rows, err := r.pool.Query(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

const sqlGetEventsBySubject = `
SELECT id, event_type, subject_id, payload, created_at
FROM engagement_events
WHERE subject_id = $1
ORDER BY created_at DESC
LIMIT $2`

// GetEventsBySubject retrieves events about one host or viewer
func (r *EventLogRepository) GetEventsBySubject(ctx context.Context, subjectID string, limit int) ([]eventlog.Event, error) {
	rows, err := r.pool.Query(ctx, sqlGetEventsBySubject, subjectID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events by subject: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

const sqlGetEventsByType = `
SELECT id, event_type, subject_id, payload, created_at
FROM engagement_events
WHERE event_type = $1
ORDER BY created_at DESC
LIMIT $2`

// GetEventsByType retrieves events of one type
func (r *EventLogRepository) GetEventsByType(ctx context.Context, eventType string, limit int) ([]eventlog.Event, error) {
	rows, err := r.pool.Query(ctx, sqlGetEventsByType, eventType, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events by type: %w", err)
	}
	defer rows.Close()

	return r.scanEvents(rows)
}

const sqlCleanupOldEvents = `
DELETE FROM engagement_events
WHERE created_at < NOW() - INTERVAL '1 day' * $1`

// CleanupOldEvents removes events older than the given number of days
func (r *EventLogRepository) CleanupOldEvents(ctx context.Context, retentionDays int) (int64, error) {
	result, err := r.pool.Exec(ctx, sqlCleanupOldEvents, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old events: %w", err)
	}
	return result.RowsAffected(), nil
}

func (r *EventLogRepository) scanEvents(rows pgx.Rows) ([]eventlog.Event, error) {
	var events []eventlog.Event

	for rows.Next() {
		var evt eventlog.Event
		var payloadJSON []byte

		if err := rows.Scan(&evt.ID, &evt.EventType, &evt.SubjectID, &payloadJSON, &evt.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err := json.Unmarshal(payloadJSON, &evt.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal event payload: %w", err)
		}

		events = append(events, evt)
	}

	return events, rows.Err()
}
