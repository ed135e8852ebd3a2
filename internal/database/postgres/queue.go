package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// QueueRepository implements the narrow queue-collaborator surface for
// PostgreSQL. The queue's ordering and merge logic live in the queue
// service; this only lists free entries and grants skips.
type QueueRepository struct {
	pool *pgxpool.Pool
}

// NewQueueRepository creates a new QueueRepository
func NewQueueRepository(pool *pgxpool.Pool) repository.Queue {
	return &QueueRepository{pool: pool}
}

const sqlListFreeEntries = `
SELECT id, host_id, user_id, title, active, paid_priority, free_skips, avg_viewer_count, poll_win_percent, created_at
FROM submissions
WHERE host_id = $1 AND active = TRUE AND paid_priority = FALSE
ORDER BY created_at ASC`

// ListFreeEntries returns the host's free (non-paid-priority) queue entries
func (r *QueueRepository) ListFreeEntries(ctx context.Context, hostID string) ([]domain.Submission, error) {
	rows, err := r.pool.Query(ctx, sqlListFreeEntries, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list free queue entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.Submission
	for rows.Next() {
		var s domain.Submission
		if err := rows.Scan(&s.ID, &s.HostID, &s.UserID, &s.Title, &s.Active, &s.PaidPriority,
			&s.FreeSkips, &s.AvgViewerCount, &s.PollWinPercent, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue entry: %w", err)
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

const sqlApplyFreeSkip = `
UPDATE submissions
SET free_skips = free_skips + 1
WHERE host_id = $1 AND user_id = $2 AND active = TRUE`

// ApplyFreeSkip grants one free priority skip to the user's active submission
func (r *QueueRepository) ApplyFreeSkip(ctx context.Context, hostID, userID string) error {
	tag, err := r.pool.Exec(ctx, sqlApplyFreeSkip, hostID, userID)
	if err != nil {
		return fmt.Errorf("failed to apply free skip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}
