package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// SubmissionRepository implements the submission repository for PostgreSQL
type SubmissionRepository struct {
	pool *pgxpool.Pool
}

// NewSubmissionRepository creates a new SubmissionRepository
func NewSubmissionRepository(pool *pgxpool.Pool) repository.Submission {
	return &SubmissionRepository{pool: pool}
}

const sqlGetActiveByHost = `
SELECT id, host_id, user_id, title, active, paid_priority, free_skips, avg_viewer_count, poll_win_percent, created_at
FROM submissions
WHERE host_id = $1 AND active = TRUE
ORDER BY created_at DESC
LIMIT 1`

// GetActiveByHost returns the host's currently tracked submission
func (r *SubmissionRepository) GetActiveByHost(ctx context.Context, hostID string) (*domain.Submission, error) {
	row := r.pool.QueryRow(ctx, sqlGetActiveByHost, hostID)

	var s domain.Submission
	err := row.Scan(&s.ID, &s.HostID, &s.UserID, &s.Title, &s.Active, &s.PaidPriority,
		&s.FreeSkips, &s.AvgViewerCount, &s.PollWinPercent, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSubmissionNotFound
		}
		return nil, fmt.Errorf("failed to query active submission: %w", err)
	}
	return &s, nil
}

const sqlSetWindowMetrics = `
UPDATE submissions
SET avg_viewer_count = COALESCE($2, avg_viewer_count),
    poll_win_percent = COALESCE($3, poll_win_percent)
WHERE id = $1`

// SetWindowMetrics stores the flush window's viewer average and
// implicit-poll win percentage. A nil value keeps the stored one.
func (r *SubmissionRepository) SetWindowMetrics(ctx context.Context, submissionID string, avgViewers, winPercent *float64) error {
	tag, err := r.pool.Exec(ctx, sqlSetWindowMetrics, submissionID, avgViewers, winPercent)
	if err != nil {
		return fmt.Errorf("failed to set submission metrics: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSubmissionNotFound
	}
	return nil
}
