package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// SessionRepository implements the live-session repository for PostgreSQL
type SessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(pool *pgxpool.Pool) repository.Session {
	return &SessionRepository{pool: pool}
}

const sqlCreateSession = `
INSERT INTO live_sessions (id, owner_id, handle, status, started_at, total_likes, total_diamonds, max_viewers)
VALUES ($1, $2, $3, $4, $5, 0, 0, 0)`

// Create inserts a new session row
func (r *SessionRepository) Create(ctx context.Context, session *domain.LiveSession) error {
	_, err := r.pool.Exec(ctx, sqlCreateSession,
		session.ID, session.OwnerID, session.Handle, string(session.Status), session.StartedAt)
	if err != nil {
		return fmt.Errorf("failed to create live session: %w", err)
	}
	return nil
}

const sqlGetOpenByOwner = `
SELECT id, owner_id, handle, status, started_at, ended_at, total_likes, total_diamonds, max_viewers
FROM live_sessions
WHERE owner_id = $1 AND status = $2
ORDER BY started_at DESC
LIMIT 1`

// GetOpenByOwner returns the owner's LIVE session if one exists
func (r *SessionRepository) GetOpenByOwner(ctx context.Context, ownerID string) (*domain.LiveSession, error) {
	row := r.pool.QueryRow(ctx, sqlGetOpenByOwner, ownerID, string(domain.SessionLive))

	var s domain.LiveSession
	var status string
	err := row.Scan(&s.ID, &s.OwnerID, &s.Handle, &status, &s.StartedAt, &s.EndedAt,
		&s.TotalLikes, &s.TotalDiamonds, &s.MaxViewers)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to query open session: %w", err)
	}
	s.Status = domain.SessionStatus(status)
	return &s, nil
}

const sqlCloseAllOpen = `
UPDATE live_sessions
SET status = $3, ended_at = $2
WHERE owner_id = $1 AND status = $4`

// CloseAllOpen ends every LIVE session for the owner
func (r *SessionRepository) CloseAllOpen(ctx context.Context, ownerID string, endedAt time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, sqlCloseAllOpen,
		ownerID, endedAt, string(domain.SessionEnded), string(domain.SessionLive))
	if err != nil {
		return 0, fmt.Errorf("failed to close open sessions: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

const sqlAddSessionTotals = `
UPDATE live_sessions
SET total_likes = total_likes + $2,
    total_diamonds = total_diamonds + $3,
    max_viewers = GREATEST(max_viewers, $4)
WHERE id = $1`

// AddTotals adds window totals and raises the max viewer watermark
func (r *SessionRepository) AddTotals(ctx context.Context, sessionID string, likes, diamonds int64, windowMaxViewers int) error {
	tag, err := r.pool.Exec(ctx, sqlAddSessionTotals, sessionID, likes, diamonds, windowMaxViewers)
	if err != nil {
		return fmt.Errorf("failed to add session totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
