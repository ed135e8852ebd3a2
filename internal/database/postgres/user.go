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

// UserRepository implements the user repository for PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) repository.User {
	return &UserRepository{pool: pool}
}

const sqlGetUserByID = `
SELECT id, username, broadcast_handle, lifetime_likes, lifetime_diamonds, created_at
FROM users WHERE id = $1`

// GetByID fetches one user row
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, sqlGetUserByID, userID))
}

const sqlGetUserByHandle = `
SELECT id, username, broadcast_handle, lifetime_likes, lifetime_diamonds, created_at
FROM users WHERE broadcast_handle = $1`

// GetByHandle resolves a broadcast handle to its tracked owner
func (r *UserRepository) GetByHandle(ctx context.Context, handle string) (*domain.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, sqlGetUserByHandle, handle))
}

const sqlAddLifetimeTotals = `
UPDATE users
SET lifetime_likes = lifetime_likes + $2,
    lifetime_diamonds = lifetime_diamonds + $3
WHERE id = $1`

// AddLifetimeTotals increments the owner's lifetime counters
func (r *UserRepository) AddLifetimeTotals(ctx context.Context, userID string, likes, diamonds int64) error {
	tag, err := r.pool.Exec(ctx, sqlAddLifetimeTotals, userID, likes, diamonds)
	if err != nil {
		return fmt.Errorf("failed to add lifetime totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.BroadcastHandle, &u.LifetimeLikes, &u.LifetimeDiamonds, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}
