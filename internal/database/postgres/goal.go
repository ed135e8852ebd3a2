package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// GoalRepository implements the community-goal repository for PostgreSQL.
// Tickets are stored as a jsonb map alongside the scalar state.
type GoalRepository struct {
	pool *pgxpool.Pool
}

// NewGoalRepository creates a new GoalRepository
func NewGoalRepository(pool *pgxpool.Pool) repository.Goal {
	return &GoalRepository{pool: pool}
}

const sqlGetGoal = `
SELECT host_id, goal_type, description, target, progress, tickets, active, cooldown_until, updated_at
FROM community_goals
WHERE host_id = $1 AND goal_type = $2`

// Get returns the stored goal state, or nil when never initialized
func (r *GoalRepository) Get(ctx context.Context, hostID string, goalType domain.GoalType) (*domain.CommunityGoal, error) {
	row := r.pool.QueryRow(ctx, sqlGetGoal, hostID, string(goalType))

	goal, err := scanGoal(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query goal: %w", err)
	}
	return goal, nil
}

const sqlUpsertGoal = `
INSERT INTO community_goals (host_id, goal_type, description, target, progress, tickets, active, cooldown_until, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
ON CONFLICT (host_id, goal_type) DO UPDATE SET
	description = EXCLUDED.description,
	target = EXCLUDED.target,
	progress = EXCLUDED.progress,
	tickets = EXCLUDED.tickets,
	active = EXCLUDED.active,
	cooldown_until = EXCLUDED.cooldown_until,
	updated_at = NOW()`

// Upsert persists the full goal state, tickets included
func (r *GoalRepository) Upsert(ctx context.Context, goal *domain.CommunityGoal) error {
	tickets, err := json.Marshal(goal.Tickets)
	if err != nil {
		return fmt.Errorf("failed to marshal tickets: %w", err)
	}

	_, err = r.pool.Exec(ctx, sqlUpsertGoal,
		goal.HostID, string(goal.Type), goal.Description, goal.Target, goal.Progress,
		tickets, goal.Active, goal.CooldownUntil)
	if err != nil {
		return fmt.Errorf("failed to upsert goal: %w", err)
	}
	return nil
}

const sqlListGoalsByHost = `
SELECT host_id, goal_type, description, target, progress, tickets, active, cooldown_until, updated_at
FROM community_goals
WHERE host_id = $1`

// ListByHost returns every stored goal for a host
func (r *GoalRepository) ListByHost(ctx context.Context, hostID string) ([]domain.CommunityGoal, error) {
	rows, err := r.pool.Query(ctx, sqlListGoalsByHost, hostID)
	if err != nil {
		return nil, fmt.Errorf("failed to list goals: %w", err)
	}
	defer rows.Close()

	var goals []domain.CommunityGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

const sqlGetGoalConfig = `
SELECT config FROM goal_configs WHERE host_id = $1`

// GetConfig returns the host's goal configuration blob, if any
func (r *GoalRepository) GetConfig(ctx context.Context, hostID string) (*domain.GoalConfig, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, sqlGetGoalConfig, hostID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query goal config: %w", err)
	}

	var cfg domain.GoalConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal goal config: %w", err)
	}
	return &cfg, nil
}

func scanGoal(row pgx.Row) (*domain.CommunityGoal, error) {
	var g domain.CommunityGoal
	var goalType string
	var tickets []byte

	err := row.Scan(&g.HostID, &goalType, &g.Description, &g.Target, &g.Progress,
		&tickets, &g.Active, &g.CooldownUntil, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}

	g.Type = domain.GoalType(goalType)
	g.Tickets = make(map[string]int64)
	if len(tickets) > 0 {
		if err := json.Unmarshal(tickets, &g.Tickets); err != nil {
			return nil, fmt.Errorf("failed to unmarshal tickets: %w", err)
		}
	}
	return &g, nil
}
