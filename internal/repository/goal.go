package repository

import (
	"context"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// Goal defines the interface for community-goal state and configuration
type Goal interface {
	// Get returns the stored goal state for (host, type), or nil when
	// the goal has never been initialized.
	Get(ctx context.Context, hostID string, goalType domain.GoalType) (*domain.CommunityGoal, error)
	// Upsert persists the full goal state, tickets included
	Upsert(ctx context.Context, goal *domain.CommunityGoal) error
	// ListByHost returns every stored goal for a host
	ListByHost(ctx context.Context, hostID string) ([]domain.CommunityGoal, error)
	// GetConfig returns the host's goal configuration blob, or nil when
	// the host has no overrides.
	GetConfig(ctx context.Context, hostID string) (*domain.GoalConfig, error)
}
