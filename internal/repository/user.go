package repository

import (
	"context"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// User defines the interface for user data access
type User interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	// GetByHandle resolves a broadcast handle to its tracked owner.
	// Returns domain.ErrUserNotFound for untracked handles.
	GetByHandle(ctx context.Context, handle string) (*domain.User, error)
	// AddLifetimeTotals increments the owner's lifetime like and diamond counts
	AddLifetimeTotals(ctx context.Context, userID string, likes, diamonds int64) error
}
