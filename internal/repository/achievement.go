package repository

import (
	"context"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

// PendingUnlock is an unlock row awaiting downstream role sync,
// joined with the catalog fields the sync consumer announces.
type PendingUnlock struct {
	Unlock domain.AchievementUnlock
	Slug   string
	Title  string
}

// Achievement defines the interface for achievement data access
type Achievement interface {
	// GetDefinitionsByCategory returns the immutable catalog rows of a category
	GetDefinitionsByCategory(ctx context.Context, category string) ([]domain.AchievementDefinition, error)
	// GetUnlockedIDs returns the set of achievement ids the user already has
	GetUnlockedIDs(ctx context.Context, userID string) (map[int]struct{}, error)
	// InsertUnlock inserts a unique (user, achievement) row with a
	// pending sync marker. Returns false when the row already existed.
	InsertUnlock(ctx context.Context, unlock domain.AchievementUnlock) (bool, error)
	// CountUnlocks returns the user's total unlocked achievements
	CountUnlocks(ctx context.Context, userID string) (int64, error)
	// GetPendingSync returns up to limit unlock rows still awaiting role sync
	GetPendingSync(ctx context.Context, limit int) ([]PendingUnlock, error)
	// MarkSynced flips an unlock row's sync status to done
	MarkSynced(ctx context.Context, userID string, achievementID int) error
	// SyncDefinitions upserts catalog rows keyed by slug and returns the
	// number of rows written. Rows are never deleted; retiring an
	// achievement would orphan unlock history.
	SyncDefinitions(ctx context.Context, defs []domain.AchievementDefinition) (int, error)
}
