package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// AchievementRepository implements the achievement repository for PostgreSQL
type AchievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new AchievementRepository
func NewAchievementRepository(pool *pgxpool.Pool) repository.Achievement {
	return &AchievementRepository{pool: pool}
}

const sqlGetDefinitionsByCategory = `
SELECT id, slug, category, title, description, threshold, tier, hidden
FROM achievements
WHERE category = $1
ORDER BY threshold ASC, tier ASC`

// GetDefinitionsByCategory returns the catalog rows of one category
func (r *AchievementRepository) GetDefinitionsByCategory(ctx context.Context, category string) ([]domain.AchievementDefinition, error) {
	rows, err := r.pool.Query(ctx, sqlGetDefinitionsByCategory, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query achievement definitions: %w", err)
	}
	defer rows.Close()

	var defs []domain.AchievementDefinition
	for rows.Next() {
		var d domain.AchievementDefinition
		if err := rows.Scan(&d.ID, &d.Slug, &d.Category, &d.Title, &d.Description, &d.Threshold, &d.Tier, &d.Hidden); err != nil {
			return nil, fmt.Errorf("failed to scan achievement definition: %w", err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

const sqlGetUnlockedIDs = `
SELECT achievement_id FROM user_achievements WHERE user_id = $1`

// GetUnlockedIDs returns the set of achievement ids the user already has
func (r *AchievementRepository) GetUnlockedIDs(ctx context.Context, userID string) (map[int]struct{}, error) {
	rows, err := r.pool.Query(ctx, sqlGetUnlockedIDs, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlocked achievements: %w", err)
	}
	defer rows.Close()

	unlocked := make(map[int]struct{})
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan unlocked achievement: %w", err)
		}
		unlocked[id] = struct{}{}
	}
	return unlocked, rows.Err()
}

const sqlInsertUnlock = `
INSERT INTO user_achievements (user_id, achievement_id, unlocked_at, sync_status)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, achievement_id) DO NOTHING`

// InsertUnlock inserts a unique unlock row; returns false on duplicates
func (r *AchievementRepository) InsertUnlock(ctx context.Context, unlock domain.AchievementUnlock) (bool, error) {
	tag, err := r.pool.Exec(ctx, sqlInsertUnlock,
		unlock.UserID, unlock.AchievementID, unlock.UnlockedAt, string(unlock.SyncStatus))
	if err != nil {
		return false, fmt.Errorf("failed to insert unlock: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

const sqlCountUnlocks = `
SELECT COUNT(*) FROM user_achievements WHERE user_id = $1`

// CountUnlocks returns the user's total unlocked achievements
func (r *AchievementRepository) CountUnlocks(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := r.pool.QueryRow(ctx, sqlCountUnlocks, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unlocks: %w", err)
	}
	return count, nil
}

const sqlGetPendingSync = `
SELECT ua.user_id, ua.achievement_id, ua.unlocked_at, ua.sync_status, a.slug, a.title
FROM user_achievements ua
JOIN achievements a ON a.id = ua.achievement_id
WHERE ua.sync_status = $1
ORDER BY ua.unlocked_at ASC
LIMIT $2`

// GetPendingSync returns unlock rows still awaiting downstream role sync
func (r *AchievementRepository) GetPendingSync(ctx context.Context, limit int) ([]repository.PendingUnlock, error) {
	rows, err := r.pool.Query(ctx, sqlGetPendingSync, string(domain.SyncPending), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending unlocks: %w", err)
	}
	defer rows.Close()

	var pending []repository.PendingUnlock
	for rows.Next() {
		var p repository.PendingUnlock
		var status string
		if err := rows.Scan(&p.Unlock.UserID, &p.Unlock.AchievementID, &p.Unlock.UnlockedAt, &status, &p.Slug, &p.Title); err != nil {
			return nil, fmt.Errorf("failed to scan pending unlock: %w", err)
		}
		p.Unlock.SyncStatus = domain.SyncStatus(status)
		pending = append(pending, p)
	}
	return pending, rows.Err()
}

const sqlSyncDefinition = `
INSERT INTO achievements (slug, category, title, description, threshold, tier, hidden)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (slug) DO UPDATE SET
	category = EXCLUDED.category,
	title = EXCLUDED.title,
	description = EXCLUDED.description,
	threshold = EXCLUDED.threshold,
	tier = EXCLUDED.tier,
	hidden = EXCLUDED.hidden`

// SyncDefinitions upserts catalog rows keyed by slug
func (r *AchievementRepository) SyncDefinitions(ctx context.Context, defs []domain.AchievementDefinition) (int, error) {
	written := 0
	for _, d := range defs {
		tag, err := r.pool.Exec(ctx, sqlSyncDefinition,
			d.Slug, d.Category, d.Title, d.Description, d.Threshold, d.Tier, d.Hidden)
		if err != nil {
			return written, fmt.Errorf("failed to upsert achievement %q: %w", d.Slug, err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

const sqlMarkSynced = `
UPDATE user_achievements SET sync_status = $3
WHERE user_id = $1 AND achievement_id = $2`

// MarkSynced flips an unlock row's sync status to done
func (r *AchievementRepository) MarkSynced(ctx context.Context, userID string, achievementID int) error {
	_, err := r.pool.Exec(ctx, sqlMarkSynced, userID, achievementID, string(domain.SyncDone))
	if err != nil {
		return fmt.Errorf("failed to mark unlock synced: %w", err)
	}
	return nil
}
