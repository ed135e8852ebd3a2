package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kalevra/GiftRally_Go/internal/achievement"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// SyncAchievementCatalog loads, validates, and syncs the achievement
// catalog to the database. The catalog is the source of truth for
// definitions; rows are upserted by slug so redeploys pick up copy
// changes without migrations.
func SyncAchievementCatalog(ctx context.Context, repo repository.Achievement) error {
	slog.Info(LogMsgSyncingCatalog)
	loader := achievement.NewCatalogLoader()

	catalog, err := loader.Load(ConfigPathAchievements)
	if err != nil {
		return fmt.Errorf("failed to load achievement catalog: %w", err)
	}

	if err := loader.Validate(catalog); err != nil {
		return fmt.Errorf("invalid achievement catalog: %w", err)
	}

	written, err := loader.SyncToDatabase(ctx, catalog, repo)
	if err != nil {
		return fmt.Errorf("failed to sync achievement catalog: %w", err)
	}

	slog.Info(LogMsgCatalogSyncComplete, "written", written)
	return nil
}
