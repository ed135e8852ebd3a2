package achievement

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/metrics"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// Service defines the interface for achievement evaluation
type Service interface {
	// Trigger evaluates the category's catalog for the user. With a
	// value it unlocks every definition whose threshold the value
	// meets; without one it unlocks the definition matching slug (the
	// boolean path for pattern achievements). Unlocks are idempotent.
	Trigger(ctx context.Context, userID, category string, value *int64, slug string) error
}

// service implements the Service interface
type service struct {
	repo    repository.Achievement
	catalog *lru.Cache[string, []domain.AchievementDefinition]
}

// NewService creates a new achievement service. The catalog cache holds
// per-category definition lists; the catalog is immutable at runtime so
// entries never need invalidation.
func NewService(repo repository.Achievement) (Service, error) {
	catalog, err := lru.New[string, []domain.AchievementDefinition](CatalogCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}
	return &service{repo: repo, catalog: catalog}, nil
}

// Trigger evaluates and unlocks achievements for one user and category
func (s *service) Trigger(ctx context.Context, userID, category string, value *int64, slug string) error {
	log := logger.FromContext(ctx)

	if userID == "" {
		return fmt.Errorf(ErrMsgUserIDRequired)
	}

	defs, err := s.definitions(ctx, category)
	if err != nil {
		return fmt.Errorf(ErrMsgLoadDefinitionsFailed, err)
	}
	if len(defs) == 0 {
		return nil
	}

	unlocked, err := s.repo.GetUnlockedIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf(ErrMsgLoadUnlockedFailed, err)
	}

	newUnlocks := 0
	for _, def := range defs {
		if _, have := unlocked[def.ID]; have {
			continue
		}
		if slug != "" && def.Slug != slug {
			continue
		}
		if !qualifies(def, value, slug) {
			continue
		}

		inserted, err := s.repo.InsertUnlock(ctx, domain.AchievementUnlock{
			UserID:        userID,
			AchievementID: def.ID,
			UnlockedAt:    time.Now(),
			SyncStatus:    domain.SyncPending,
		})
		if err != nil {
			log.Error(LogMsgUnlockFailed, "error", err, "user_id", userID, "slug", def.Slug)
			continue
		}
		if !inserted {
			// Lost a race with a concurrent trigger; already unlocked
			continue
		}

		newUnlocks++
		metrics.AchievementsUnlocked.WithLabelValues(category).Inc()
		log.Info(LogMsgUnlocked, "user_id", userID, "slug", def.Slug, "category", category)
	}

	if newUnlocks == 0 || category == domain.CategoryTotal {
		return nil
	}

	// Cascade into the meta-category so milestone-of-milestones
	// achievements unlock in the same operation chain.
	total, err := s.repo.CountUnlocks(ctx, userID)
	if err != nil {
		return fmt.Errorf(ErrMsgCountUnlocksFailed, err)
	}
	return s.Trigger(ctx, userID, domain.CategoryTotal, &total, "")
}

// qualifies checks one definition against the trigger arguments
func qualifies(def domain.AchievementDefinition, value *int64, slug string) bool {
	if value != nil {
		return *value >= def.Threshold
	}
	return slug != "" && def.Slug == slug
}

func (s *service) definitions(ctx context.Context, category string) ([]domain.AchievementDefinition, error) {
	if defs, ok := s.catalog.Get(category); ok {
		return defs, nil
	}

	defs, err := s.repo.GetDefinitionsByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	s.catalog.Add(category, defs)
	return defs, nil
}
