package achievement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/repository"
)

// fakeAchievementRepo is an in-memory achievement repository
type fakeAchievementRepo struct {
	mu       sync.Mutex
	defs     map[string][]domain.AchievementDefinition
	unlocks  map[string]map[int]domain.AchievementUnlock
	defsErr  error
	inserted []domain.AchievementUnlock
	synced   []domain.AchievementDefinition
}

func newFakeAchievementRepo() *fakeAchievementRepo {
	return &fakeAchievementRepo{
		defs:    make(map[string][]domain.AchievementDefinition),
		unlocks: make(map[string]map[int]domain.AchievementUnlock),
	}
}

func (f *fakeAchievementRepo) GetDefinitionsByCategory(ctx context.Context, category string) ([]domain.AchievementDefinition, error) {
	if f.defsErr != nil {
		return nil, f.defsErr
	}
	return f.defs[category], nil
}

func (f *fakeAchievementRepo) GetUnlockedIDs(ctx context.Context, userID string) (map[int]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make(map[int]struct{})
	for id := range f.unlocks[userID] {
		ids[id] = struct{}{}
	}
	return ids, nil
}

func (f *fakeAchievementRepo) InsertUnlock(ctx context.Context, unlock domain.AchievementUnlock) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unlocks[unlock.UserID] == nil {
		f.unlocks[unlock.UserID] = make(map[int]domain.AchievementUnlock)
	}
	if _, exists := f.unlocks[unlock.UserID][unlock.AchievementID]; exists {
		return false, nil
	}
	f.unlocks[unlock.UserID][unlock.AchievementID] = unlock
	f.inserted = append(f.inserted, unlock)
	return true, nil
}

func (f *fakeAchievementRepo) CountUnlocks(ctx context.Context, userID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.unlocks[userID])), nil
}

func (f *fakeAchievementRepo) GetPendingSync(ctx context.Context, limit int) ([]repository.PendingUnlock, error) {
	return nil, nil
}

func (f *fakeAchievementRepo) SyncDefinitions(ctx context.Context, defs []domain.AchievementDefinition) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.synced = append(f.synced, defs...)
	return len(defs), nil
}

func (f *fakeAchievementRepo) MarkSynced(ctx context.Context, userID string, achievementID int) error {
	return nil
}

func int64p(v int64) *int64 { return &v }

func TestTrigger_ThresholdUnlock(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryViewerLikes] = []domain.AchievementDefinition{
		{ID: 1, Slug: "likes-100", Category: domain.CategoryViewerLikes, Threshold: 100},
		{ID: 2, Slug: "likes-1000", Category: domain.CategoryViewerLikes, Threshold: 1000},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(150), ""))

	assert.Len(t, repo.unlocks["u1"], 1)
	assert.Contains(t, repo.unlocks["u1"], 1)
	assert.Equal(t, domain.SyncPending, repo.unlocks["u1"][1].SyncStatus)
}

func TestTrigger_Idempotent(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryViewerLikes] = []domain.AchievementDefinition{
		{ID: 1, Slug: "likes-100", Category: domain.CategoryViewerLikes, Threshold: 100},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(150), ""))
	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(200), ""))

	assert.Len(t, repo.inserted, 1, "same qualifying value twice must not create a second row")
}

func TestTrigger_BooleanSlugPath(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryChatPatterns] = []domain.AchievementDefinition{
		{ID: 10, Slug: domain.SlugMarkerCollector, Category: domain.CategoryChatPatterns},
		{ID: 11, Slug: domain.SlugAllCaps, Category: domain.CategoryChatPatterns},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryChatPatterns, nil, domain.SlugMarkerCollector))

	assert.Len(t, repo.unlocks["u1"], 1)
	assert.Contains(t, repo.unlocks["u1"], 10)
}

func TestTrigger_BelowThresholdNoUnlock(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryViewerLikes] = []domain.AchievementDefinition{
		{ID: 1, Slug: "likes-100", Category: domain.CategoryViewerLikes, Threshold: 100},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(99), ""))
	assert.Empty(t, repo.unlocks["u1"])
}

func TestTrigger_MetaCascade(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryViewerLikes] = []domain.AchievementDefinition{
		{ID: 1, Slug: "likes-100", Category: domain.CategoryViewerLikes, Threshold: 100},
	}
	repo.defs[domain.CategoryViewerGifts] = []domain.AchievementDefinition{
		{ID: 2, Slug: "gifts-50", Category: domain.CategoryViewerGifts, Threshold: 50},
	}
	repo.defs[domain.CategoryTotal] = []domain.AchievementDefinition{
		{ID: 100, Slug: "collector-2", Category: domain.CategoryTotal, Threshold: 2},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(100), ""))
	assert.NotContains(t, repo.unlocks["u1"], 100, "one unlock is below the meta threshold")

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerGifts, int64p(60), ""))
	assert.Contains(t, repo.unlocks["u1"], 100, "second unlock crosses TOTAL_ACHIEVEMENTS threshold in the same chain")
	assert.Len(t, repo.unlocks["u1"], 3)
}

func TestTrigger_NoCascadeWithoutNewUnlock(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryViewerLikes] = []domain.AchievementDefinition{
		{ID: 1, Slug: "likes-100", Category: domain.CategoryViewerLikes, Threshold: 100},
	}
	repo.defs[domain.CategoryTotal] = []domain.AchievementDefinition{
		{ID: 100, Slug: "collector-1", Category: domain.CategoryTotal, Threshold: 1},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(100), ""))
	require.Len(t, repo.unlocks["u1"], 2)
	insertedBefore := len(repo.inserted)

	// Re-triggering with the same value unlocks nothing, so the meta
	// category must not be re-evaluated either.
	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(100), ""))
	assert.Equal(t, insertedBefore, len(repo.inserted))
}

func TestTrigger_EmptyUserID(t *testing.T) {
	svc, err := NewService(newFakeAchievementRepo())
	require.NoError(t, err)
	assert.Error(t, svc.Trigger(context.Background(), "", domain.CategoryViewerLikes, int64p(1), ""))
}

func TestTrigger_DefinitionLoadError(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defsErr = errors.New("db down")

	svc, err := NewService(repo)
	require.NoError(t, err)

	assert.Error(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(1), ""))
}

func TestTrigger_CatalogCached(t *testing.T) {
	repo := newFakeAchievementRepo()
	repo.defs[domain.CategoryViewerLikes] = []domain.AchievementDefinition{
		{ID: 1, Slug: "likes-100", Category: domain.CategoryViewerLikes, Threshold: 100},
	}

	svc, err := NewService(repo)
	require.NoError(t, err)

	require.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(10), ""))

	// Definitions now come from the cache; a repo failure is invisible
	repo.defsErr = errors.New("db down")
	assert.NoError(t, svc.Trigger(context.Background(), "u1", domain.CategoryViewerLikes, int64p(10), ""))
}
