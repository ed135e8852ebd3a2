package achievement

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalevra/GiftRally_Go/internal/domain"
)

func TestCatalogValidate(t *testing.T) {
	loader := NewCatalogLoader()

	tests := []struct {
		name    string
		config  CatalogConfig
		wantErr error
	}{
		{
			name: "valid catalog",
			config: CatalogConfig{
				Version: "1",
				Achievements: []CatalogDef{
					{Slug: "stream-likes-bronze", Category: domain.CategoryStreamLikes, Title: "Crowd Pleaser", Threshold: 1000, Tier: 1},
					{Slug: "all-caps-shouter", Category: domain.CategoryChatPatterns, Title: "Volume Warning", Tier: 1},
				},
			},
		},
		{
			name: "duplicate slug",
			config: CatalogConfig{
				Achievements: []CatalogDef{
					{Slug: "stream-likes-bronze", Category: domain.CategoryStreamLikes, Title: "A", Threshold: 100, Tier: 1},
					{Slug: "stream-likes-bronze", Category: domain.CategoryStreamLikes, Title: "B", Threshold: 200, Tier: 2},
				},
			},
			wantErr: ErrDuplicateSlug,
		},
		{
			name: "unknown category",
			config: CatalogConfig{
				Achievements: []CatalogDef{
					{Slug: "mystery", Category: "MYSTERY", Title: "Mystery", Threshold: 1, Tier: 1},
				},
			},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "chat pattern with threshold",
			config: CatalogConfig{
				Achievements: []CatalogDef{
					{Slug: "all-caps-shouter", Category: domain.CategoryChatPatterns, Title: "Volume Warning", Threshold: 5, Tier: 1},
				},
			},
			wantErr: ErrInvalidCatalog,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := loader.Validate(&tt.config)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCatalogLoad(t *testing.T) {
	loader := NewCatalogLoader()

	config, err := loader.Load("../../configs/achievements.json")
	require.NoError(t, err)
	require.NoError(t, loader.Validate(config))

	assert.NotEmpty(t, config.Achievements)

	// The meta-category must be present for the unlock cascade
	hasMeta := false
	for _, def := range config.Achievements {
		if def.Category == domain.CategoryTotal {
			hasMeta = true
		}
	}
	assert.True(t, hasMeta)
}

func TestCatalogSyncToDatabase(t *testing.T) {
	loader := NewCatalogLoader()
	repo := newFakeAchievementRepo()

	config := &CatalogConfig{
		Version: "1",
		Achievements: []CatalogDef{
			{Slug: "stream-likes-bronze", Category: domain.CategoryStreamLikes, Title: "Crowd Pleaser", Threshold: 1000, Tier: 1},
			{Slug: "collector-bronze", Category: domain.CategoryTotal, Title: "Completionist", Threshold: 5, Tier: 1},
		},
	}

	written, err := loader.SyncToDatabase(context.Background(), config, repo)
	require.NoError(t, err)
	assert.Equal(t, 2, written)
	require.Len(t, repo.synced, 2)
	assert.Equal(t, "stream-likes-bronze", repo.synced[0].Slug)
	assert.Equal(t, int64(1000), repo.synced[0].Threshold)
}
