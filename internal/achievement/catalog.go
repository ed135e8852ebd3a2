package achievement

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kalevra/GiftRally_Go/internal/domain"
	"github.com/kalevra/GiftRally_Go/internal/logger"
	"github.com/kalevra/GiftRally_Go/internal/repository"
	"github.com/kalevra/GiftRally_Go/internal/validation"
)

// Sentinel errors for catalog loading
var (
	ErrDuplicateSlug = errors.New("duplicate achievement slug")

	ErrInvalidCatalog = errors.New("invalid achievement catalog")
)

// Schema path
const (
	CatalogSchemaPath = "configs/schemas/achievements.schema.json"
)

// CatalogConfig represents the JSON achievement catalog
type CatalogConfig struct {
	Version     string `json:"version"`
	Description string `json:"description"`

	Achievements []CatalogDef `json:"achievements"`
}

// CatalogDef represents a single achievement definition in the JSON
type CatalogDef struct {
	Slug        string `json:"slug"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Threshold   int64  `json:"threshold"`
	Tier        int    `json:"tier"`
	Hidden      bool   `json:"hidden,omitempty"`
}

// CatalogLoader handles loading and validating the achievement catalog
type CatalogLoader interface {
	Load(path string) (*CatalogConfig, error)
	Validate(config *CatalogConfig) error
	SyncToDatabase(ctx context.Context, config *CatalogConfig, repo repository.Achievement) (int, error)
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewCatalogLoader creates a new CatalogLoader instance
func NewCatalogLoader() CatalogLoader {
	return &catalogLoader{
		schemaValidator: validation.NewSchemaValidator(),
	}
}

// Load reads and parses an achievement catalog JSON file
func (l *catalogLoader) Load(path string) (*CatalogConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file %s: %w", path, err)
	}

	if err := l.schemaValidator.ValidateBytes(data, CatalogSchemaPath); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}

	var config CatalogConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}

	return &config, nil
}

// knownCategories is the set of categories the engine evaluates
var knownCategories = map[string]struct{}{
	domain.CategoryStreamLikes:    {},
	domain.CategoryStreamDiamonds: {},
	domain.CategoryMaxViewers:     {},
	domain.CategoryViewerLikes:    {},
	domain.CategoryViewerGifts:    {},
	domain.CategoryViewerComments: {},
	domain.CategoryViewerShares:   {},
	domain.CategoryChatPatterns:   {},
	domain.CategoryTotal:          {},
}

// Validate checks catalog invariants the schema cannot express
func (l *catalogLoader) Validate(config *CatalogConfig) error {
	seen := make(map[string]struct{}, len(config.Achievements))
	for _, def := range config.Achievements {
		if _, dup := seen[def.Slug]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSlug, def.Slug)
		}
		seen[def.Slug] = struct{}{}

		if _, ok := knownCategories[def.Category]; !ok {
			return fmt.Errorf("%w: unknown category %q for %q", ErrInvalidCatalog, def.Category, def.Slug)
		}

		// Chat-pattern achievements unlock on a slug match, not a threshold
		if def.Category == domain.CategoryChatPatterns && def.Threshold != 0 {
			return fmt.Errorf("%w: chat pattern %q must not set a threshold", ErrInvalidCatalog, def.Slug)
		}
	}
	return nil
}

// SyncToDatabase upserts the catalog and returns the rows written
func (l *catalogLoader) SyncToDatabase(ctx context.Context, config *CatalogConfig, repo repository.Achievement) (int, error) {
	defs := make([]domain.AchievementDefinition, 0, len(config.Achievements))
	for _, def := range config.Achievements {
		defs = append(defs, domain.AchievementDefinition{
			Slug:        def.Slug,
			Category:    def.Category,
			Title:       def.Title,
			Description: def.Description,
			Threshold:   def.Threshold,
			Tier:        def.Tier,
			Hidden:      def.Hidden,
		})
	}

	written, err := repo.SyncDefinitions(ctx, defs)
	if err != nil {
		return written, fmt.Errorf("failed to sync achievement catalog: %w", err)
	}

	logger.FromContext(ctx).Info(LogMsgCatalogSynced,
		"version", config.Version,
		"definitions", len(defs),
		"written", written)
	return written, nil
}
