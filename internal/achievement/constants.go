package achievement

// CatalogCacheSize bounds the per-category definition cache
const CatalogCacheSize = 64

// Error message constants
const (
	ErrMsgUserIDRequired        = "user ID is required"
	ErrMsgLoadDefinitionsFailed = "failed to load achievement definitions: %w"
	ErrMsgLoadUnlockedFailed    = "failed to load unlocked achievements: %w"
	ErrMsgCountUnlocksFailed    = "failed to count unlocks: %w"
)

// Log message constants
const (
	LogMsgUnlocked      = "Achievement unlocked"
	LogMsgUnlockFailed  = "Failed to insert achievement unlock"
	LogMsgCatalogSynced = "Achievement catalog synced"
)
