package domain

import "time"

// Achievement categories. A category groups the threshold ladder for one
// metric; CategoryTotal is the meta-category fed by unlock counts.
const (
	CategoryStreamLikes    = "STREAM_LIKES"
	CategoryStreamDiamonds = "STREAM_DIAMONDS"
	CategoryMaxViewers     = "MAX_VIEWERS"
	CategoryViewerLikes    = "VIEWER_LIKES"
	CategoryViewerGifts    = "VIEWER_GIFTS"
	CategoryViewerComments = "VIEWER_COMMENTS"
	CategoryViewerShares   = "VIEWER_SHARES"
	CategoryChatPatterns   = "CHAT_PATTERNS"
	CategoryTotal          = "TOTAL_ACHIEVEMENTS"
)

// Chat-pattern achievement slugs (boolean triggers, no threshold value)
const (
	SlugMarkerCollector = "marker-collector"
	SlugAllCaps         = "all-caps-shouter"
	SlugEmojiOnly       = "emoji-speaker"
)

// SyncStatus tracks downstream role-sync state of an unlock row
type SyncStatus string

const (
	SyncPending SyncStatus = "PENDING"
	SyncDone    SyncStatus = "SYNCED"
	SyncFailed  SyncStatus = "FAILED"
)

// AchievementDefinition is an immutable catalog row
type AchievementDefinition struct {
	ID          int
	Slug        string
	Category    string
	Title       string
	Description string
	Threshold   int64
	Tier        int
	Hidden      bool
}

// AchievementUnlock records that a user earned an achievement. The
// (UserID, AchievementID) pair is unique; rows are never deleted.
type AchievementUnlock struct {
	UserID        string
	AchievementID int
	UnlockedAt    time.Time
	SyncStatus    SyncStatus
}
