package goal

// Error message constants
const (
	ErrMsgHostIDRequired   = "host ID is required"
	ErrMsgLoadGoalFailed   = "failed to load goal state: %w"
	ErrMsgLoadConfigFailed = "failed to load goal config: %w"
	ErrMsgPersistFailed    = "failed to persist goal state: %w"
	ErrMsgListGoalsFailed  = "failed to list goals: %w"
)

// Log message constants
const (
	LogMsgContributionDropped = "Contribution dropped by cooldown"
	LogMsgGoalInitialized     = "Community goal initialized"
	LogMsgLotteryWinner       = "Lottery winner selected"
	LogMsgLotteryEmptyQueue   = "Lottery drawn with empty free queue"
	LogMsgFreeSkipFailed      = "Failed to apply free skip"
	LogMsgPublishFailed       = "Failed to publish goal event"
	LogMsgUnknownGoalType     = "Unknown goal type skipped"
)
