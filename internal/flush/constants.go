package flush

// MarkerSetSize is how many distinct marker tokens a viewer must post
// inside one buffer window to fire the collector pattern achievement.
const MarkerSetSize = 4

// Flush failure stages, used as the metric label
const (
	StageLifetime    = "lifetime"
	StageSession     = "session"
	StageSubmission  = "submission"
	StageGoal        = "goal"
	StageAchievement = "achievement"
)

// Log message constants
const (
	LogMsgLifetimeWriteFailed   = "Failed to write lifetime totals"
	LogMsgSessionWriteFailed    = "Failed to write session totals"
	LogMsgSubmissionWriteFailed = "Failed to write submission metrics"
	LogMsgGoalBatchFailed       = "Failed to apply goal batch"
	LogMsgHostTriggerFailed     = "Failed to evaluate host achievements"
	LogMsgViewerTriggerFailed   = "Failed to evaluate viewer achievements"
	LogMsgOwnerReloadFailed     = "Failed to reload owner totals"
)
