package worker

import "time"

// Role sync polling defaults
const (
	DefaultPollInterval = 15 * time.Second
	DefaultBatchSize    = 100
)

// Log message constants
const (
	LogMsgWorkerJobFailed  = "Worker job failed"
	LogMsgStarting         = "Starting role sync worker"
	LogMsgShutdownSignal   = "Role sync worker shutdown signal received"
	LogMsgShuttingDown     = "Shutting down role sync worker"
	LogMsgShutdownComplete = "Role sync worker shutdown complete"
	LogMsgShutdownTimeout  = "Role sync worker shutdown timeout"
	LogMsgPollFailed       = "Failed to poll pending unlocks"
	LogMsgBatchFound       = "Found pending unlock rows"
	LogMsgPublishFailed    = "Failed to publish unlock announcement"
	LogMsgMarkFailed       = "Failed to mark unlock synced"
)
