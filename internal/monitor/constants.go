package monitor

import "time"

// Retry policy per failure kind. Offline is terminal: retrying won't
// help until a human starts a broadcast. Not-found gets the slow delay
// since it usually means the stream hasn't started yet.
const (
	MaxConnectAttempts = 3

	DefaultRetryDelay  = 5 * time.Second
	NotFoundRetryDelay = 30 * time.Second
)

// Failure kind labels for retry metrics
const (
	FailureKindOffline   = "offline"
	FailureKindNotFound  = "not_found"
	FailureKindSignature = "signature"
	FailureKindOther     = "other"
)

// Event kind labels for ingestion metrics
const (
	EventKindLike        = "like"
	EventKindGift        = "gift"
	EventKindComment     = "comment"
	EventKindShare       = "share"
	EventKindViewerCount = "viewer_count"
)

// Error message constants
const (
	ErrMsgHandleRequired = "handle is required"
)

// Log message constants
const (
	LogMsgMonitorStarted      = "Monitoring started"
	LogMsgMonitorStopped      = "Monitoring stopped"
	LogMsgConnected           = "Connected to live source"
	LogMsgDisconnected        = "Disconnected from live source"
	LogMsgConnectFailed       = "Connection attempt failed"
	LogMsgRetrying            = "Retrying connection"
	LogMsgRetriesExhausted    = "Connection retries exhausted"
	LogMsgUntrackedHandle     = "Handle has no tracked owner, stats disabled"
	LogMsgSessionOpenFailed   = "Failed to open live session"
	LogMsgSessionCloseFailed  = "Failed to close live session"
	LogMsgStaleSessionsClosed = "Closed stale live sessions"
	LogMsgContributionFailed  = "Failed to apply goal contribution"
	LogMsgPublishFailed       = "Failed to publish session event"
)
