package eventlog

// Log messages - service
const (
	LogMsgFailedToLogEvent = "Failed to write event to audit log"
	LogMsgEventLogged      = "Event written to audit log"
)

// Log messages - cleanup job
const (
	LogMsgCleanupJobStarting  = "Starting audit log cleanup job"
	LogMsgCleanupJobFailed    = "Audit log cleanup failed"
	LogMsgCleanupJobCompleted = "Audit log cleanup completed"
)

// Log field keys
const (
	LogFieldType          = "type"
	LogFieldSubjectID     = "subjectID"
	LogFieldError         = "error"
	LogFieldRetentionDays = "retentionDays"
	LogFieldDuration      = "duration"
	LogFieldDeletedCount  = "deletedCount"
)
