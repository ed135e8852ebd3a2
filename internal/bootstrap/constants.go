package bootstrap

// File system permissions
const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755
)

// Logger configuration
const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionLimit is the maximum number of log files to keep
	LogFileRetentionLimit = 10

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Config paths
const (
	// ConfigPathAchievements is the achievement catalog synced at startup
	ConfigPathAchievements = "configs/achievements.json"
)

// Log messages
const (
	LogMsgLoggingInitialized     = "Logging initialized"
	LogMsgStartingService        = "Starting GiftRally"
	LogMsgConfigurationLoaded    = "Configuration loaded"
	LogMsgSyncingCatalog         = "Syncing achievement catalog from JSON config..."
	LogMsgCatalogSyncComplete    = "Achievement catalog sync complete"
	LogMsgShuttingDownServer     = "Shutting down server..."
	LogMsgServerForcedShutdown   = "Server forced to shutdown"
	LogMsgMonitorsStopped        = "All handle monitors stopped"
	LogMsgWorkerShutdownFailed   = "Role sync worker shutdown failed"
	LogMsgEventConsumersAttached = "Event consumers attached"
	LogMsgShutdownComplete       = "Shutdown complete"
)
