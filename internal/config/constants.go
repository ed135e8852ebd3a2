package config

// Default values for tunable settings
const (
	DefaultBridgeURL           = "ws://127.0.0.1:21213/"
	DefaultFlushIntervalMs     = 2000
	MinFlushIntervalMs         = 250
	DefaultGoalCooldownMinutes = 5
	DefaultEventRetentionDays  = 30
)
