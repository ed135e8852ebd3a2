package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Ingestion metric names
const (
	MetricNameSourceEvents      = "source_events_ingested_total"
	MetricNameActiveConnections = "active_connections"
	MetricNameConnectionRetries = "connection_retries_total"
)

// Flush metric names
const (
	MetricNameFlushCycles   = "flush_cycles_total"
	MetricNameFlushFailures = "flush_failures_total"
)

// Gamification metric names
const (
	MetricNameAchievementsUnlocked     = "achievements_unlocked_total"
	MetricNameLotteriesDrawn           = "goal_lotteries_drawn_total"
	MetricNameGoalContributionsDropped = "goal_contributions_dropped_total"
)

// ============================================================================
// Metric Help Text
// ============================================================================

const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"

	HelpTextSourceEvents      = "Total number of live-source events ingested, by kind"
	HelpTextActiveConnections = "Current number of live room connections"
	HelpTextConnectionRetries = "Total number of connection retry attempts, by failure kind"

	HelpTextFlushCycles   = "Total number of non-empty flush cycles"
	HelpTextFlushFailures = "Total number of flush write failures, by stage"

	HelpTextAchievementsUnlocked     = "Total number of achievements unlocked, by category"
	HelpTextLotteriesDrawn           = "Total number of community-goal lotteries drawn, by goal type"
	HelpTextGoalContributionsDropped = "Total contributions dropped by goal cooldowns, by goal type"
)

// ============================================================================
// Labels
// ============================================================================

const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatus      = "status"
	LabelKind        = "kind"
	LabelFailureKind = "failure_kind"
	LabelStage       = "stage"
	LabelCategory    = "category"
	LabelGoalType    = "goal_type"
)

// HTTPLatencyBuckets are the histogram buckets for HTTP request latency
var HTTPLatencyBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5}
