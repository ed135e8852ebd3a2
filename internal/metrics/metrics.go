package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Ingestion Metrics
var (
	SourceEventsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSourceEvents,
			Help: HelpTextSourceEvents,
		},
		[]string{LabelKind},
	)

	ActiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveConnections,
			Help: HelpTextActiveConnections,
		},
	)

	ConnectionRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameConnectionRetries,
			Help: HelpTextConnectionRetries,
		},
		[]string{LabelFailureKind},
	)
)

// Flush Metrics
var (
	FlushCycles = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameFlushCycles,
			Help: HelpTextFlushCycles,
		},
	)

	FlushFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameFlushFailures,
			Help: HelpTextFlushFailures,
		},
		[]string{LabelStage},
	)
)

// Gamification Metrics
var (
	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameAchievementsUnlocked,
			Help: HelpTextAchievementsUnlocked,
		},
		[]string{LabelCategory},
	)

	LotteriesDrawn = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameLotteriesDrawn,
			Help: HelpTextLotteriesDrawn,
		},
		[]string{LabelGoalType},
	)

	GoalContributionsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGoalContributionsDropped,
			Help: HelpTextGoalContributionsDropped,
		},
		[]string{LabelGoalType},
	)
)
