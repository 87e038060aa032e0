// Package metrics defines the Prometheus instruments for the engine.
// Everything is registered via promauto at package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Feedback and Sentiment Metrics
var (
	// FeedbackSubmittedTotal tracks feedback submissions by kind (rated/comment_only/both)
	FeedbackSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feedback_submitted_total",
			Help: "Total feedback entries submitted by kind (rated/comment_only/both)",
		},
		[]string{"kind"},
	)

	// SentimentScoreDistribution tracks the distribution of computed sentiment scores
	SentimentScoreDistribution = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_score",
			Help:    "Distribution of computed sentiment scores (0-5)",
			Buckets: []float64{0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5},
		},
	)

	// SentimentScoringDuration tracks sentiment scoring latency
	SentimentScoringDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sentiment_scoring_duration_seconds",
			Help:    "Sentiment scoring duration in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)
)

// Reputation Metrics
var (
	// ReputationRecomputesTotal tracks full reputation recomputations by result
	ReputationRecomputesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reputation_recomputes_total",
			Help: "Total reputation recomputations by result (success/error)",
		},
		[]string{"result"},
	)

	// ReputationRecomputeDuration tracks recomputation latency
	ReputationRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reputation_recompute_duration_seconds",
			Help:    "Reputation recomputation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// SummaryCacheHits tracks reputation summary cache hits
	SummaryCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summary_cache_hits_total",
			Help: "Total reputation summary cache hits",
		},
	)

	// SummaryCacheMisses tracks reputation summary cache misses
	SummaryCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "summary_cache_misses_total",
			Help: "Total reputation summary cache misses (including degraded reads)",
		},
	)
)

// Recommendation Metrics
var (
	// RecommendationsServedTotal tracks recommendation queries served
	RecommendationsServedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total recommendation queries served",
		},
	)

	// RecommendationResultSize tracks how many tutors each query returned
	RecommendationResultSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommendation_result_size",
			Help:    "Number of tutors returned per recommendation query",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20},
		},
	)
)

// Points and Redemption Metrics
var (
	// LedgerEntriesTotal tracks ledger appends by entry type
	LedgerEntriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_entries_total",
			Help: "Total points ledger entries appended by type (earned/spent)",
		},
		[]string{"type"},
	)

	// RedemptionsTotal tracks redemption attempts by result
	RedemptionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redemptions_total",
			Help: "Total redemption attempts by result (success/out_of_stock/insufficient_points/not_found/rate_limited/error)",
		},
		[]string{"result"},
	)

	// RedemptionDuration tracks end-to-end redemption latency
	RedemptionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "redemption_duration_seconds",
			Help:    "Redemption transaction duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// VoucherCollisionsTotal tracks voucher code collisions that forced a retry
	VoucherCollisionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "voucher_collisions_total",
			Help: "Total voucher code collisions retried during redemption",
		},
	)

	// VouchersExpiredTotal tracks vouchers transitioned to expired by the sweeper
	VouchersExpiredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "vouchers_expired_total",
			Help: "Total vouchers transitioned to expired by the expiry sweep",
		},
	)
)

// Redis Operations Metrics
var (
	// RedisOpsTotal tracks total Redis operations by operation type and status
	RedisOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "redis_operations_total",
			Help: "Total Redis operations by operation and status",
		},
		[]string{"operation", "status"},
	)

	// RedisOpDuration tracks Redis operation latency in seconds
	RedisOpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "redis_operation_duration_seconds",
			Help:    "Redis operation duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// RedisConnectionErrors tracks Redis connection errors
	RedisConnectionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redis_connection_errors_total",
			Help: "Total Redis connection errors",
		},
	)

	// CircuitBreakerStateChanges tracks circuit breaker state transitions
	CircuitBreakerStateChanges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_changes_total",
			Help: "Circuit breaker state transitions by component and new state",
		},
		[]string{"component", "state"},
	)

	// CircuitBreakerState tracks current circuit breaker state (0=closed, 1=half-open, 2=open)
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Database Metrics
var (
	// DBQueryDuration tracks database query duration by query name
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"query"},
	)

	// DBErrorsTotal tracks database errors by query name
	DBErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Total database errors by query",
		},
		[]string{"query"},
	)
)

// Build Information Metrics
var (
	// BuildInfo is a gauge that always returns 1, with build metadata as labels
	BuildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Build information with version, commit, build_time, and go_version labels (value is always 1)",
		},
		[]string{"version", "commit", "build_time", "go_version"},
	)
)

// HTTP Error Metrics
// Note: http_errors_total{type} lives in internal/errors next to the
// middleware that records it.
