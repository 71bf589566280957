package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the fantasy pipeline

var (
	// API Call metrics
	APICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_api_calls_total",
			Help: "Total number of NHL API calls",
		},
		[]string{"endpoint", "status"},
	)

	APICallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_api_call_duration_seconds",
			Help:    "Duration of API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// Database metrics
	DBQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "table", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_db_query_duration_seconds",
			Help:    "Duration of database queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	// Cache metrics
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_cache_hits_total",
			Help: "Total number of fetch cache hits",
		},
	)

	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_cache_misses_total",
			Help: "Total number of fetch cache misses",
		},
	)

	CacheOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nhl_cache_operation_duration_seconds",
			Help:    "Duration of cache operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"operation"},
	)

	// Merge metrics
	MergeBatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_merge_batches_total",
			Help: "Total number of per-date merge batches",
		},
		[]string{"status"},
	)

	MergeRowsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_merge_rows_total",
			Help: "Total number of game stat rows merged",
		},
		[]string{"kind"},
	)

	MergeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nhl_merge_duration_seconds",
			Help:    "Duration of per-date merge batches in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60},
		},
	)

	UnknownPlayersTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_unknown_players_total",
			Help: "Stat rows seen for player ids absent from pro_players",
		},
	)

	// Prediction metrics
	PredictionsWritten = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nhl_predictions_written_total",
			Help: "Total number of predicted_fpts values written",
		},
	)

	// Error metrics
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nhl_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhl_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulSync = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nhl_last_successful_sync_timestamp",
			Help: "Timestamp of last successful stats sync",
		},
	)
)

// RecordAPICall records an API call metric
func RecordAPICall(endpoint, status string, duration float64) {
	APICallsTotal.WithLabelValues(endpoint, status).Inc()
	APICallDuration.WithLabelValues(endpoint).Observe(duration)
}

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table, status string, duration float64) {
	DBQueriesTotal.WithLabelValues(operation, table, status).Inc()
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration)
}

// RecordCacheHit records a cache hit
func RecordCacheHit() {
	CacheHitsTotal.Inc()
}

// RecordCacheMiss records a cache miss
func RecordCacheMiss() {
	CacheMissesTotal.Inc()
}

// RecordCacheOperation records a cache operation duration
func RecordCacheOperation(operation string, duration float64) {
	CacheOperationDuration.WithLabelValues(operation).Observe(duration)
}

// RecordMergeBatch records one per-date merge batch
func RecordMergeBatch(status string, skaters, goalies int, duration float64) {
	MergeBatchesTotal.WithLabelValues(status).Inc()
	MergeRowsTotal.WithLabelValues("skater").Add(float64(skaters))
	MergeRowsTotal.WithLabelValues("goalie").Add(float64(goalies))
	MergeDuration.Observe(duration)

	if status == "success" {
		LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordUnknownPlayers counts stat rows that had no pro_players mapping
func RecordUnknownPlayers(n int) {
	UnknownPlayersTotal.Add(float64(n))
}

// RecordPredictions counts predictions written back to pro_players
func RecordPredictions(n int) {
	PredictionsWritten.Add(float64(n))
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
