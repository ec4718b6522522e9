// Package metrics provides the centralized Prometheus registry for the
// rating and backtest engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	ReplayRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfb_edge",
		Name:      "replay_runs_total",
		Help:      "Total number of walk-forward replay runs by status",
	}, []string{"status"})
	GradedBetsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfb_edge",
		Name:      "graded_bets_total",
		Help:      "Total number of graded bets by side and outcome",
	}, []string{"side", "outcome"})
	FlaggedEdgesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cfb_edge",
		Name:      "flagged_edges_total",
		Help:      "Total number of edges flagged as implausibly large and skipped",
	})
	SyncRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "cfb_edge",
		Name:      "sync_runs_total",
		Help:      "Total number of data sync runs by source and status",
	}, []string{"source", "status"})
	GamesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cfb_edge",
		Name:      "games_ingested_total",
		Help:      "Total number of games upserted during ingestion",
	})
	LinesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "cfb_edge",
		Name:      "lines_ingested_total",
		Help:      "Total number of market lines upserted during ingestion",
	})
)

// Gauge metrics
var (
	LastReplayROI = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cfb_edge",
		Name:      "last_replay_roi",
		Help:      "ROI per decided bet of the most recent replay run",
	})
	LastReplayWinRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cfb_edge",
		Name:      "last_replay_win_rate",
		Help:      "Win rate excluding pushes of the most recent replay run",
	})
	TrackedTeams = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "cfb_edge",
		Name:      "tracked_teams",
		Help:      "Number of teams with a current rating",
	})
)

// Histogram metrics
var (
	ReplayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "cfb_edge",
		Name:      "replay_duration_seconds",
		Help:      "Duration of walk-forward replay runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
	IngestionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "cfb_edge",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of ingestion runs in seconds by source",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(ReplayRunsTotal)
		registry.MustRegister(GradedBetsTotal)
		registry.MustRegister(FlaggedEdgesTotal)
		registry.MustRegister(SyncRunsTotal)
		registry.MustRegister(GamesIngestedTotal)
		registry.MustRegister(LinesIngestedTotal)

		registry.MustRegister(LastReplayROI)
		registry.MustRegister(LastReplayWinRate)
		registry.MustRegister(TrackedTeams)

		registry.MustRegister(ReplayDuration)
		registry.MustRegister(IngestionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordReplayRun records a replay run event.
// status should be one of: "success", "failure"
func RecordReplayRun(status string) {
	ReplayRunsTotal.WithLabelValues(status).Inc()
}

// RecordGradedBet records a graded bet by side and outcome.
func RecordGradedBet(side, outcome string) {
	GradedBetsTotal.WithLabelValues(side, outcome).Inc()
}

// RecordFlaggedEdge records an edge rejected for exceeding the band.
func RecordFlaggedEdge() {
	FlaggedEdgesTotal.Inc()
}

// RecordSyncRun records a data sync run event.
func RecordSyncRun(source, status string) {
	SyncRunsTotal.WithLabelValues(source, status).Inc()
}

// RecordGamesIngested adds to the ingested game counter.
func RecordGamesIngested(count int) {
	GamesIngestedTotal.Add(float64(count))
}

// RecordLinesIngested adds to the ingested line counter.
func RecordLinesIngested(count int) {
	LinesIngestedTotal.Add(float64(count))
}

// UpdateReplayPerformance publishes the headline numbers of a finished run.
func UpdateReplayPerformance(roi, winRate float64) {
	LastReplayROI.Set(roi)
	LastReplayWinRate.Set(winRate)
}

// UpdateTrackedTeams updates the tracked team gauge.
func UpdateTrackedTeams(count int) {
	TrackedTeams.Set(float64(count))
}

// RecordReplayDuration records replay duration.
func RecordReplayDuration(durationSeconds float64) {
	ReplayDuration.Observe(durationSeconds)
}

// RecordIngestionDuration records ingestion duration for a source.
func RecordIngestionDuration(source string, durationSeconds float64) {
	IngestionDuration.WithLabelValues(source).Observe(durationSeconds)
}
