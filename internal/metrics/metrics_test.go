package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordReplayRun(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordReplayRun("success")
		RecordReplayRun("failure")
	})
}

func TestRecordGradedBet(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name    string
		side    string
		outcome string
	}{
		{name: "home win", side: "HOME", outcome: "win"},
		{name: "away loss", side: "AWAY", outcome: "loss"},
		{name: "home push", side: "HOME", outcome: "push"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordGradedBet(tt.side, tt.outcome)
			})
		})
	}
}

func TestRecordFlaggedEdge(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordFlaggedEdge()
	})
}

func TestSyncMetrics(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordSyncRun("cfbd", "success")
		RecordGamesIngested(120)
		RecordLinesIngested(98)
		RecordIngestionDuration("cfbd", 2.5)
	})
}

func TestUpdateReplayPerformance(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		UpdateReplayPerformance(0.042, 0.551)
		UpdateTrackedTeams(133)
		RecordReplayDuration(1.2)
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}
