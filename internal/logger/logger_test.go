package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() (*logrus.Logger, *bytes.Buffer) {
	log := logrus.New()
	buf := &bytes.Buffer{}
	log.SetOutput(buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)
	return log, buf
}

func parseLogOutput(buf *bytes.Buffer) map[string]interface{} {
	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		return nil
	}
	return logEntry
}

func TestNewLoggerInvalidLevelDefaultsToInfo(t *testing.T) {
	log := NewLogger("nonsense")
	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
}

func TestNewLoggerParsesLevel(t *testing.T) {
	log := NewLogger("debug")
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
}

func TestAuditLoggerBetGraded(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogBetGraded(
		"bet_123",
		"game_456",
		2023,
		7,
		"HOME",
		-6.5,
		-4.0,
		-2.5,
		"win",
		0.909,
		time.Date(2023, 10, 14, 19, 30, 0, 0, time.UTC),
	)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "bet_123", logEntry["bet_id"])
	assert.Equal(t, "HOME", logEntry["side"])
	assert.Equal(t, "audit", logEntry["component"])
}

func TestAuditLoggerFlaggedEdge(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogFlaggedEdge("game_456", 2023, 7, -25.0, -4.0, -21.0)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "game_456", logEntry["game_id"])
	assert.Equal(t, "warning", logEntry["level"])
}

func TestAuditLoggerReplayLifecycle(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogReplayStarted("run_abc", 2019, 2023, 4200)
	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, "run_abc", logEntry["run_id"])

	buf.Reset()
	auditLogger.LogReplayFinished("run_abc", 310, 0.54, 0.031)
	logEntry = parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(310), logEntry["bets"])
}

func TestAuditLoggerSeasonTransition(t *testing.T) {
	log, buf := setupTestLogger()
	auditLogger := NewAuditLogger(log)

	auditLogger.LogSeasonTransition(2022, 2023, 133)

	logEntry := parseLogOutput(buf)
	require.NotNil(t, logEntry)
	assert.Equal(t, float64(2022), logEntry["from_season"])
	assert.Equal(t, float64(133), logEntry["teams_carried"])
}
