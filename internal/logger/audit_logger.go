// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides a dedicated audit trail for bet decisions and run
// boundaries, so a replay can be reconstructed from logs alone.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogBetGraded logs a graded hypothetical bet.
func (al *AuditLogger) LogBetGraded(betID, gameID string, season, week int, side string, modelSpread, marketSpread, edge float64, outcome string, profit float64, gradedAt time.Time) {
	al.WithFields(logrus.Fields{
		"bet_id":        betID,
		"game_id":       gameID,
		"season":        season,
		"week":          week,
		"side":          side,
		"model_spread":  modelSpread,
		"market_spread": marketSpread,
		"edge":          edge,
		"outcome":       outcome,
		"profit":        profit,
		"graded_at":     gradedAt.Unix(),
	}).Info("Bet graded")
}

// LogFlaggedEdge logs an edge rejected as a suspected data problem.
func (al *AuditLogger) LogFlaggedEdge(gameID string, season, week int, modelSpread, marketSpread, edge float64) {
	al.WithFields(logrus.Fields{
		"game_id":       gameID,
		"season":        season,
		"week":          week,
		"model_spread":  modelSpread,
		"market_spread": marketSpread,
		"edge":          edge,
	}).Warn("Edge outside acceptance band")
}

// LogReplayStarted logs the start of a walk-forward replay run.
func (al *AuditLogger) LogReplayStarted(runID string, firstSeason, lastSeason, games int) {
	al.WithFields(logrus.Fields{
		"run_id":       runID,
		"first_season": firstSeason,
		"last_season":  lastSeason,
		"games":        games,
	}).Info("Replay started")
}

// LogReplayFinished logs the completion of a replay with headline results.
func (al *AuditLogger) LogReplayFinished(runID string, bets int, winRate, roi float64) {
	al.WithFields(logrus.Fields{
		"run_id":   runID,
		"bets":     bets,
		"win_rate": winRate,
		"roi":      roi,
	}).Info("Replay finished")
}

// LogSeasonTransition logs a season boundary crossing.
func (al *AuditLogger) LogSeasonTransition(fromSeason, toSeason, teamsCarried int) {
	al.WithFields(logrus.Fields{
		"from_season":   fromSeason,
		"to_season":     toSeason,
		"teams_carried": teamsCarried,
	}).Info("Season transition applied")
}
