// Package logger provides prediction-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PredictionLogger provides dedicated logging for the prediction pipeline.
type PredictionLogger struct {
	*logrus.Entry
}

// NewPredictionLogger creates a new prediction logger.
func NewPredictionLogger(baseLogger *logrus.Logger) *PredictionLogger {
	return &PredictionLogger{
		Entry: baseLogger.WithField("component", "prediction"),
	}
}

// LogPredictionRequest logs a completed prediction request.
func (pl *PredictionLogger) LogPredictionRequest(homeTeam, awayTeam, winner string, confidencePct int, cacheHit bool, latencyMs float64) {
	pl.WithFields(logrus.Fields{
		"home_team":      homeTeam,
		"away_team":      awayTeam,
		"winner":         winner,
		"confidence_pct": confidencePct,
		"cache_hit":      cacheHit,
		"latency_ms":     latencyMs,
	}).Info("Prediction request completed")
}

// LogPredictionError logs prediction failures.
func (pl *PredictionLogger) LogPredictionError(homeTeam, awayTeam string, errorReason string) {
	pl.WithFields(logrus.Fields{
		"home_team":    homeTeam,
		"away_team":    awayTeam,
		"error_reason": errorReason,
	}).Error("Prediction failed")
}

// LogRatingUpdate logs a rating change after a settled result.
func (pl *PredictionLogger) LogRatingUpdate(team string, oldElo, newElo float64, league string) {
	pl.WithFields(logrus.Fields{
		"team":    team,
		"old_elo": oldElo,
		"new_elo": newElo,
		"league":  league,
	}).Info("Rating updated")
}

// LogSimulationRun logs a completed Monte Carlo run.
func (pl *PredictionLogger) LogSimulationRun(kind string, teams, trials int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"kind":        kind,
		"teams":       teams,
		"trials":      trials,
		"duration_ms": durationMs,
	}).Info("Simulation run completed")
}

// LogAccuracySnapshot logs a tracker accuracy recomputation.
func (pl *PredictionLogger) LogAccuracySnapshot(settled int, winnerAccuracy, brierScore float64) {
	pl.WithFields(logrus.Fields{
		"settled":         settled,
		"winner_accuracy": winnerAccuracy,
		"brier_score":     brierScore,
	}).Info("Accuracy snapshot recomputed")
}
