// Package logger provides live score stream logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// StreamLogger provides dedicated logging for the live score stream.
type StreamLogger struct {
	*logrus.Entry
}

// NewStreamLogger creates a new stream logger.
func NewStreamLogger(baseLogger *logrus.Logger) *StreamLogger {
	return &StreamLogger{
		Entry: baseLogger.WithField("component", "livescore"),
	}
}

// LogConnect logs a successful stream connection.
func (sl *StreamLogger) LogConnect(url string, attempt int) {
	sl.WithFields(logrus.Fields{
		"url":     url,
		"attempt": attempt,
	}).Info("Live score stream connected")
}

// LogDisconnect logs a dropped connection and the planned backoff.
func (sl *StreamLogger) LogDisconnect(reason string, backoffSeconds float64) {
	sl.WithFields(logrus.Fields{
		"reason":          reason,
		"backoff_seconds": backoffSeconds,
	}).Warn("Live score stream disconnected")
}

// LogResult logs an incoming final result.
func (sl *StreamLogger) LogResult(homeTeam, awayTeam string, homeGoals, awayGoals int, league string) {
	sl.WithFields(logrus.Fields{
		"home_team":  homeTeam,
		"away_team":  awayTeam,
		"home_goals": homeGoals,
		"away_goals": awayGoals,
		"league":     league,
	}).Info("Live result received")
}

// LogDroppedMessage logs an unparsable stream message.
func (sl *StreamLogger) LogDroppedMessage(payloadSize int, errorReason string) {
	sl.WithFields(logrus.Fields{
		"payload_size": payloadSize,
		"error_reason": errorReason,
	}).Warn("Dropped malformed stream message")
}
