package livescore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/logger"
	"github.com/yourusername/soccer-predictor/internal/metrics"
	"github.com/yourusername/soccer-predictor/internal/ratings"
)

// MatchRecorder persists final scores for matches already known to storage.
type MatchRecorder interface {
	RecordResult(ctx context.Context, id int, homeGoals, awayGoals int, playedAt time.Time) error
}

// ResultApplier consumes result events from the stream and feeds them into
// the rating system. When a recorder is configured, results whose match id
// is numeric are also written through to storage.
type ResultApplier struct {
	elo      *ratings.System
	recorder MatchRecorder
	predLog  *logger.PredictionLogger
	timeout  time.Duration
}

func NewResultApplier(elo *ratings.System, recorder MatchRecorder, baseLogger *logrus.Logger) *ResultApplier {
	return &ResultApplier{
		elo:      elo,
		recorder: recorder,
		predLog:  logger.NewPredictionLogger(baseLogger),
		timeout:  5 * time.Second,
	}
}

// Handler returns the ResultHandler to register on a StreamClient.
func (a *ResultApplier) Handler() ResultHandler {
	return a.Apply
}

func (a *ResultApplier) Apply(event ResultEvent) error {
	oldHome := a.elo.Elo(event.HomeTeam)
	oldAway := a.elo.Elo(event.AwayTeam)

	newHome, newAway := a.elo.ApplyResult(event.HomeTeam, event.AwayTeam, event.HomeGoals, event.AwayGoals, event.League)
	metrics.RatingUpdatesTotal.Add(2)

	a.predLog.LogRatingUpdate(event.HomeTeam, oldHome, newHome, event.League)
	a.predLog.LogRatingUpdate(event.AwayTeam, oldAway, newAway, event.League)

	if a.recorder == nil {
		return nil
	}

	matchID, err := strconv.Atoi(event.MatchID)
	if err != nil {
		// Upstream ids that are not ours; ratings still applied.
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	playedAt := event.PlayedAt
	if playedAt.IsZero() {
		playedAt = time.Now().UTC()
	}

	if err := a.recorder.RecordResult(ctx, matchID, event.HomeGoals, event.AwayGoals, playedAt); err != nil {
		return fmt.Errorf("recording result for match %d: %w", matchID, err)
	}

	return nil
}
