// Package tracker records predictions and scores them against real
// results once matches finish.
package tracker

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/soccer-predictor/internal/metrics"
	"github.com/yourusername/soccer-predictor/internal/models"
)

// RecordStore is the persistence surface the tracker needs.
type RecordStore interface {
	Save(ctx context.Context, record *models.PredictionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error)
	Update(ctx context.Context, record *models.PredictionRecord) error
	ListSettled(ctx context.Context, limit int) ([]models.PredictionRecord, error)
	ListPending(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}

// Tracker persists predictions and derives accuracy statistics.
type Tracker struct {
	store  RecordStore
	logger *logrus.Logger
	now    func() time.Time
}

func New(store RecordStore, logger *logrus.Logger) *Tracker {
	if logger == nil {
		logger = logrus.New()
	}
	return &Tracker{store: store, logger: logger, now: time.Now}
}

// Record stores a fresh prediction for later settlement and returns
// the persisted record.
func (t *Tracker) Record(ctx context.Context, pred *models.MatchPrediction, matchID int, matchDate time.Time) (*models.PredictionRecord, error) {
	record := &models.PredictionRecord{
		ID:        uuid.New(),
		MatchID:   matchID,
		HomeTeam:  pred.HomeTeam,
		AwayTeam:  pred.AwayTeam,
		League:    pred.HomeLeague,
		MatchDate: matchDate,

		PredictedHomeWin:   float64(pred.Probabilities.HomeWinPct) / 100,
		PredictedDraw:      float64(pred.Probabilities.DrawPct) / 100,
		PredictedAwayWin:   float64(pred.Probabilities.AwayWinPct) / 100,
		PredictedHomeGoals: pred.Goals.HomeGoals,
		PredictedAwayGoals: pred.Goals.AwayGoals,
		PredictedWinner:    pred.PredictedWinner(),
		Confidence:         float64(pred.ConfidencePct) / 100,
		HomeElo:            pred.HomeRating,
		AwayElo:            pred.AwayRating,

		PredictedAt: t.now(),
	}
	if err := t.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("saving prediction record: %w", err)
	}
	t.logger.WithFields(logrus.Fields{
		"id":        record.ID,
		"home_team": record.HomeTeam,
		"away_team": record.AwayTeam,
		"winner":    record.PredictedWinner,
	}).Debug("Prediction recorded")
	return record, nil
}

// Settle attaches the real result to a stored prediction.
func (t *Tracker) Settle(ctx context.Context, id uuid.UUID, homeGoals, awayGoals int) (*models.PredictionRecord, error) {
	record, err := t.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading prediction record: %w", err)
	}

	winner := "draw"
	if homeGoals > awayGoals {
		winner = "home"
	} else if awayGoals > homeGoals {
		winner = "away"
	}
	settledAt := t.now()
	record.ActualHomeGoals = &homeGoals
	record.ActualAwayGoals = &awayGoals
	record.ActualWinner = &winner
	record.SettledAt = &settledAt

	if err := t.store.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("settling prediction record: %w", err)
	}
	t.logger.WithFields(logrus.Fields{
		"id":      record.ID,
		"score":   fmt.Sprintf("%d-%d", homeGoals, awayGoals),
		"correct": record.WinnerCorrect(),
	}).Info("Prediction settled")
	return record, nil
}

// ConfidenceBand groups settled predictions by stated confidence.
type ConfidenceBand struct {
	Label    string  `json:"label"`
	Count    int     `json:"count"`
	Accuracy float64 `json:"accuracy"`
}

// AccuracyReport summarises settled predictions.
type AccuracyReport struct {
	Settled         int              `json:"settled"`
	WinnerAccuracy  float64          `json:"winner_accuracy"`
	ExactScoreRate  float64          `json:"exact_score_rate"`
	WithinOneRate   float64          `json:"within_one_goal_rate"`
	BrierScore      float64          `json:"brier_score"`
	ConfidenceBands []ConfidenceBand `json:"confidence_bands"`
	AvgConfidence   float64          `json:"avg_confidence"`
}

type bandBucket struct {
	label string
	lo    float64
	hi    float64
}

var confidenceBuckets = []bandBucket{
	{label: "low", lo: 0, hi: 0.40},
	{label: "medium", lo: 0.40, hi: 0.60},
	{label: "high", lo: 0.60, hi: 1.01},
}

// Accuracy scores every settled record. The Brier score is the mean
// squared error of the three-way distribution against the observed
// outcome, so 0 is perfect and 2 is the worst possible.
func (t *Tracker) Accuracy(ctx context.Context) (*AccuracyReport, error) {
	records, err := t.store.ListSettled(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing settled records: %w", err)
	}

	report := &AccuracyReport{Settled: len(records)}
	if len(records) == 0 {
		return report, nil
	}

	bandCorrect := make([]int, len(confidenceBuckets))
	bandTotal := make([]int, len(confidenceBuckets))

	var correct, exact, withinOne int
	var brierSum, confSum float64
	for i := range records {
		r := &records[i]
		if !r.IsSettled() {
			continue
		}
		if r.WinnerCorrect() {
			correct++
		}
		predHG := int(math.Round(r.PredictedHomeGoals))
		predAG := int(math.Round(r.PredictedAwayGoals))
		if predHG == *r.ActualHomeGoals && predAG == *r.ActualAwayGoals {
			exact++
		}
		if abs(predHG-*r.ActualHomeGoals) <= 1 && abs(predAG-*r.ActualAwayGoals) <= 1 {
			withinOne++
		}
		brierSum += brier(r)
		confSum += r.Confidence

		for b, bucket := range confidenceBuckets {
			if r.Confidence >= bucket.lo && r.Confidence < bucket.hi {
				bandTotal[b]++
				if r.WinnerCorrect() {
					bandCorrect[b]++
				}
				break
			}
		}
	}

	n := float64(len(records))
	report.WinnerAccuracy = float64(correct) / n
	report.ExactScoreRate = float64(exact) / n
	report.WithinOneRate = float64(withinOne) / n
	report.BrierScore = brierSum / n
	report.AvgConfidence = confSum / n
	for b, bucket := range confidenceBuckets {
		band := ConfidenceBand{Label: bucket.label, Count: bandTotal[b]}
		if bandTotal[b] > 0 {
			band.Accuracy = float64(bandCorrect[b]) / float64(bandTotal[b])
		}
		report.ConfidenceBands = append(report.ConfidenceBands, band)
	}

	metrics.PredictionAccuracy.Set(report.WinnerAccuracy)
	metrics.PredictionBrierScore.Set(report.BrierScore)
	return report, nil
}

// Pending returns unsettled records, oldest first per the store.
func (t *Tracker) Pending(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	return t.store.ListPending(ctx, limit)
}

func brier(r *models.PredictionRecord) float64 {
	var yHome, yDraw, yAway float64
	switch *r.ActualWinner {
	case "home":
		yHome = 1
	case "away":
		yAway = 1
	default:
		yDraw = 1
	}
	return sq(r.PredictedHomeWin-yHome) + sq(r.PredictedDraw-yDraw) + sq(r.PredictedAwayWin-yAway)
}

func sq(x float64) float64 { return x * x }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
