package tracker

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/soccer-predictor/internal/models"
)

type mockRecordStore struct {
	mock.Mock
}

func (m *mockRecordStore) Save(ctx context.Context, record *models.PredictionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordStore) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PredictionRecord), args.Error(1)
}

func (m *mockRecordStore) Update(ctx context.Context, record *models.PredictionRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordStore) ListSettled(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PredictionRecord), args.Error(1)
}

func (m *mockRecordStore) ListPending(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PredictionRecord), args.Error(1)
}

func samplePrediction() *models.MatchPrediction {
	return &models.MatchPrediction{
		HomeTeam:      "Arsenal",
		AwayTeam:      "Chelsea",
		HomeLeague:    "Premier League",
		HomeRating:    1820,
		AwayRating:    1750,
		Probabilities: models.OutcomeProbabilities{HomeWinPct: 48, DrawPct: 27, AwayWinPct: 25},
		Goals:         models.GoalsProjection{HomeGoals: 1.7, AwayGoals: 1.1},
		ConfidencePct: 41,
	}
}

func TestRecordBuildsAndSaves(t *testing.T) {
	store := new(mockRecordStore)
	store.On("Save", mock.Anything, mock.AnythingOfType("*models.PredictionRecord")).Return(nil)

	tr := New(store, nil)
	matchDate := time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC)
	record, err := tr.Record(context.Background(), samplePrediction(), 1001, matchDate)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.Equal(t, "Arsenal", record.HomeTeam)
	assert.Equal(t, "home", record.PredictedWinner)
	assert.InDelta(t, 0.48, record.PredictedHomeWin, 1e-9)
	assert.InDelta(t, 0.41, record.Confidence, 1e-9)
	assert.Equal(t, 1820.0, record.HomeElo)
	assert.False(t, record.IsSettled())
	store.AssertExpectations(t)
}

func TestSettleAttachesResult(t *testing.T) {
	id := uuid.New()
	stored := &models.PredictionRecord{
		ID:               id,
		HomeTeam:         "Arsenal",
		AwayTeam:         "Chelsea",
		PredictedWinner:  "home",
		PredictedHomeWin: 0.48,
		PredictedDraw:    0.27,
		PredictedAwayWin: 0.25,
	}
	store := new(mockRecordStore)
	store.On("GetByID", mock.Anything, id).Return(stored, nil)
	store.On("Update", mock.Anything, stored).Return(nil)

	tr := New(store, nil)
	record, err := tr.Settle(context.Background(), id, 2, 0)
	require.NoError(t, err)

	require.True(t, record.IsSettled())
	assert.Equal(t, "home", *record.ActualWinner)
	assert.Equal(t, 2, *record.ActualHomeGoals)
	assert.True(t, record.WinnerCorrect())
	assert.NotNil(t, record.SettledAt)
	store.AssertExpectations(t)
}

func TestSettleDraw(t *testing.T) {
	id := uuid.New()
	stored := &models.PredictionRecord{ID: id, PredictedWinner: "home"}
	store := new(mockRecordStore)
	store.On("GetByID", mock.Anything, id).Return(stored, nil)
	store.On("Update", mock.Anything, stored).Return(nil)

	tr := New(store, nil)
	record, err := tr.Settle(context.Background(), id, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, "draw", *record.ActualWinner)
	assert.False(t, record.WinnerCorrect())
}

func settledRecord(predWinner, actualWinner string, hw, d, aw float64, conf float64, predHG, predAG float64, actHG, actAG int) models.PredictionRecord {
	settled := time.Now()
	return models.PredictionRecord{
		ID:                 uuid.New(),
		PredictedWinner:    predWinner,
		PredictedHomeWin:   hw,
		PredictedDraw:      d,
		PredictedAwayWin:   aw,
		Confidence:         conf,
		PredictedHomeGoals: predHG,
		PredictedAwayGoals: predAG,
		ActualHomeGoals:    &actHG,
		ActualAwayGoals:    &actAG,
		ActualWinner:       &actualWinner,
		SettledAt:          &settled,
	}
}

func TestAccuracyReport(t *testing.T) {
	records := []models.PredictionRecord{
		// Correct winner, exact score.
		settledRecord("home", "home", 0.6, 0.25, 0.15, 0.7, 2.1, 0.9, 2, 1),
		// Correct winner, one goal off.
		settledRecord("home", "home", 0.5, 0.3, 0.2, 0.5, 1.6, 1.0, 3, 1),
		// Wrong winner, way off.
		settledRecord("home", "away", 0.55, 0.25, 0.2, 0.3, 2.0, 0.8, 0, 3),
		// Correct draw call.
		settledRecord("draw", "draw", 0.3, 0.4, 0.3, 0.35, 1.2, 1.2, 1, 1),
	}
	store := new(mockRecordStore)
	store.On("ListSettled", mock.Anything, 0).Return(records, nil)

	tr := New(store, nil)
	report, err := tr.Accuracy(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, report.Settled)
	assert.InDelta(t, 0.75, report.WinnerAccuracy, 1e-9)
	// Exact: records one (2-1) and four (1-1 rounds to 1-1).
	assert.InDelta(t, 0.5, report.ExactScoreRate, 1e-9)
	assert.InDelta(t, 0.75, report.WithinOneRate, 1e-9)
	assert.Greater(t, report.BrierScore, 0.0)
	assert.Less(t, report.BrierScore, 2.0)
	assert.InDelta(t, (0.7+0.5+0.3+0.35)/4, report.AvgConfidence, 1e-9)

	bands := make(map[string]ConfidenceBand)
	for _, b := range report.ConfidenceBands {
		bands[b.Label] = b
	}
	assert.Equal(t, 2, bands["low"].Count)
	assert.Equal(t, 1, bands["medium"].Count)
	assert.Equal(t, 1, bands["high"].Count)
	assert.InDelta(t, 0.5, bands["low"].Accuracy, 1e-9)
	assert.InDelta(t, 1.0, bands["high"].Accuracy, 1e-9)
	store.AssertExpectations(t)
}

func TestAccuracyEmpty(t *testing.T) {
	store := new(mockRecordStore)
	store.On("ListSettled", mock.Anything, 0).Return([]models.PredictionRecord{}, nil)

	tr := New(store, nil)
	report, err := tr.Accuracy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Settled)
	assert.Zero(t, report.WinnerAccuracy)
}

func TestBrierPerfectAndWorst(t *testing.T) {
	perfect := settledRecord("home", "home", 1, 0, 0, 0.9, 2, 0, 2, 0)
	worst := settledRecord("home", "away", 1, 0, 0, 0.9, 2, 0, 0, 2)
	assert.InDelta(t, 0.0, brier(&perfect), 1e-9)
	assert.InDelta(t, 2.0, brier(&worst), 1e-9)
}
