package livescore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/soccer-predictor/internal/ratings"
)

type mockMatchRecorder struct {
	mock.Mock
}

func (m *mockMatchRecorder) RecordResult(ctx context.Context, id int, homeGoals, awayGoals int, playedAt time.Time) error {
	args := m.Called(ctx, id, homeGoals, awayGoals, playedAt)
	return args.Error(0)
}

func TestApplyUpdatesRatings(t *testing.T) {
	elo := ratings.NewSystem(ratings.DefaultConfig())
	elo.Set("Arsenal", "Premier League", 1600)
	elo.Set("Chelsea", "Premier League", 1600)

	applier := NewResultApplier(elo, nil, testLogger())

	err := applier.Apply(ResultEvent{
		MatchID:   "ext-abc",
		League:    "Premier League",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		HomeGoals: 3,
		AwayGoals: 0,
	})
	require.NoError(t, err)

	assert.Greater(t, elo.Elo("Arsenal"), 1600.0)
	assert.Less(t, elo.Elo("Chelsea"), 1600.0)
}

func TestApplyRecordsNumericMatchID(t *testing.T) {
	elo := ratings.NewSystem(ratings.DefaultConfig())
	recorder := new(mockMatchRecorder)
	playedAt := time.Date(2026, 8, 29, 17, 0, 0, 0, time.UTC)

	recorder.On("RecordResult", mock.Anything, 77, 1, 1, playedAt).Return(nil)

	applier := NewResultApplier(elo, recorder, testLogger())

	err := applier.Apply(ResultEvent{
		MatchID:   "77",
		League:    "La Liga",
		HomeTeam:  "Sevilla",
		AwayTeam:  "Valencia",
		HomeGoals: 1,
		AwayGoals: 1,
		PlayedAt:  playedAt,
	})
	require.NoError(t, err)
	recorder.AssertExpectations(t)
}

func TestApplySkipsRecorderForExternalIDs(t *testing.T) {
	elo := ratings.NewSystem(ratings.DefaultConfig())
	recorder := new(mockMatchRecorder)

	applier := NewResultApplier(elo, recorder, testLogger())

	err := applier.Apply(ResultEvent{
		MatchID:   "ext-1234",
		HomeTeam:  "Lyon",
		AwayTeam:  "Lille",
		HomeGoals: 2,
		AwayGoals: 2,
	})
	require.NoError(t, err)
	recorder.AssertNotCalled(t, "RecordResult", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyPropagatesRecorderError(t *testing.T) {
	elo := ratings.NewSystem(ratings.DefaultConfig())
	recorder := new(mockMatchRecorder)
	recorder.On("RecordResult", mock.Anything, 9, 0, 2, mock.Anything).
		Return(errors.New("connection reset"))

	applier := NewResultApplier(elo, recorder, testLogger())

	err := applier.Apply(ResultEvent{
		MatchID:   "9",
		HomeTeam:  "Porto",
		AwayTeam:  "Benfica",
		HomeGoals: 0,
		AwayGoals: 2,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "match 9")
}
