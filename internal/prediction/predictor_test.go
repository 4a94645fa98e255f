package prediction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/ratings"
)

type stubRatingSource struct {
	elos map[string]float64
	err  error
}

func (s *stubRatingSource) FetchElo(_ context.Context, team string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	if elo, ok := s.elos[team]; ok {
		return elo, nil
	}
	return 0, models.ErrNotFound
}

type stubFormSource struct {
	matches []models.Match
	err     error
}

func (s *stubFormSource) ListRecentForTeam(_ context.Context, _ string, limit int) ([]models.Match, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.matches) > limit {
		return s.matches[:limit], nil
	}
	return s.matches, nil
}

func playedMatch(home, away string, hg, ag int) models.Match {
	return models.Match{
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &hg,
		AwayGoals: &ag,
		Status:    "played",
	}
}

func newTestPredictor(t *testing.T, opts ...Option) *Predictor {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewPredictor(ratings.DefaultConfig(), logger, opts...)
}

func TestPredictValidInput(t *testing.T) {
	p := newTestPredictor(t)

	pred, err := p.Predict(context.Background(), Request{
		HomeTeam: "Manchester City", AwayTeam: "Everton",
	})
	require.NoError(t, err)
	require.NotNil(t, pred)

	assert.True(t, pred.Probabilities.Valid(), "probabilities must sum to 100")
	assert.Greater(t, pred.Probabilities.HomeWinPct, pred.Probabilities.AwayWinPct)
	assert.GreaterOrEqual(t, pred.Goals.HomeGoals, 0.0)
	assert.LessOrEqual(t, pred.Goals.HomeGoals, 5.0)
	assert.GreaterOrEqual(t, pred.ConfidencePct, 0)
	assert.LessOrEqual(t, pred.ConfidencePct, 100)
	assert.Len(t, pred.Scorelines, 5)
}

func TestPredictRejectsInvalidRequests(t *testing.T) {
	p := newTestPredictor(t)
	ctx := context.Background()

	_, err := p.Predict(ctx, Request{HomeTeam: "", AwayTeam: "Everton"})
	assert.ErrorIs(t, err, models.ErrTeamNameRequired)

	_, err = p.Predict(ctx, Request{HomeTeam: "Everton", AwayTeam: "  "})
	assert.ErrorIs(t, err, models.ErrTeamNameRequired)

	_, err = p.Predict(ctx, Request{HomeTeam: "Everton", AwayTeam: "everton"})
	assert.ErrorIs(t, err, models.ErrSameTeam)
}

func TestPredictUsesUpstreamRatings(t *testing.T) {
	src := &stubRatingSource{elos: map[string]float64{
		"Alpha": 2100,
		"Beta":  1300,
	}}
	p := newTestPredictor(t, WithUpstream(src))

	pred, err := p.Predict(context.Background(), Request{HomeTeam: "Alpha", AwayTeam: "Beta"})
	require.NoError(t, err)
	assert.Equal(t, 2100.0, pred.HomeRating)
	assert.Equal(t, 1300.0, pred.AwayRating)
}

func TestPredictFallsBackWhenUpstreamDown(t *testing.T) {
	src := &stubRatingSource{err: errors.New("connection refused")}
	p := newTestPredictor(t, WithUpstream(src))

	pred, err := p.Predict(context.Background(), Request{
		HomeTeam: "Manchester City", AwayTeam: "Everton",
	})
	require.NoError(t, err)
	// Falls back to the local baseline table.
	assert.Equal(t, 1950.0, pred.HomeRating)
	assert.True(t, pred.Probabilities.Valid())
	assert.Greater(t, pred.Probabilities.HomeWinPct, pred.Probabilities.AwayWinPct)
}

func TestResolveRatingUsesStoredForm(t *testing.T) {
	// W (home), L (away), D from Everton's perspective: 4 points over
	// 3 games, ppg 4/3, modifier (4/3-1)/2*15 = 2.5.
	src := &stubFormSource{matches: []models.Match{
		playedMatch("Everton", "Fulham", 2, 0),
		playedMatch("Brentford", "Everton", 1, 0),
		playedMatch("Everton", "Wolves", 1, 1),
	}}
	p := newTestPredictor(t, WithFormSource(src))

	rating := p.resolveRating(context.Background(), "Everton", "")
	assert.InDelta(t, 2.5, rating.FormModifier, 1e-9)
}

func TestResolveRatingFormFallsBackToSynthetic(t *testing.T) {
	synthetic := ratings.SyntheticFormModifier("Everton")
	ctx := context.Background()

	cases := map[string]*stubFormSource{
		"lookup error":   {err: errors.New("connection refused")},
		"no history":     {},
		"nothing played": {matches: []models.Match{{HomeTeam: "Everton", AwayTeam: "Fulham", Status: "scheduled"}}},
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			p := newTestPredictor(t, WithFormSource(src))
			rating := p.resolveRating(ctx, "Everton", "")
			assert.Equal(t, synthetic, rating.FormModifier)
		})
	}
}

func TestPredictCacheRoundTrip(t *testing.T) {
	cache := NewCache(time.Minute, 100)
	p := newTestPredictor(t, WithCache(cache))
	ctx := context.Background()
	req := Request{HomeTeam: "Arsenal", AwayTeam: "Chelsea"}

	first, err := p.Predict(ctx, req)
	require.NoError(t, err)

	second, err := p.Predict(ctx, req)
	require.NoError(t, err)
	assert.Same(t, first, second, "second call should come from cache")

	hits, misses := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}
