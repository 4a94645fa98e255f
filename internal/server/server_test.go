package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/soccer-predictor/internal/analytics"
	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/prediction"
	"github.com/yourusername/soccer-predictor/internal/ratings"
	"github.com/yourusername/soccer-predictor/internal/service"
	"github.com/yourusername/soccer-predictor/internal/simulation"
)

type fakeMatchStore struct {
	matches []models.Match
}

func (s *fakeMatchStore) ListPlayedByLeague(ctx context.Context, league string, limit int) ([]models.Match, error) {
	return s.matches, nil
}

type fakeTeamRepo struct {
	teams map[string]*models.Team
}

func (r *fakeTeamRepo) Create(ctx context.Context, team *models.Team) error { return nil }
func (r *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return nil, models.ErrNotFound
}

func (r *fakeTeamRepo) GetByName(ctx context.Context, name string) (*models.Team, error) {
	if team, ok := r.teams[name]; ok {
		return team, nil
	}
	return nil, models.ErrNotFound
}

func (r *fakeTeamRepo) SearchByName(ctx context.Context, query string, limit int) ([]*models.Team, error) {
	var found []*models.Team
	for _, team := range r.teams {
		found = append(found, team)
		if len(found) == limit {
			break
		}
	}
	return found, nil
}

func (r *fakeTeamRepo) GetByLeague(ctx context.Context, league string) ([]*models.Team, error) {
	return nil, nil
}
func (r *fakeTeamRepo) UpdateRating(ctx context.Context, team *models.Team) error { return nil }
func (r *fakeTeamRepo) TopRated(ctx context.Context, limit int) ([]*models.Team, error) {
	return nil, nil
}
func (r *fakeTeamRepo) Count(ctx context.Context) (int, error) { return len(r.teams), nil }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func playedMatch(home, away string, hg, ag int, kickOff time.Time) models.Match {
	playedAt := kickOff.Add(2 * time.Hour)
	return models.Match{
		League:    "Premier League",
		HomeTeam:  home,
		AwayTeam:  away,
		HomeGoals: &hg,
		AwayGoals: &ag,
		KickOff:   kickOff,
		Status:    "played",
		PlayedAt:  &playedAt,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	logger := quietLogger()
	cfg := ratings.DefaultConfig()
	elo := ratings.NewSystem(cfg)
	elo.Set("Arsenal", "Premier League", 1800)
	elo.Set("Chelsea", "Premier League", 1700)

	base := time.Date(2026, time.March, 7, 15, 0, 0, 0, time.UTC)
	store := &fakeMatchStore{matches: []models.Match{
		playedMatch("Arsenal", "Chelsea", 2, 1, base),
		playedMatch("Chelsea", "Arsenal", 0, 0, base.Add(7*24*time.Hour)),
	}}

	teams := &fakeTeamRepo{teams: map[string]*models.Team{
		"Arsenal": {ID: 1, Name: "Arsenal", League: "Premier League", Elo: 1800},
	}}

	return NewServer(":0", Dependencies{
		Predictor:  prediction.NewPredictor(cfg, logger),
		Elo:        elo,
		LeagueSim:  simulation.NewLeagueSimulator(elo, logger),
		Analytics:  analytics.NewService(store, logger),
		TeamSearch: service.NewTeamSearchService(teams, nil),
		Logger:     logger,
	})
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestPredictMatchOK(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/predictions/match?home=Arsenal&away=Chelsea&home_league=Premier%20League&away_league=Premier%20League", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var pred models.MatchPrediction
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pred))
	assert.Equal(t, "Arsenal", pred.HomeTeam)

	sum := pred.Probabilities.HomeWinPct + pred.Probabilities.DrawPct + pred.Probabilities.AwayWinPct
	assert.Equal(t, 100, sum)
}

func TestPredictMatchMissingTeam(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/predictions/match?home=Arsenal", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPredictMatchSameTeam(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/predictions/match?home=Arsenal&away=arsenal", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAccuracyWithoutTracker(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/predictions/accuracy", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestTeamSearchRequiresQuery(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/teams/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeamSearchOK(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/teams/search?q=Arsenal", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Teams []models.Team `json:"teams"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Teams, 1)
	assert.Equal(t, "Arsenal", resp.Teams[0].Name)
}

func TestRankings(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/ratings/rankings?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Rankings []ratings.Rating `json:"rankings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Rankings, 2)
	assert.Equal(t, "Arsenal", resp.Rankings[0].Team)
}

func TestRegressionEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"points": []map[string]float64{
			{"x": 1, "y": 2},
			{"x": 2, "y": 4},
			{"x": 3, "y": 6},
		},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/analytics/regression", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Slope     float64 `json:"slope"`
		Intercept float64 `json:"intercept"`
		RSquared  float64 `json:"r_squared"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, 2.0, result.Slope, 1e-9)
	assert.InDelta(t, 0.0, result.Intercept, 1e-9)
	assert.InDelta(t, 1.0, result.RSquared, 1e-9)
}

func TestRegressionRequiresPoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/analytics/regression", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeagueOverview(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/v1/analytics/league/Premier%20League/overview", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var overview analytics.LeagueOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Equal(t, 2, overview.Matches)
}

func TestProjectionWithInlineStandings(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"standings": []map[string]interface{}{
			{"team": "Arsenal", "played": 30, "won": 22, "drawn": 5, "lost": 3, "points": 71},
			{"team": "Chelsea", "played": 30, "won": 15, "drawn": 8, "lost": 7, "points": 53},
		},
		"trials":            200,
		"seed":              7,
		"remaining_matches": 8,
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/projection", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Trials      int                         `json:"trials"`
		Projections []simulation.TeamProjection `json:"projections"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 200, resp.Trials)
	require.Len(t, resp.Projections, 2)
	assert.Equal(t, "Arsenal", resp.Projections[0].Team)
}

func TestProjectionRequiresStandings(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/projection", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProjectionTrialsCapped(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"standings": []map[string]interface{}{
			{"team": "Arsenal", "played": 10, "won": 8, "points": 24},
		},
		"trials": 10_000_000,
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/projection", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLeagueSimulationEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"standings": []map[string]interface{}{
			{"team": "Arsenal", "played": 30, "points": 70},
			{"team": "Chelsea", "played": 30, "points": 55},
		},
		"fixtures": []map[string]string{
			{"home_team": "Arsenal", "away_team": "Chelsea"},
		},
		"trials": 100,
		"seed":   42,
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/league", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result simulation.LeagueSimulationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 100, result.Trials)
	assert.Len(t, result.Standings, 2)
}

func TestLeagueSimulationRequiresFixtures(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"standings": []map[string]interface{}{
			{"team": "Arsenal", "played": 30, "points": 70},
		},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/league", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestKnockoutEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"teams":  []string{"Arsenal", "Chelsea", "Liverpool", "Everton"},
		"trials": 200,
		"seed":   11,
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/knockout", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var result simulation.KnockoutResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Len(t, result.Outcomes, 4)
	assert.NotEmpty(t, result.Favourite)
}

func TestKnockoutRejectsBadBracket(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]interface{}{
		"teams": []string{"Arsenal", "Chelsea", "Liverpool"},
	}
	rec := doRequest(t, srv, http.MethodPost, "/api/v1/simulations/knockout", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
