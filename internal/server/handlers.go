package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/yourusername/soccer-predictor/internal/models"
	"github.com/yourusername/soccer-predictor/internal/prediction"
	"github.com/yourusername/soccer-predictor/internal/regression"
	"github.com/yourusername/soccer-predictor/internal/simulation"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) handlePredictMatch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := prediction.Request{
		HomeTeam:   q.Get("home"),
		AwayTeam:   q.Get("away"),
		HomeLeague: q.Get("home_league"),
		AwayLeague: q.Get("away_league"),
	}

	pred, err := s.deps.Predictor.Predict(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrTeamNameRequired), errors.Is(err, models.ErrSameTeam):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.WithError(err).Error("Prediction failed")
			writeError(w, http.StatusInternalServerError, "prediction failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, pred)
}

func (s *Server) handleAccuracy(w http.ResponseWriter, r *http.Request) {
	if s.deps.Tracker == nil {
		writeError(w, http.StatusServiceUnavailable, "prediction tracking is not enabled")
		return
	}

	report, err := s.deps.Tracker.Accuracy(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Accuracy report failed")
		writeError(w, http.StatusInternalServerError, "accuracy report failed")
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleTeamSearch(w http.ResponseWriter, r *http.Request) {
	if s.deps.TeamSearch == nil {
		writeError(w, http.StatusServiceUnavailable, "team search is not enabled")
		return
	}

	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 0)

	teams, err := s.deps.TeamSearch.Search(r.Context(), query, limit)
	if err != nil {
		if errors.Is(err, models.ErrTeamNameRequired) {
			writeError(w, http.StatusBadRequest, "query parameter q is required")
			return
		}
		s.logger.WithError(err).Error("Team search failed")
		writeError(w, http.StatusInternalServerError, "team search failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

func (s *Server) handleRankings(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"rankings": s.deps.Elo.Rankings(limit),
	})
}

type regressionRequest struct {
	Points []regression.Point `json:"points"`
}

func (s *Server) handleRegression(w http.ResponseWriter, r *http.Request) {
	var req regressionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Points) == 0 {
		writeError(w, http.StatusBadRequest, "points are required")
		return
	}

	writeJSON(w, http.StatusOK, s.deps.Analytics.FitSeries(req.Points))
}

func (s *Server) handleLeagueOverview(w http.ResponseWriter, r *http.Request) {
	league := mux.Vars(r)["league"]

	overview, err := s.deps.Analytics.Overview(r.Context(), league)
	if err != nil {
		s.logger.WithError(err).Error("League overview failed")
		writeError(w, http.StatusInternalServerError, "league overview failed")
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (s *Server) handleLeagueTrend(w http.ResponseWriter, r *http.Request) {
	league := mux.Vars(r)["league"]
	buckets := queryInt(r, "buckets", 0)

	points, slope, err := s.deps.Analytics.SeasonTrend(r.Context(), league, buckets)
	if err != nil {
		s.logger.WithError(err).Error("Season trend failed")
		writeError(w, http.StatusInternalServerError, "season trend failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"league": league,
		"points": points,
		"slope":  slope,
	})
}

func (s *Server) handleLeagueShots(w http.ResponseWriter, r *http.Request) {
	league := mux.Vars(r)["league"]

	model, err := s.deps.Analytics.GoalsPerShot(r.Context(), league)
	if err != nil {
		s.logger.WithError(err).Error("Shots model failed")
		writeError(w, http.StatusInternalServerError, "shots model failed")
		return
	}

	writeJSON(w, http.StatusOK, model)
}

type projectionRequest struct {
	League           string                `json:"league"`
	Season           string                `json:"season"`
	Standings        []models.StandingsRow `json:"standings"`
	Trials           int                   `json:"trials"`
	Seed             int64                 `json:"seed"`
	RemainingMatches int                   `json:"remaining_matches"`
	RelegationSpots  int                   `json:"relegation_spots"`
}

func (s *Server) handleProjection(w http.ResponseWriter, r *http.Request) {
	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	standings, ok := s.resolveStandings(w, r, req.Standings, req.League, req.Season)
	if !ok {
		return
	}

	trials, ok := s.clampTrials(w, req.Trials)
	if !ok {
		return
	}

	projections, err := simulation.ProjectSeason(r.Context(), standings, simulation.Config{
		Trials:           trials,
		Seed:             req.Seed,
		RemainingMatches: req.RemainingMatches,
		RelegationSpots:  req.RelegationSpots,
	})
	if err != nil {
		if errors.Is(err, models.ErrEmptyStandings) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("Season projection failed")
		writeError(w, http.StatusInternalServerError, "season projection failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"trials":      trials,
		"projections": projections,
	})
}

type leagueSimulationRequest struct {
	League          string                `json:"league"`
	Season          string                `json:"season"`
	Standings       []models.StandingsRow `json:"standings"`
	Fixtures        []models.Fixture      `json:"fixtures"`
	Trials          int                   `json:"trials"`
	Seed            int64                 `json:"seed"`
	RelegationSpots int                   `json:"relegation_spots"`
}

func (s *Server) handleLeagueSimulation(w http.ResponseWriter, r *http.Request) {
	var req leagueSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.Fixtures) == 0 {
		writeError(w, http.StatusBadRequest, "fixtures are required")
		return
	}

	standings, ok := s.resolveStandings(w, r, req.Standings, req.League, req.Season)
	if !ok {
		return
	}

	trials, ok := s.clampTrials(w, req.Trials)
	if !ok {
		return
	}

	result, err := s.deps.LeagueSim.SimulateLeague(r.Context(), standings, req.Fixtures, simulation.FixtureConfig{
		Trials:          trials,
		Seed:            req.Seed,
		RelegationSpots: req.RelegationSpots,
	})
	if err != nil {
		if errors.Is(err, models.ErrEmptyStandings) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("League simulation failed")
		writeError(w, http.StatusInternalServerError, "league simulation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type knockoutRequest struct {
	Teams  []string `json:"teams"`
	Trials int      `json:"trials"`
	Seed   int64    `json:"seed"`
}

func (s *Server) handleKnockout(w http.ResponseWriter, r *http.Request) {
	var req knockoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	trials, ok := s.clampTrials(w, req.Trials)
	if !ok {
		return
	}

	bracket := make([]simulation.KnockoutTeam, 0, len(req.Teams))
	for _, name := range req.Teams {
		bracket = append(bracket, simulation.KnockoutTeam{
			Name: name,
			Elo:  s.deps.Elo.Elo(name),
		})
	}

	result, err := simulation.SimulateKnockout(r.Context(), bracket, simulation.KnockoutConfig{
		Trials: trials,
		Seed:   req.Seed,
	})
	if err != nil {
		if errors.Is(err, simulation.ErrBracketSize) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.WithError(err).Error("Knockout simulation failed")
		writeError(w, http.StatusInternalServerError, "knockout simulation failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// resolveStandings takes the caller's table when given, otherwise loads
// the stored one for league and season. Writes the error response and
// returns false when neither is available.
func (s *Server) resolveStandings(w http.ResponseWriter, r *http.Request, given []models.StandingsRow, league, season string) ([]models.StandingsRow, bool) {
	if len(given) > 0 {
		return given, true
	}

	if league == "" || s.deps.Standings == nil {
		writeError(w, http.StatusBadRequest, "standings or league are required")
		return nil, false
	}

	stored, err := s.deps.Standings.GetByLeague(r.Context(), league, season)
	if err != nil {
		s.logger.WithError(err).Error("Loading standings failed")
		writeError(w, http.StatusInternalServerError, "loading standings failed")
		return nil, false
	}
	if len(stored) == 0 {
		writeError(w, http.StatusNotFound, "no standings for league "+league)
		return nil, false
	}

	return stored, true
}

func (s *Server) clampTrials(w http.ResponseWriter, trials int) (int, bool) {
	if trials < 0 {
		writeError(w, http.StatusBadRequest, "trials must be non-negative")
		return 0, false
	}
	if trials == 0 {
		return s.defaultTrials, true
	}
	if trials > s.maxTrials {
		writeError(w, http.StatusBadRequest, "trials exceeds maximum of "+strconv.Itoa(s.maxTrials))
		return 0, false
	}
	return trials, true
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
