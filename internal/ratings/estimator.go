package ratings

import (
	"strings"

	"github.com/yourusername/soccer-predictor/internal/models"
)

// FormModifierRange bounds the form modifier to [-15, +15] rating points.
const FormModifierRange = 15

// TeamRating is the estimator output for one team.
type TeamRating struct {
	TeamName             string  `json:"team_name"`
	BaseRating           float64 `json:"base_rating"`
	LeagueAdjustedRating float64 `json:"league_adjusted_rating"`
	FormModifier         float64 `json:"form_modifier"`
}

// Effective returns the league-adjusted rating with the form modifier
// applied.
func (r TeamRating) Effective() float64 {
	return r.LeagueAdjustedRating + r.FormModifier
}

// Estimator derives a numeric strength for a team from the configured
// baseline table, the league strength coefficient and an optional form
// modifier. It never fails: unknown teams fall back to the default
// rating, unknown leagues to a neutral coefficient.
type Estimator struct {
	cfg Config
}

// NewEstimator creates a strength estimator over the given reference
// data.
func NewEstimator(cfg Config) *Estimator {
	if cfg.BaselineRatings == nil {
		cfg.BaselineRatings = map[string]float64{}
	}
	if cfg.LeagueCoefficients == nil {
		cfg.LeagueCoefficients = map[string]float64{}
	}
	return &Estimator{cfg: cfg}
}

// Estimate computes the rating for a team. The baseline lookup is a
// case-insensitive exact match only; fuzzy matching belongs to the team
// search service, not here. When includeForm is set and no recent
// results are given, a synthetic hash-derived modifier stands in for
// real form data.
func (e *Estimator) Estimate(teamName, league string, includeForm bool) TeamRating {
	base := e.baseline(teamName)
	rating := TeamRating{
		TeamName:             teamName,
		BaseRating:           base,
		LeagueAdjustedRating: base,
	}
	if league != "" {
		rating.LeagueAdjustedRating = base * e.cfg.LeagueCoefficient(league)
	}
	if includeForm {
		rating.FormModifier = SyntheticFormModifier(teamName)
	}
	return rating
}

// EstimateWithForm is Estimate with the form modifier computed from
// real recent results instead of the synthetic fallback.
func (e *Estimator) EstimateWithForm(teamName, league string, recent []models.Outcome) TeamRating {
	rating := e.Estimate(teamName, league, false)
	rating.FormModifier = FormModifier(recent)
	return rating
}

func (e *Estimator) baseline(teamName string) float64 {
	trimmed := strings.TrimSpace(teamName)
	for name, elo := range e.cfg.BaselineRatings {
		if strings.EqualFold(name, trimmed) {
			return elo
		}
	}
	return DefaultElo
}

// FormModifier converts recent results into a rating adjustment in
// [-15, +15]. Five wins map to +15, five losses to -15; fewer than five
// results are scaled accordingly. Empty input is neutral.
func FormModifier(recent []models.Outcome) float64 {
	if len(recent) == 0 {
		return 0
	}
	window := recent
	if len(window) > 5 {
		window = window[:5]
	}
	points := 0
	for _, o := range window {
		points += o.Points()
	}
	// Points per game relative to a draw-everything baseline.
	ppg := float64(points) / float64(len(window))
	return (ppg - 1.0) / 2.0 * FormModifierRange
}

// SyntheticFormModifier derives a deterministic pseudo-random integer
// in [-15, +15] from a rolling hash of the team name. It is a stand-in
// for real recent-form data and must never be mixed silently with it.
func SyntheticFormModifier(teamName string) float64 {
	var hash uint32
	for _, c := range strings.ToLower(strings.TrimSpace(teamName)) {
		hash = hash*31 + uint32(c)
	}
	return float64(int(hash%(2*FormModifierRange+1)) - FormModifierRange)
}
