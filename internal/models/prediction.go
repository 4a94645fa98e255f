package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OutcomeProbabilities is a three-way match outcome distribution in
// integer percent. The three values always sum to exactly 100.
type OutcomeProbabilities struct {
	HomeWinPct int `json:"home_win_pct" validate:"gte=0,lte=100"`
	DrawPct    int `json:"draw_pct" validate:"gte=0,lte=100"`
	AwayWinPct int `json:"away_win_pct" validate:"gte=0,lte=100"`
}

// Valid reports whether the distribution sums to exactly 100.
func (p OutcomeProbabilities) Valid() bool {
	return p.HomeWinPct >= 0 && p.DrawPct >= 0 && p.AwayWinPct >= 0 &&
		p.HomeWinPct+p.DrawPct+p.AwayWinPct == 100
}

// FairOdds converts the distribution into fair decimal odds (no margin).
// Zero-probability outcomes get zero odds rather than infinity.
func (p OutcomeProbabilities) FairOdds() FairOdds {
	toOdds := func(pct int) decimal.Decimal {
		if pct <= 0 {
			return decimal.Zero
		}
		return decimal.NewFromInt(100).DivRound(decimal.NewFromInt(int64(pct)), 2)
	}
	return FairOdds{
		Home: toOdds(p.HomeWinPct),
		Draw: toOdds(p.DrawPct),
		Away: toOdds(p.AwayWinPct),
	}
}

// FairOdds holds decimal odds implied by a prediction.
type FairOdds struct {
	Home decimal.Decimal `json:"home"`
	Draw decimal.Decimal `json:"draw"`
	Away decimal.Decimal `json:"away"`
}

// GoalsProjection is the expected scoreline, one decimal place, each
// side clamped to [0, 5].
type GoalsProjection struct {
	HomeGoals float64 `json:"predicted_home_goals" validate:"gte=0,lte=5"`
	AwayGoals float64 `json:"predicted_away_goals" validate:"gte=0,lte=5"`
}

// Scoreline is one exact-score candidate with its probability.
type Scoreline struct {
	Score       string  `json:"score"`
	Probability float64 `json:"probability"`
}

// MatchPrediction is the full response for a match prediction request.
type MatchPrediction struct {
	HomeTeam      string               `json:"home_team"`
	AwayTeam      string               `json:"away_team"`
	HomeLeague    string               `json:"home_league,omitempty"`
	AwayLeague    string               `json:"away_league,omitempty"`
	HomeRating    float64              `json:"home_rating"`
	AwayRating    float64              `json:"away_rating"`
	Probabilities OutcomeProbabilities `json:"probabilities"`
	Goals         GoalsProjection      `json:"goals"`
	ConfidencePct int                  `json:"confidence_pct" validate:"gte=0,lte=100"`
	Odds          FairOdds             `json:"fair_odds"`
	Scorelines    []Scoreline          `json:"scorelines,omitempty"`
	OverUnder     map[string]float64   `json:"over_under,omitempty"`
	BTTSProb      float64              `json:"btts_probability,omitempty"`
}

// PredictedWinner returns "home", "draw" or "away" for the most likely
// outcome.
func (p *MatchPrediction) PredictedWinner() string {
	switch {
	case p.Probabilities.HomeWinPct >= p.Probabilities.DrawPct &&
		p.Probabilities.HomeWinPct >= p.Probabilities.AwayWinPct:
		return "home"
	case p.Probabilities.AwayWinPct >= p.Probabilities.DrawPct:
		return "away"
	default:
		return "draw"
	}
}

// PredictionRecord stores a prediction for later accuracy scoring.
type PredictionRecord struct {
	ID        uuid.UUID `db:"id" json:"id" validate:"required,uuid4"`
	MatchID   int       `db:"match_id" json:"match_id"`
	HomeTeam  string    `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string    `db:"away_team" json:"away_team" validate:"required"`
	League    string    `db:"league" json:"league"`
	MatchDate time.Time `db:"match_date" json:"match_date"`

	PredictedHomeWin   float64 `db:"predicted_home_win" json:"predicted_home_win" validate:"gte=0,lte=1"`
	PredictedDraw      float64 `db:"predicted_draw" json:"predicted_draw" validate:"gte=0,lte=1"`
	PredictedAwayWin   float64 `db:"predicted_away_win" json:"predicted_away_win" validate:"gte=0,lte=1"`
	PredictedHomeGoals float64 `db:"predicted_home_goals" json:"predicted_home_goals"`
	PredictedAwayGoals float64 `db:"predicted_away_goals" json:"predicted_away_goals"`
	PredictedWinner    string  `db:"predicted_winner" json:"predicted_winner" validate:"oneof=home draw away"`
	Confidence         float64 `db:"confidence" json:"confidence" validate:"gte=0,lte=1"`
	HomeElo            float64 `db:"home_elo" json:"home_elo"`
	AwayElo            float64 `db:"away_elo" json:"away_elo"`

	ActualHomeGoals *int    `db:"actual_home_goals" json:"actual_home_goals"`
	ActualAwayGoals *int    `db:"actual_away_goals" json:"actual_away_goals"`
	ActualWinner    *string `db:"actual_winner" json:"actual_winner"`

	PredictedAt time.Time  `db:"predicted_at" json:"predicted_at"`
	SettledAt   *time.Time `db:"settled_at" json:"settled_at"`
}

// IsSettled reports whether the actual outcome has been recorded.
func (r *PredictionRecord) IsSettled() bool {
	return r.ActualWinner != nil && r.ActualHomeGoals != nil && r.ActualAwayGoals != nil
}

// WinnerCorrect reports whether the predicted winner matched the actual
// one. False for unsettled records.
func (r *PredictionRecord) WinnerCorrect() bool {
	return r.IsSettled() && *r.ActualWinner == r.PredictedWinner
}
