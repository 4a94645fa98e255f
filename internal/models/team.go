package models

import (
	"strings"
	"time"
)

// Team represents a club tracked by the rating system
type Team struct {
	ID          int       `db:"id" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required"`
	League      string    `db:"league" json:"league"`
	Elo         float64   `db:"elo" json:"elo" validate:"gte=1000,lte=2500"`
	HomeElo     float64   `db:"home_elo" json:"home_elo"`
	AwayElo     float64   `db:"away_elo" json:"away_elo"`
	Matches     int       `db:"matches" json:"matches" validate:"gte=0"`
	LastUpdated time.Time `db:"last_updated" json:"last_updated"`
}

// MatchesName reports whether the team name matches the given input,
// case-insensitively.
func (t *Team) MatchesName(input string) bool {
	return strings.EqualFold(t.Name, strings.TrimSpace(input))
}

// RatingTier returns a human-readable tier for the team's rating.
func (t *Team) RatingTier() string {
	switch {
	case t.Elo >= 2000:
		return "Elite"
	case t.Elo >= 1800:
		return "Top Tier"
	case t.Elo >= 1600:
		return "Strong"
	case t.Elo >= 1400:
		return "Average"
	case t.Elo >= 1200:
		return "Below Average"
	default:
		return "Weak"
	}
}

// Outcome is a single match result from a team's perspective.
type Outcome string

const (
	OutcomeWin  Outcome = "W"
	OutcomeDraw Outcome = "D"
	OutcomeLoss Outcome = "L"
)

// Points returns league points awarded for the outcome.
func (o Outcome) Points() int {
	switch o {
	case OutcomeWin:
		return 3
	case OutcomeDraw:
		return 1
	default:
		return 0
	}
}
