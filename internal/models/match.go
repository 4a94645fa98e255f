package models

import (
	"time"
)

// Match represents a fixture in the system
type Match struct {
	ID        int        `db:"id" json:"id"`
	League    string     `db:"league" json:"league" validate:"required"`
	Season    string     `db:"season" json:"season"`
	HomeTeam  string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam  string     `db:"away_team" json:"away_team" validate:"required"`
	HomeGoals *int       `db:"home_goals" json:"home_goals"`
	AwayGoals *int       `db:"away_goals" json:"away_goals"`
	HomeShots *int       `db:"home_shots" json:"home_shots"`
	AwayShots *int       `db:"away_shots" json:"away_shots"`
	KickOff   time.Time  `db:"kick_off" json:"kick_off"`
	Status    string     `db:"status" json:"status" validate:"oneof=scheduled played postponed cancelled"`
	PlayedAt  *time.Time `db:"played_at" json:"played_at"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// IsPlayed reports whether the match has a final score.
func (m *Match) IsPlayed() bool {
	return m.Status == "played" && m.HomeGoals != nil && m.AwayGoals != nil
}

// IsUpcoming reports whether the match is still to be played.
func (m *Match) IsUpcoming() bool {
	return m.Status == "scheduled"
}

// HomeOutcome returns the result from the home side's perspective.
// Only valid for played matches.
func (m *Match) HomeOutcome() Outcome {
	switch {
	case *m.HomeGoals > *m.AwayGoals:
		return OutcomeWin
	case *m.HomeGoals < *m.AwayGoals:
		return OutcomeLoss
	default:
		return OutcomeDraw
	}
}

// AwayOutcome returns the result from the away side's perspective.
func (m *Match) AwayOutcome() Outcome {
	switch m.HomeOutcome() {
	case OutcomeWin:
		return OutcomeLoss
	case OutcomeLoss:
		return OutcomeWin
	default:
		return OutcomeDraw
	}
}

// TimeToKickOff returns the duration until kick-off.
func (m *Match) TimeToKickOff() time.Duration {
	return time.Until(m.KickOff)
}

// Fixture is a lightweight reference to an unplayed match, used as
// simulation input.
type Fixture struct {
	HomeTeam string `json:"home_team" validate:"required"`
	AwayTeam string `json:"away_team" validate:"required"`
}
