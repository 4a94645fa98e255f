package models

// StandingsRow is one team's line in a league table.
type StandingsRow struct {
	Team         string `db:"team" json:"team" validate:"required"`
	Played       int    `db:"played" json:"played" validate:"gte=0"`
	Won          int    `db:"won" json:"won" validate:"gte=0"`
	Drawn        int    `db:"drawn" json:"drawn" validate:"gte=0"`
	Lost         int    `db:"lost" json:"lost" validate:"gte=0"`
	GoalsFor     int    `db:"goals_for" json:"goals_for"`
	GoalsAgainst int    `db:"goals_against" json:"goals_against"`
	Points       int    `db:"points" json:"points" validate:"gte=0"`
}

// GoalDiff returns the row's goal difference.
func (r *StandingsRow) GoalDiff() int {
	return r.GoalsFor - r.GoalsAgainst
}

// WinRate returns the empirical win rate, or 0 for an unplayed team.
func (r *StandingsRow) WinRate() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.Won) / float64(r.Played)
}

// DrawRate returns the empirical draw rate, or 0 for an unplayed team.
func (r *StandingsRow) DrawRate() float64 {
	if r.Played == 0 {
		return 0
	}
	return float64(r.Drawn) / float64(r.Played)
}
