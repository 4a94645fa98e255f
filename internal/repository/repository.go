package repository

import (
	"fmt"

	"github.com/yourusername/soccer-predictor/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Team             TeamRepository
	Match            MatchRepository
	Standings        StandingsRepository
	PredictionRecord PredictionRecordRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Team:             NewPostgresTeamRepository(db),
		Match:            NewPostgresMatchRepository(db),
		Standings:        NewPostgresStandingsRepository(db),
		PredictionRecord: NewPostgresPredictionRecordRepository(db),
	}, nil
}
