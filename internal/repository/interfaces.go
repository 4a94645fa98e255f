package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/soccer-predictor/internal/models"
)

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByName(ctx context.Context, name string) (*models.Team, error)
	SearchByName(ctx context.Context, query string, limit int) ([]*models.Team, error)
	GetByLeague(ctx context.Context, league string) ([]*models.Team, error)
	UpdateRating(ctx context.Context, team *models.Team) error
	TopRated(ctx context.Context, limit int) ([]*models.Team, error)
	Count(ctx context.Context) (int, error)
}

// MatchRepository defines the interface for match data access
type MatchRepository interface {
	Create(ctx context.Context, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	RecordResult(ctx context.Context, id int, homeGoals, awayGoals int, playedAt time.Time) error
	ListPlayedByLeague(ctx context.Context, league string, limit int) ([]models.Match, error)
	ListUpcomingByLeague(ctx context.Context, league string, limit int) ([]models.Match, error)
	ListRecentForTeam(ctx context.Context, team string, limit int) ([]models.Match, error)
}

// StandingsRepository defines the interface for league table access
type StandingsRepository interface {
	GetByLeague(ctx context.Context, league, season string) ([]models.StandingsRow, error)
	Upsert(ctx context.Context, league, season string, row *models.StandingsRow) error
	RebuildFromMatches(ctx context.Context, league, season string) error
}

// PredictionRecordRepository defines the interface for stored predictions
type PredictionRecordRepository interface {
	Save(ctx context.Context, record *models.PredictionRecord) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error)
	Update(ctx context.Context, record *models.PredictionRecord) error
	ListSettled(ctx context.Context, limit int) ([]models.PredictionRecord, error)
	ListPending(ctx context.Context, limit int) ([]models.PredictionRecord, error)
}
