package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/soccer-predictor/internal/database"
	"github.com/yourusername/soccer-predictor/internal/models"
)

const errScanTeam = "failed to scan team: %w"

const teamColumns = "id, name, league, elo, home_elo, away_elo, matches, last_updated"

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Create inserts a new team
func (r *PostgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, league, elo, home_elo, away_elo, matches, last_updated)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id
	`

	err := r.db.GetPool().QueryRow(ctx, query,
		team.Name, team.League, team.Elo, team.HomeElo, team.AwayElo, team.Matches,
	).Scan(&team.ID)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}

	return nil
}

// GetByID retrieves a team by ID
func (r *PostgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE id = $1`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&team.ID, &team.Name, &team.League, &team.Elo, &team.HomeElo,
		&team.AwayElo, &team.Matches, &team.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return team, nil
}

// GetByName retrieves a team by exact name, case-insensitively
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams WHERE LOWER(name) = LOWER($1)`

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(
		&team.ID, &team.Name, &team.League, &team.Elo, &team.HomeElo,
		&team.AwayElo, &team.Matches, &team.LastUpdated,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by name: %w", err)
	}

	return team, nil
}

// SearchByName retrieves teams whose name contains the query substring
func (r *PostgresTeamRepository) SearchByName(ctx context.Context, query string, limit int) ([]*models.Team, error) {
	stmt := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE name ILIKE '%' || $1 || '%'
		ORDER BY elo DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, stmt, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// GetByLeague retrieves all teams in a league ordered by rating
func (r *PostgresTeamRepository) GetByLeague(ctx context.Context, league string) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		WHERE league = $1
		ORDER BY elo DESC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams by league: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// UpdateRating persists new rating values for a team
func (r *PostgresTeamRepository) UpdateRating(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET elo = $2, home_elo = $3, away_elo = $4, matches = $5, last_updated = NOW()
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		team.ID, team.Elo, team.HomeElo, team.AwayElo, team.Matches,
	)
	if err != nil {
		return fmt.Errorf("failed to update team rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// TopRated retrieves the highest rated teams across all leagues
func (r *PostgresTeamRepository) TopRated(ctx context.Context, limit int) ([]*models.Team, error) {
	query := `
		SELECT ` + teamColumns + `
		FROM teams
		ORDER BY elo DESC
		LIMIT $1
	`

	rows, err := r.db.GetPool().Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated teams: %w", err)
	}
	defer rows.Close()

	return scanTeams(rows)
}

// Count returns the number of tracked teams
func (r *PostgresTeamRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM teams").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return count, nil
}

func scanTeams(rows pgx.Rows) ([]*models.Team, error) {
	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		err := rows.Scan(
			&team.ID, &team.Name, &team.League, &team.Elo, &team.HomeElo,
			&team.AwayElo, &team.Matches, &team.LastUpdated,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanTeam, err)
		}
		teams = append(teams, team)
	}

	return teams, rows.Err()
}
