package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/soccer-predictor/internal/database"
	"github.com/yourusername/soccer-predictor/internal/models"
)

const errScanMatch = "failed to scan match: %w"

const matchColumns = `id, league, season, home_team, away_team, home_goals, away_goals,
	       home_shots, away_shots, kick_off, status, played_at, created_at, updated_at`

// PostgresMatchRepository implements MatchRepository for PostgreSQL
type PostgresMatchRepository struct {
	db *database.DB
}

// NewPostgresMatchRepository creates a new match repository
func NewPostgresMatchRepository(db *database.DB) MatchRepository {
	return &PostgresMatchRepository{db: db}
}

// Create inserts a new match
func (r *PostgresMatchRepository) Create(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (league, season, home_team, away_team, home_goals, away_goals,
		                     home_shots, away_shots, kick_off, status, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.GetPool().QueryRow(ctx, query,
		match.League, match.Season, match.HomeTeam, match.AwayTeam,
		match.HomeGoals, match.AwayGoals, match.HomeShots, match.AwayShots,
		match.KickOff, match.Status, match.PlayedAt,
	).Scan(&match.ID)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by ID
func (r *PostgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	match := &models.Match{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&match.ID, &match.League, &match.Season, &match.HomeTeam, &match.AwayTeam,
		&match.HomeGoals, &match.AwayGoals, &match.HomeShots, &match.AwayShots,
		&match.KickOff, &match.Status, &match.PlayedAt, &match.CreatedAt, &match.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get match: %w", err)
	}

	return match, nil
}

// RecordResult marks a match as played with its final score
func (r *PostgresMatchRepository) RecordResult(ctx context.Context, id int, homeGoals, awayGoals int, playedAt time.Time) error {
	query := `
		UPDATE matches
		SET home_goals = $2, away_goals = $3, status = 'played', played_at = $4, updated_at = NOW()
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, homeGoals, awayGoals, playedAt)
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListPlayedByLeague retrieves played matches in a league, newest first.
// A non-positive limit returns every match.
func (r *PostgresMatchRepository) ListPlayedByLeague(ctx context.Context, league string, limit int) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE league = $1 AND status = 'played'
		ORDER BY played_at DESC
	`
	args := []interface{}{league}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query played matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// ListUpcomingByLeague retrieves scheduled matches in kick-off order.
// A non-positive limit returns every upcoming match.
func (r *PostgresMatchRepository) ListUpcomingByLeague(ctx context.Context, league string, limit int) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE league = $1 AND status = 'scheduled' AND kick_off > NOW()
		ORDER BY kick_off ASC
	`
	args := []interface{}{league}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query upcoming matches: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

// ListRecentForTeam retrieves a team's most recent played matches
func (r *PostgresMatchRepository) ListRecentForTeam(ctx context.Context, team string, limit int) ([]models.Match, error) {
	query := `
		SELECT ` + matchColumns + `
		FROM matches
		WHERE (LOWER(home_team) = LOWER($1) OR LOWER(away_team) = LOWER($1)) AND status = 'played'
		ORDER BY played_at DESC
		LIMIT $2
	`

	rows, err := r.db.GetPool().Query(ctx, query, team, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent matches for team: %w", err)
	}
	defer rows.Close()

	return scanMatches(rows)
}

func scanMatches(rows pgx.Rows) ([]models.Match, error) {
	var matches []models.Match
	for rows.Next() {
		var match models.Match
		err := rows.Scan(
			&match.ID, &match.League, &match.Season, &match.HomeTeam, &match.AwayTeam,
			&match.HomeGoals, &match.AwayGoals, &match.HomeShots, &match.AwayShots,
			&match.KickOff, &match.Status, &match.PlayedAt, &match.CreatedAt, &match.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanMatch, err)
		}
		matches = append(matches, match)
	}

	return matches, rows.Err()
}
