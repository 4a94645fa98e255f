package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/soccer-predictor/internal/database"
	"github.com/yourusername/soccer-predictor/internal/models"
)

// PostgresStandingsRepository implements StandingsRepository for PostgreSQL
type PostgresStandingsRepository struct {
	db *database.DB
}

// NewPostgresStandingsRepository creates a new standings repository
func NewPostgresStandingsRepository(db *database.DB) StandingsRepository {
	return &PostgresStandingsRepository{db: db}
}

// GetByLeague retrieves the league table ordered by points then goal difference
func (r *PostgresStandingsRepository) GetByLeague(ctx context.Context, league, season string) ([]models.StandingsRow, error) {
	query := `
		SELECT team, played, won, drawn, lost, goals_for, goals_against, points
		FROM standings
		WHERE league = $1 AND season = $2
		ORDER BY points DESC, goals_for - goals_against DESC, team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, league, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query standings: %w", err)
	}
	defer rows.Close()

	var standings []models.StandingsRow
	for rows.Next() {
		var row models.StandingsRow
		err := rows.Scan(
			&row.Team, &row.Played, &row.Won, &row.Drawn, &row.Lost,
			&row.GoalsFor, &row.GoalsAgainst, &row.Points,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan standings row: %w", err)
		}
		standings = append(standings, row)
	}

	return standings, rows.Err()
}

// Upsert writes one team's standings row for a league season
func (r *PostgresStandingsRepository) Upsert(ctx context.Context, league, season string, row *models.StandingsRow) error {
	query := `
		INSERT INTO standings (league, season, team, played, won, drawn, lost, goals_for, goals_against, points)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (league, season, team) DO UPDATE SET
			played = EXCLUDED.played,
			won = EXCLUDED.won,
			drawn = EXCLUDED.drawn,
			lost = EXCLUDED.lost,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			points = EXCLUDED.points
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		league, season, row.Team, row.Played, row.Won, row.Drawn, row.Lost,
		row.GoalsFor, row.GoalsAgainst, row.Points,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert standings row: %w", err)
	}

	return nil
}

// RebuildFromMatches recomputes the whole table from played matches
func (r *PostgresStandingsRepository) RebuildFromMatches(ctx context.Context, league, season string) error {
	query := `
		INSERT INTO standings (league, season, team, played, won, drawn, lost, goals_for, goals_against, points)
		SELECT $1, $2, team,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE gf > ga),
		       COUNT(*) FILTER (WHERE gf = ga),
		       COUNT(*) FILTER (WHERE gf < ga),
		       SUM(gf), SUM(ga),
		       3 * COUNT(*) FILTER (WHERE gf > ga) + COUNT(*) FILTER (WHERE gf = ga)
		FROM (
			SELECT home_team AS team, home_goals AS gf, away_goals AS ga
			FROM matches WHERE league = $1 AND season = $2 AND status = 'played'
			UNION ALL
			SELECT away_team AS team, away_goals AS gf, home_goals AS ga
			FROM matches WHERE league = $1 AND season = $2 AND status = 'played'
		) results
		GROUP BY team
		ON CONFLICT (league, season, team) DO UPDATE SET
			played = EXCLUDED.played,
			won = EXCLUDED.won,
			drawn = EXCLUDED.drawn,
			lost = EXCLUDED.lost,
			goals_for = EXCLUDED.goals_for,
			goals_against = EXCLUDED.goals_against,
			points = EXCLUDED.points
	`

	_, err := r.db.GetPool().Exec(ctx, query, league, season)
	if err != nil {
		return fmt.Errorf("failed to rebuild standings: %w", err)
	}

	return nil
}
