package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/yourusername/soccer-predictor/internal/database"
	"github.com/yourusername/soccer-predictor/internal/models"
)

const errScanPredictionRecord = "failed to scan prediction record: %w"

const predictionRecordColumns = `id, match_id, home_team, away_team, league, match_date,
	       predicted_home_win, predicted_draw, predicted_away_win,
	       predicted_home_goals, predicted_away_goals, predicted_winner, confidence,
	       home_elo, away_elo, actual_home_goals, actual_away_goals, actual_winner,
	       predicted_at, settled_at`

// PostgresPredictionRecordRepository implements PredictionRecordRepository for PostgreSQL
type PostgresPredictionRecordRepository struct {
	db *database.DB
}

// NewPostgresPredictionRecordRepository creates a new prediction record repository
func NewPostgresPredictionRecordRepository(db *database.DB) PredictionRecordRepository {
	return &PostgresPredictionRecordRepository{db: db}
}

// Save inserts a new prediction record
func (r *PostgresPredictionRecordRepository) Save(ctx context.Context, record *models.PredictionRecord) error {
	query := `
		INSERT INTO prediction_records (
			id, match_id, home_team, away_team, league, match_date,
			predicted_home_win, predicted_draw, predicted_away_win,
			predicted_home_goals, predicted_away_goals, predicted_winner, confidence,
			home_elo, away_elo, predicted_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		record.ID, record.MatchID, record.HomeTeam, record.AwayTeam, record.League, record.MatchDate,
		record.PredictedHomeWin, record.PredictedDraw, record.PredictedAwayWin,
		record.PredictedHomeGoals, record.PredictedAwayGoals, record.PredictedWinner, record.Confidence,
		record.HomeElo, record.AwayElo, record.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction record: %w", err)
	}

	return nil
}

// GetByID retrieves a prediction record by ID
func (r *PostgresPredictionRecordRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PredictionRecord, error) {
	query := `SELECT ` + predictionRecordColumns + ` FROM prediction_records WHERE id = $1`

	record := &models.PredictionRecord{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&record.ID, &record.MatchID, &record.HomeTeam, &record.AwayTeam, &record.League, &record.MatchDate,
		&record.PredictedHomeWin, &record.PredictedDraw, &record.PredictedAwayWin,
		&record.PredictedHomeGoals, &record.PredictedAwayGoals, &record.PredictedWinner, &record.Confidence,
		&record.HomeElo, &record.AwayElo, &record.ActualHomeGoals, &record.ActualAwayGoals, &record.ActualWinner,
		&record.PredictedAt, &record.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get prediction record: %w", err)
	}

	return record, nil
}

// Update persists settlement fields on an existing record
func (r *PostgresPredictionRecordRepository) Update(ctx context.Context, record *models.PredictionRecord) error {
	query := `
		UPDATE prediction_records
		SET actual_home_goals = $2, actual_away_goals = $3, actual_winner = $4, settled_at = $5
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query,
		record.ID, record.ActualHomeGoals, record.ActualAwayGoals, record.ActualWinner, record.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update prediction record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// ListSettled retrieves settled records, newest first.
// A non-positive limit returns every settled record.
func (r *PostgresPredictionRecordRepository) ListSettled(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	query := `
		SELECT ` + predictionRecordColumns + `
		FROM prediction_records
		WHERE settled_at IS NOT NULL
		ORDER BY settled_at DESC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settled prediction records: %w", err)
	}
	defer rows.Close()

	return scanPredictionRecords(rows)
}

// ListPending retrieves unsettled records whose match date has passed
func (r *PostgresPredictionRecordRepository) ListPending(ctx context.Context, limit int) ([]models.PredictionRecord, error) {
	query := `
		SELECT ` + predictionRecordColumns + `
		FROM prediction_records
		WHERE settled_at IS NULL AND match_date < NOW()
		ORDER BY match_date ASC
	`
	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT $1"
		args = append(args, limit)
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending prediction records: %w", err)
	}
	defer rows.Close()

	return scanPredictionRecords(rows)
}

func scanPredictionRecords(rows pgx.Rows) ([]models.PredictionRecord, error) {
	var records []models.PredictionRecord
	for rows.Next() {
		var record models.PredictionRecord
		err := rows.Scan(
			&record.ID, &record.MatchID, &record.HomeTeam, &record.AwayTeam, &record.League, &record.MatchDate,
			&record.PredictedHomeWin, &record.PredictedDraw, &record.PredictedAwayWin,
			&record.PredictedHomeGoals, &record.PredictedAwayGoals, &record.PredictedWinner, &record.Confidence,
			&record.HomeElo, &record.AwayElo, &record.ActualHomeGoals, &record.ActualAwayGoals, &record.ActualWinner,
			&record.PredictedAt, &record.SettledAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPredictionRecord, err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}
