package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new rating snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// SaveSnapshot persists week-end ratings for a replay run
func (r *PostgresSnapshotRepository) SaveSnapshot(ctx context.Context, runID uuid.UUID, ratings []models.Rating) error {
	query := `
		INSERT INTO rating_snapshots (run_id, team, season, week, value, games_played)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (run_id, team, season, week) DO UPDATE SET
			value = EXCLUDED.value,
			games_played = EXCLUDED.games_played
	`

	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, rating := range ratings {
			if _, err := tx.Exec(ctx, query,
				runID, rating.Team, rating.Season, rating.AsOfWeek, rating.Value, rating.GamesPlayed,
			); err != nil {
				return fmt.Errorf("failed to save snapshot for %s: %w", rating.Team, err)
			}
		}
		return nil
	})
}

// GetSnapshot retrieves the ratings of a run as of the end of a week
func (r *PostgresSnapshotRepository) GetSnapshot(ctx context.Context, runID uuid.UUID, season, week int) ([]models.Rating, error) {
	query := `
		SELECT team, season, week, value, games_played
		FROM rating_snapshots
		WHERE run_id = $1 AND season = $2 AND week = $3
		ORDER BY team ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query rating snapshot: %w", err)
	}
	defer rows.Close()

	var ratings []models.Rating
	for rows.Next() {
		var rating models.Rating
		if err := rows.Scan(&rating.Team, &rating.Season, &rating.AsOfWeek, &rating.Value, &rating.GamesPlayed); err != nil {
			return nil, fmt.Errorf("failed to scan rating snapshot: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}
