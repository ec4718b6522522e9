package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `id, external_id, season, week, start_time, home_team, away_team,
       home_points, away_points, neutral_site, indoor, home_rest_days, away_rest_days,
       wind_mph, created_at, updated_at`

const upsertGameQuery = `
	INSERT INTO games (id, external_id, season, week, start_time, home_team, away_team,
	                   home_points, away_points, neutral_site, indoor, home_rest_days,
	                   away_rest_days, wind_mph)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (id) DO UPDATE SET
		start_time = EXCLUDED.start_time,
		home_points = EXCLUDED.home_points,
		away_points = EXCLUDED.away_points,
		neutral_site = EXCLUDED.neutral_site,
		indoor = EXCLUDED.indoor,
		home_rest_days = EXCLUDED.home_rest_days,
		away_rest_days = EXCLUDED.away_rest_days,
		wind_mph = EXCLUDED.wind_mph,
		updated_at = NOW()
`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts a game or refreshes its mutable fields
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	_, err := r.db.GetPool().Exec(ctx, upsertGameQuery, gameArgs(game)...)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

// UpsertBatch upserts games inside a single transaction
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []*models.Game) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, game := range games {
			if _, err := tx.Exec(ctx, upsertGameQuery, gameArgs(game)...); err != nil {
				return fmt.Errorf("failed to upsert game %s: %w", game.ID, err)
			}
		}
		return nil
	})
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := fmt.Sprintf("SELECT %s FROM games WHERE id = $1", gameColumns)

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(gameFields(game)...)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return game, nil
}

// GetBySeasons retrieves games for a season range in replay order. The
// ordering here matches what the engine enforces, so a feed built from this
// query never trips the out-of-order check.
func (r *PostgresGameRepository) GetBySeasons(ctx context.Context, firstSeason, lastSeason int) ([]*models.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE season >= $1 AND season <= $2
		ORDER BY start_time ASC, id ASC
	`, gameColumns)

	rows, err := r.db.GetPool().Query(ctx, query, firstSeason, lastSeason)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetIncomplete retrieves the season's games that still lack a final score
func (r *PostgresGameRepository) GetIncomplete(ctx context.Context, season int) ([]*models.Game, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM games
		WHERE season = $1 AND (home_points IS NULL OR away_points IS NULL)
		ORDER BY start_time ASC, id ASC
	`, gameColumns)

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomplete games: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

func scanGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		if err := rows.Scan(gameFields(game)...); err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func gameArgs(g *models.Game) []interface{} {
	return []interface{}{
		g.ID, g.ExternalID, g.Season, g.Week, g.StartTime, g.HomeTeam, g.AwayTeam,
		g.HomePoints, g.AwayPoints, g.NeutralSite, g.Indoor, g.HomeRest, g.AwayRest,
		g.WindMPH,
	}
}

func gameFields(g *models.Game) []interface{} {
	return []interface{}{
		&g.ID, &g.ExternalID, &g.Season, &g.Week, &g.StartTime, &g.HomeTeam, &g.AwayTeam,
		&g.HomePoints, &g.AwayPoints, &g.NeutralSite, &g.Indoor, &g.HomeRest, &g.AwayRest,
		&g.WindMPH, &g.CreatedAt, &g.UpdatedAt,
	}
}
