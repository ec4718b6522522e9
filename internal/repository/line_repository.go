package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

const errScanLine = "failed to scan market line: %w"

const lineColumns = `game_id, sportsbook, opening_spread, closing_spread, opening_total,
       closing_total, first_observed, last_observed`

const upsertLineQuery = `
	INSERT INTO market_lines (game_id, sportsbook, opening_spread, closing_spread,
	                          opening_total, closing_total, first_observed, last_observed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (game_id, sportsbook) DO UPDATE SET
		closing_spread = EXCLUDED.closing_spread,
		closing_total = EXCLUDED.closing_total,
		last_observed = EXCLUDED.last_observed,
		opening_spread = COALESCE(market_lines.opening_spread, EXCLUDED.opening_spread),
		opening_total = COALESCE(market_lines.opening_total, EXCLUDED.opening_total)
`

// PostgresLineRepository implements LineRepository for PostgreSQL
type PostgresLineRepository struct {
	db *database.DB
}

// NewPostgresLineRepository creates a new market line repository
func NewPostgresLineRepository(db *database.DB) LineRepository {
	return &PostgresLineRepository{db: db}
}

// Upsert inserts a line observation. The opening observation is kept once
// written; only the closing side moves on re-sync.
func (r *PostgresLineRepository) Upsert(ctx context.Context, line *models.MarketLine) error {
	_, err := r.db.GetPool().Exec(ctx, upsertLineQuery, lineArgs(line)...)
	if err != nil {
		return fmt.Errorf("failed to upsert market line: %w", err)
	}
	return nil
}

// UpsertBatch upserts lines inside a single transaction
func (r *PostgresLineRepository) UpsertBatch(ctx context.Context, lines []*models.MarketLine) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, line := range lines {
			if _, err := tx.Exec(ctx, upsertLineQuery, lineArgs(line)...); err != nil {
				return fmt.Errorf("failed to upsert line for game %s: %w", line.GameID, err)
			}
		}
		return nil
	})
}

// GetByGameID retrieves the line a sportsbook posted for a game
func (r *PostgresLineRepository) GetByGameID(ctx context.Context, gameID uuid.UUID, sportsbook string) (*models.MarketLine, error) {
	query := fmt.Sprintf("SELECT %s FROM market_lines WHERE game_id = $1 AND sportsbook = $2", lineColumns)

	line := &models.MarketLine{}
	err := r.db.GetPool().QueryRow(ctx, query, gameID, sportsbook).Scan(lineFields(line)...)
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("game %s at %s: %w", gameID, sportsbook, models.ErrNoLine)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get market line: %w", err)
	}
	return line, nil
}

// GetBySeasons retrieves a sportsbook's lines for every game in a season range
func (r *PostgresLineRepository) GetBySeasons(ctx context.Context, firstSeason, lastSeason int, sportsbook string) ([]*models.MarketLine, error) {
	query := `
		SELECT l.game_id, l.sportsbook, l.opening_spread, l.closing_spread,
		       l.opening_total, l.closing_total, l.first_observed, l.last_observed
		FROM market_lines l
		JOIN games g ON g.id = l.game_id
		WHERE g.season >= $1 AND g.season <= $2 AND l.sportsbook = $3
		ORDER BY g.start_time ASC, g.id ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, firstSeason, lastSeason, sportsbook)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines by season: %w", err)
	}
	defer rows.Close()

	var lines []*models.MarketLine
	for rows.Next() {
		line := &models.MarketLine{}
		if err := rows.Scan(lineFields(line)...); err != nil {
			return nil, fmt.Errorf(errScanLine, err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func lineArgs(l *models.MarketLine) []interface{} {
	return []interface{}{
		l.GameID, l.Sportsbook, l.OpeningSpread, l.ClosingSpread, l.OpeningTotal,
		l.ClosingTotal, l.FirstObserved, l.LastObserved,
	}
}

func lineFields(l *models.MarketLine) []interface{} {
	return []interface{}{
		&l.GameID, &l.Sportsbook, &l.OpeningSpread, &l.ClosingSpread, &l.OpeningTotal,
		&l.ClosingTotal, &l.FirstObserved, &l.LastObserved,
	}
}
