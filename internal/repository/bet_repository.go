package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

const errScanBet = "failed to scan bet record: %w"

const betColumns = `id, run_id, game_id, season, week, side, model_spread, market_spread,
       closing_spread, edge, outcome, profit, graded_at`

// PostgresBetRepository implements BetRepository for PostgreSQL
type PostgresBetRepository struct {
	db *database.DB
}

// NewPostgresBetRepository creates a new bet repository
func NewPostgresBetRepository(db *database.DB) BetRepository {
	return &PostgresBetRepository{db: db}
}

// SaveRun persists a replay's graded bets atomically. Re-saving the same run
// replaces its bets, so a re-run with identical parameters is idempotent.
func (r *PostgresBetRepository) SaveRun(ctx context.Context, runID uuid.UUID, paramsHash string, bets []*models.BetRecord) error {
	return r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO replay_runs (id, params_hash) VALUES ($1, $2)
			 ON CONFLICT (id) DO UPDATE SET params_hash = EXCLUDED.params_hash`,
			runID, paramsHash,
		); err != nil {
			return fmt.Errorf("failed to record replay run: %w", err)
		}

		if _, err := tx.Exec(ctx, "DELETE FROM bet_records WHERE run_id = $1", runID); err != nil {
			return fmt.Errorf("failed to clear prior bets for run: %w", err)
		}

		query := `
			INSERT INTO bet_records (id, run_id, game_id, season, week, side, model_spread,
			                         market_spread, closing_spread, edge, outcome, profit, graded_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`
		for _, bet := range bets {
			if _, err := tx.Exec(ctx, query,
				bet.ID, runID, bet.GameID, bet.Season, bet.Week, bet.Side, bet.ModelSpread,
				bet.MarketSpread, bet.ClosingSpread, bet.Edge, bet.Outcome, bet.Profit, bet.GradedAt,
			); err != nil {
				return fmt.Errorf("failed to save bet %s: %w", bet.ID, err)
			}
		}
		return nil
	})
}

// GetByRun retrieves all graded bets of a replay run in grading order
func (r *PostgresBetRepository) GetByRun(ctx context.Context, runID uuid.UUID) ([]*models.BetRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bet_records WHERE run_id = $1
		ORDER BY graded_at ASC, id ASC
	`, betColumns)

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets by run: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

// GetBySeason retrieves a run's graded bets for one season
func (r *PostgresBetRepository) GetBySeason(ctx context.Context, runID uuid.UUID, season int) ([]*models.BetRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM bet_records WHERE run_id = $1 AND season = $2
		ORDER BY graded_at ASC, id ASC
	`, betColumns)

	rows, err := r.db.GetPool().Query(ctx, query, runID, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets by season: %w", err)
	}
	defer rows.Close()

	return scanBets(rows)
}

func scanBets(rows pgx.Rows) ([]*models.BetRecord, error) {
	var bets []*models.BetRecord
	for rows.Next() {
		bet := &models.BetRecord{}
		var runID uuid.UUID
		if err := rows.Scan(
			&bet.ID, &runID, &bet.GameID, &bet.Season, &bet.Week, &bet.Side, &bet.ModelSpread,
			&bet.MarketSpread, &bet.ClosingSpread, &bet.Edge, &bet.Outcome, &bet.Profit, &bet.GradedAt,
		); err != nil {
			return nil, fmt.Errorf(errScanBet, err)
		}
		bets = append(bets, bet)
	}
	return bets, rows.Err()
}
