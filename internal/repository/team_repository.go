package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// PostgresTeamRepository implements TeamRepository for PostgreSQL
type PostgresTeamRepository struct {
	db *database.DB
}

// NewPostgresTeamRepository creates a new team repository
func NewPostgresTeamRepository(db *database.DB) TeamRepository {
	return &PostgresTeamRepository{db: db}
}

// Upsert inserts a team or refreshes its display data
func (r *PostgresTeamRepository) Upsert(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (id, display_name, conference)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			conference = EXCLUDED.conference
	`

	_, err := r.db.GetPool().Exec(ctx, query, team.ID, team.DisplayName, team.Conference)
	if err != nil {
		return fmt.Errorf("failed to upsert team: %w", err)
	}
	return nil
}

// GetByName retrieves a team by its canonical identifier
func (r *PostgresTeamRepository) GetByName(ctx context.Context, name string) (*models.Team, error) {
	query := "SELECT id, display_name, conference FROM teams WHERE id = $1"

	team := &models.Team{}
	err := r.db.GetPool().QueryRow(ctx, query, name).Scan(&team.ID, &team.DisplayName, &team.Conference)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// List retrieves every known team in identifier order
func (r *PostgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	query := "SELECT id, display_name, conference FROM teams ORDER BY id ASC"

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	var teams []*models.Team
	for rows.Next() {
		team := &models.Team{}
		if err := rows.Scan(&team.ID, &team.DisplayName, &team.Conference); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}
