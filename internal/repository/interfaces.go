package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// TeamRepository defines the interface for team data access
type TeamRepository interface {
	Upsert(ctx context.Context, team *models.Team) error
	GetByName(ctx context.Context, name string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
}

// GameRepository defines the interface for game data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	UpsertBatch(ctx context.Context, games []*models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetBySeasons(ctx context.Context, firstSeason, lastSeason int) ([]*models.Game, error)
	GetIncomplete(ctx context.Context, season int) ([]*models.Game, error)
}

// LineRepository defines the interface for market line data access
type LineRepository interface {
	Upsert(ctx context.Context, line *models.MarketLine) error
	UpsertBatch(ctx context.Context, lines []*models.MarketLine) error
	GetByGameID(ctx context.Context, gameID uuid.UUID, sportsbook string) (*models.MarketLine, error)
	GetBySeasons(ctx context.Context, firstSeason, lastSeason int, sportsbook string) ([]*models.MarketLine, error)
}

// BetRepository defines the interface for graded bet persistence
type BetRepository interface {
	SaveRun(ctx context.Context, runID uuid.UUID, paramsHash string, bets []*models.BetRecord) error
	GetByRun(ctx context.Context, runID uuid.UUID) ([]*models.BetRecord, error)
	GetBySeason(ctx context.Context, runID uuid.UUID, season int) ([]*models.BetRecord, error)
}

// SnapshotRepository defines the interface for rating snapshot persistence
type SnapshotRepository interface {
	SaveSnapshot(ctx context.Context, runID uuid.UUID, ratings []models.Rating) error
	GetSnapshot(ctx context.Context, runID uuid.UUID, season, week int) ([]models.Rating, error)
}
