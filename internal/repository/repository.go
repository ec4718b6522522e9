package repository

import (
	"fmt"

	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Team     TeamRepository
	Game     GameRepository
	Line     LineRepository
	Bet      BetRepository
	Snapshot SnapshotRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Team:     NewPostgresTeamRepository(db),
		Game:     NewPostgresGameRepository(db),
		Line:     NewPostgresLineRepository(db),
		Bet:      NewPostgresBetRepository(db),
		Snapshot: NewPostgresSnapshotRepository(db),
	}, nil
}
