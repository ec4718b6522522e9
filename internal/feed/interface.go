// Package feed defines the two collaborators the engine consumes: a sorted
// game feed and a market-line provider. The engine never performs I/O itself;
// implementations prefetch everything and hand over in-memory sequences.
package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// GameFeed produces, for a season range, a sequence of games in ascending
// timestamp order with game ID as the stable tie-break. Implementations must
// not emit duplicate game identifiers.
type GameFeed interface {
	Games(ctx context.Context, firstSeason, lastSeason int) ([]*models.Game, error)
}

// MarketLineProvider returns the reference sportsbook's line for a game.
// A game the book never tracked returns models.ErrNoLine; the engine treats
// that as "not bettable", not a failure.
type MarketLineProvider interface {
	Line(ctx context.Context, gameID uuid.UUID) (*models.MarketLine, error)
}
