package feed

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
	"github.com/wheels195/cfb-market-edge-sub005/internal/repository"
)

// RepositoryFeed serves games from the database in replay order.
type RepositoryFeed struct {
	games repository.GameRepository
}

// NewRepositoryFeed creates a feed backed by the game repository.
func NewRepositoryFeed(games repository.GameRepository) *RepositoryFeed {
	return &RepositoryFeed{games: games}
}

// Games loads the season range. Ordering comes from the repository query, so
// the slice arrives ready for the engine's feed-order checks.
func (f *RepositoryFeed) Games(ctx context.Context, firstSeason, lastSeason int) ([]*models.Game, error) {
	return f.games.GetBySeasons(ctx, firstSeason, lastSeason)
}

// CachedLineProvider serves one sportsbook's lines from the database with a
// TTL cache in front. Grid searches replay the same games dozens of times;
// without the cache every cell hits the pool for every game.
type CachedLineProvider struct {
	lines      repository.LineRepository
	sportsbook string
	cache      *cache.Cache
}

// negativeEntry marks games the book is known not to track, so absent lines
// are cached as cheaply as present ones.
type negativeEntry struct{}

// NewCachedLineProvider creates a line provider for one sportsbook.
func NewCachedLineProvider(lines repository.LineRepository, sportsbook string, ttl time.Duration) *CachedLineProvider {
	return &CachedLineProvider{
		lines:      lines,
		sportsbook: sportsbook,
		cache:      cache.New(ttl, 2*ttl),
	}
}

// Line returns the sportsbook's line for a game, or models.ErrNoLine when the
// book never posted one.
func (p *CachedLineProvider) Line(ctx context.Context, gameID uuid.UUID) (*models.MarketLine, error) {
	key := gameID.String()
	if cached, ok := p.cache.Get(key); ok {
		if _, miss := cached.(negativeEntry); miss {
			return nil, models.ErrNoLine
		}
		return cached.(*models.MarketLine), nil
	}

	line, err := p.lines.GetByGameID(ctx, gameID, p.sportsbook)
	if errors.Is(err, models.ErrNoLine) {
		p.cache.SetDefault(key, negativeEntry{})
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	p.cache.SetDefault(key, line)
	return line, nil
}
