package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// MemoryFeed serves a pre-loaded game slice. It sorts on construction by
// (start time, game ID) so replays are bit-identical regardless of input
// order, and rejects duplicate identifiers up front.
type MemoryFeed struct {
	games []*models.Game
}

// NewMemoryFeed copies, sorts, and validates the given games.
func NewMemoryFeed(games []*models.Game) (*MemoryFeed, error) {
	sorted := make([]*models.Game, len(games))
	copy(sorted, games)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	seen := make(map[uuid.UUID]bool, len(sorted))
	for _, g := range sorted {
		if seen[g.ID] {
			return nil, fmt.Errorf("game %s: %w", g.ID, models.ErrDuplicateGame)
		}
		seen[g.ID] = true
	}
	return &MemoryFeed{games: sorted}, nil
}

// Games returns the games whose season falls within [firstSeason, lastSeason].
func (f *MemoryFeed) Games(_ context.Context, firstSeason, lastSeason int) ([]*models.Game, error) {
	out := make([]*models.Game, 0, len(f.games))
	for _, g := range f.games {
		if g.Season >= firstSeason && g.Season <= lastSeason {
			out = append(out, g)
		}
	}
	return out, nil
}

// MemoryLines serves market lines from a map, for tests and for replays whose
// lines were prefetched by a repository.
type MemoryLines struct {
	lines map[uuid.UUID]*models.MarketLine
}

// NewMemoryLines indexes the given lines by game ID.
func NewMemoryLines(lines []*models.MarketLine) *MemoryLines {
	indexed := make(map[uuid.UUID]*models.MarketLine, len(lines))
	for _, l := range lines {
		indexed[l.GameID] = l
	}
	return &MemoryLines{lines: indexed}
}

// Line returns the line for a game, or models.ErrNoLine when untracked.
func (m *MemoryLines) Line(_ context.Context, gameID uuid.UUID) (*models.MarketLine, error) {
	line, ok := m.lines[gameID]
	if !ok {
		return nil, fmt.Errorf("game %s: %w", gameID, models.ErrNoLine)
	}
	return line, nil
}
