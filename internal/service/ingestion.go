package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/wheels195/cfb-market-edge-sub005/internal/datasource"
	"github.com/wheels195/cfb-market-edge-sub005/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
	"github.com/wheels195/cfb-market-edge-sub005/internal/repository"
)

// IngestionService pulls games and market lines from external data sources
// and persists them through the repositories. Game identity is derived from
// the provider's ID, so repeated syncs of the same season are idempotent.
type IngestionService struct {
	sources   []datasource.DataSource
	teams     repository.TeamRepository
	games     repository.GameRepository
	lines     repository.LineRepository
	logger    *logrus.Logger
	batchSize int
}

// NewIngestionService creates a new ingestion service.
func NewIngestionService(
	sources []datasource.DataSource,
	teams repository.TeamRepository,
	games repository.GameRepository,
	lines repository.LineRepository,
	logger *logrus.Logger,
	batchSize int,
) *IngestionService {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &IngestionService{
		sources:   sources,
		teams:     teams,
		games:     games,
		lines:     lines,
		logger:    logger,
		batchSize: batchSize,
	}
}

// SyncResult summarizes one sync pass over a source.
type SyncResult struct {
	Source   string
	Season   int
	Games    int
	Lines    int
	Teams    int
	Skipped  int
	Duration time.Duration
}

func (r SyncResult) String() string {
	return fmt.Sprintf("source=%s season=%d games=%d lines=%d teams=%d skipped=%d duration=%v",
		r.Source, r.Season, r.Games, r.Lines, r.Teams, r.Skipped, r.Duration)
}

// SyncGames fetches one season's games from the named source and upserts
// them. Teams seen in the feed are upserted first so game rows never
// reference an unknown program.
func (s *IngestionService) SyncGames(ctx context.Context, sourceName string, season int) (*SyncResult, error) {
	source, err := s.findSource(sourceName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &SyncResult{Source: sourceName, Season: season}

	raw, err := source.FetchGames(ctx, season)
	if err != nil {
		metrics.RecordSyncRun(sourceName, "error")
		return result, fmt.Errorf("fetching games for season %d: %w", season, err)
	}

	games := make([]*models.Game, 0, len(raw))
	seen := make(map[string]bool)
	for i := range raw {
		g := &raw[i]
		if err := s.syncTeams(ctx, g, seen, result); err != nil {
			return result, err
		}
		games = append(games, convertGame(sourceName, g))
	}

	for i := 0; i < len(games); i += s.batchSize {
		end := i + s.batchSize
		if end > len(games) {
			end = len(games)
		}
		if err := s.games.UpsertBatch(ctx, games[i:end]); err != nil {
			metrics.RecordSyncRun(sourceName, "error")
			return result, fmt.Errorf("upserting games batch: %w", err)
		}
	}

	result.Games = len(games)
	result.Duration = time.Since(start)
	metrics.RecordSyncRun(sourceName, "success")
	metrics.RecordGamesIngested(len(games))
	metrics.RecordIngestionDuration(sourceName, result.Duration.Seconds())

	s.logger.WithFields(logrus.Fields{
		"source":   sourceName,
		"season":   season,
		"games":    result.Games,
		"teams":    result.Teams,
		"duration": result.Duration,
	}).Info("Game sync complete")

	return result, nil
}

// SyncLines fetches one season's market lines from the named source and
// upserts them. Lines for games that were never ingested are skipped, not
// fatal: providers post lines for divisions the model does not track.
func (s *IngestionService) SyncLines(ctx context.Context, sourceName string, season int) (*SyncResult, error) {
	source, err := s.findSource(sourceName)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &SyncResult{Source: sourceName, Season: season}

	raw, err := source.FetchLines(ctx, season)
	if err != nil {
		metrics.RecordSyncRun(sourceName, "error")
		return result, fmt.Errorf("fetching lines for season %d: %w", season, err)
	}

	lines := make([]*models.MarketLine, 0, len(raw))
	for i := range raw {
		l := &raw[i]
		gameID := GameID(sourceName, l.SourceGameID)
		if _, err := s.games.GetByID(ctx, gameID); err != nil {
			result.Skipped++
			continue
		}
		lines = append(lines, convertLine(gameID, l))
	}

	for i := 0; i < len(lines); i += s.batchSize {
		end := i + s.batchSize
		if end > len(lines) {
			end = len(lines)
		}
		if err := s.lines.UpsertBatch(ctx, lines[i:end]); err != nil {
			metrics.RecordSyncRun(sourceName, "error")
			return result, fmt.Errorf("upserting lines batch: %w", err)
		}
	}

	result.Lines = len(lines)
	result.Duration = time.Since(start)
	metrics.RecordSyncRun(sourceName, "success")
	metrics.RecordLinesIngested(len(lines))
	metrics.RecordIngestionDuration(sourceName, result.Duration.Seconds())

	s.logger.WithFields(logrus.Fields{
		"source":   sourceName,
		"season":   season,
		"lines":    result.Lines,
		"skipped":  result.Skipped,
		"duration": result.Duration,
	}).Info("Line sync complete")

	return result, nil
}

// SyncSeasonRange runs a full games-then-lines sync for each season in
// [firstSeason, lastSeason]. A failed season aborts the run; completed
// seasons stay persisted.
func (s *IngestionService) SyncSeasonRange(ctx context.Context, sourceName string, firstSeason, lastSeason int) error {
	if lastSeason < firstSeason {
		return fmt.Errorf("invalid season range %d-%d", firstSeason, lastSeason)
	}
	for season := firstSeason; season <= lastSeason; season++ {
		if _, err := s.SyncGames(ctx, sourceName, season); err != nil {
			return err
		}
		if _, err := s.SyncLines(ctx, sourceName, season); err != nil {
			return err
		}
	}
	return nil
}

func (s *IngestionService) findSource(name string) (datasource.DataSource, error) {
	for _, src := range s.sources {
		if src.Name() == name {
			return src, nil
		}
	}
	return nil, fmt.Errorf("data source not found: %s", name)
}

func (s *IngestionService) syncTeams(ctx context.Context, g *datasource.GameData, seen map[string]bool, result *SyncResult) error {
	for _, name := range []string{g.HomeTeam, g.AwayTeam} {
		id := TeamID(name)
		if seen[id] {
			continue
		}
		team := &models.Team{ID: id, DisplayName: name}
		if name == g.HomeTeam && g.Conference != nil {
			team.Conference = *g.Conference
		}
		if err := s.teams.Upsert(ctx, team); err != nil {
			return fmt.Errorf("upserting team %s: %w", name, err)
		}
		seen[id] = true
		result.Teams++
	}
	return nil
}

// GameID derives the stable internal game ID from a provider's game ID.
// The same provider game always maps to the same UUID.
func GameID(source string, sourceID int64) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/game/%d", source, sourceID)))
}

// TeamID canonicalizes a display name into a team identifier.
func TeamID(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

func convertGame(source string, g *datasource.GameData) *models.Game {
	game := &models.Game{
		ID:          GameID(source, g.SourceID),
		ExternalID:  g.SourceID,
		Season:      g.Season,
		Week:        g.Week,
		StartTime:   g.StartTime.UTC(),
		HomeTeam:    TeamID(g.HomeTeam),
		AwayTeam:    TeamID(g.AwayTeam),
		HomePoints:  g.HomePoints,
		AwayPoints:  g.AwayPoints,
		NeutralSite: g.NeutralSite,
		Indoor:      g.Indoor,
		HomeRest:    g.HomeRest,
		AwayRest:    g.AwayRest,
	}
	if g.WindMPH != nil {
		game.WindMPH = *g.WindMPH
	}
	return game
}

func convertLine(gameID uuid.UUID, l *datasource.LineData) *models.MarketLine {
	line := &models.MarketLine{
		GameID:        gameID,
		Sportsbook:    l.Sportsbook,
		FirstObserved: l.FetchedAt,
		LastObserved:  l.FetchedAt,
	}
	// Provider decimals become floats here, once, at the model boundary.
	if l.OpeningSpread != nil {
		v := l.OpeningSpread.InexactFloat64()
		line.OpeningSpread = &v
	}
	if l.ClosingSpread != nil {
		v := l.ClosingSpread.InexactFloat64()
		line.ClosingSpread = &v
	}
	if l.OpeningTotal != nil {
		v := l.OpeningTotal.InexactFloat64()
		line.OpeningTotal = &v
	}
	if l.ClosingTotal != nil {
		v := l.ClosingTotal.InexactFloat64()
		line.ClosingTotal = &v
	}
	return line
}
