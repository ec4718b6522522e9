// Package engine contains the walk-forward replay: the chronological driver,
// the bet grader, and the aggregation of graded bets into summary metrics.
// The engine performs no I/O; games and lines arrive through the feed
// interfaces, already sorted and fully in memory.
package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wheels195/cfb-market-edge-sub005/internal/feed"
	"github.com/wheels195/cfb-market-edge-sub005/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// Record is one game's replay output: always a projection, a line when the
// reference book tracked the game, and a graded bet when the edge cleared
// the acceptance band on a completed game.
type Record struct {
	Game       *models.Game
	Projection *models.Projection
	Line       *models.MarketLine
	Bet        *models.BetRecord
	Flagged    bool
}

// Result is a completed replay run. Partial results from an aborted run are
// never represented; Replay either returns a full Result or an error.
type Result struct {
	RunID   uuid.UUID
	Params  Params
	Records []Record
	driver  *Driver
}

// RatingSnapshot answers point-in-time audit queries against the run's
// rating history.
func (r *Result) RatingSnapshot(team string, season, week int) (models.Rating, error) {
	return r.driver.Store().SnapshotAt(team, season, week)
}

// FinalRatings returns every team's rating at the end of the given season,
// in team order.
func (r *Result) FinalRatings(season int) []models.Rating {
	store := r.driver.Store()
	teams := store.Teams(season)
	ratings := make([]models.Rating, 0, len(teams))
	for _, team := range teams {
		ratings = append(ratings, store.Get(team, season))
	}
	return ratings
}

// Bets returns the graded bets of the run in replay order.
func (r *Result) Bets() []*models.BetRecord {
	bets := make([]*models.BetRecord, 0, len(r.Records))
	for _, rec := range r.Records {
		if rec.Bet != nil {
			bets = append(bets, rec.Bet)
		}
	}
	return bets
}

// Engine wires a parameter set to the game feed and line provider.
type Engine struct {
	params Params
	feed   feed.GameFeed
	lines  feed.MarketLineProvider
	grader *Grader
	logger *logrus.Logger
}

// New validates the parameters and builds an engine.
func New(params Params, gameFeed feed.GameFeed, lines feed.MarketLineProvider, logger *logrus.Logger) (*Engine, error) {
	if gameFeed == nil {
		return nil, fmt.Errorf("game feed is required")
	}
	if lines == nil {
		return nil, fmt.Errorf("market line provider is required")
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine params: %w", err)
	}
	if logger == nil {
		logger = logrus.New()
	}
	grader, err := NewGrader(params.Grading, logger)
	if err != nil {
		return nil, err
	}
	return &Engine{
		params: params,
		feed:   gameFeed,
		lines:  lines,
		grader: grader,
		logger: logger,
	}, nil
}

// Params returns the engine's parameter set.
func (e *Engine) Params() Params {
	return e.params
}

// Replay runs the walk-forward backtest over [firstSeason, lastSeason].
// Every game is projected from ratings that reflect only strictly earlier
// games; completed games then update the ratings in place before the next
// game is touched.
func (e *Engine) Replay(ctx context.Context, firstSeason, lastSeason int) (*Result, error) {
	if firstSeason > lastSeason {
		return nil, fmt.Errorf("first season %d after last season %d", firstSeason, lastSeason)
	}

	games, err := e.feed.Games(ctx, firstSeason, lastSeason)
	if err != nil {
		metrics.RecordReplayRun("failure")
		return nil, fmt.Errorf("failed to load game feed: %w", err)
	}

	driver, err := NewDriver(e.params, e.logger)
	if err != nil {
		return nil, err
	}

	e.logger.WithFields(logrus.Fields{
		"first_season": firstSeason,
		"last_season":  lastSeason,
		"games":        len(games),
		"run_id":       e.params.RunID(),
	}).Info("starting replay")

	records := make([]Record, 0, len(games))
	for _, game := range games {
		proj, err := driver.Process(game)
		if err != nil {
			metrics.RecordReplayRun("failure")
			return nil, fmt.Errorf("replay aborted at game %s: %w", game.ID, err)
		}

		rec := Record{Game: game, Projection: proj}
		line, err := e.lines.Line(ctx, game.ID)
		switch {
		case errors.Is(err, models.ErrNoLine):
			// Untracked by the reference book: projection only, no bet.
		case err != nil:
			metrics.RecordReplayRun("failure")
			return nil, fmt.Errorf("failed to load line for game %s: %w", game.ID, err)
		default:
			rec.Line = line
			if game.Completed() {
				if marketSpread, ok := line.SpreadAt(e.params.BetTiming); ok {
					rec.Bet, rec.Flagged = e.grader.Grade(proj, marketSpread, line.ClosingSpread, game)
				}
			}
		}
		records = append(records, rec)
	}
	driver.Finish()

	metrics.RecordReplayRun("success")
	return &Result{
		RunID:   e.params.RunID(),
		Params:  e.params,
		Records: records,
		driver:  driver,
	}, nil
}
