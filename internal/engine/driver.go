package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
	"github.com/wheels195/cfb-market-edge-sub005/internal/projection"
	"github.com/wheels195/cfb-market-edge-sub005/internal/rating"
)

// DriverState is the walk-forward state machine position.
type DriverState int

const (
	StateAwaitingSeasonStart DriverState = iota
	StateProcessingWeek
	StateSeasonBoundary
	StateDone
)

// Driver replays games in chronological order and is the sole writer of
// ratings. For each game it reads ratings as of "yesterday", emits a
// projection, and only then folds the final score back in. The point-in-time
// guarantee lives here and nowhere else.
type Driver struct {
	update       *rating.UpdateRule
	project      *projection.Function
	seasonParams rating.SeasonParams
	store        *rating.Store
	logger       *logrus.Logger

	state     DriverState
	season    int
	week      int
	lastStart time.Time
	lastID    uuid.UUID
	seen      map[uuid.UUID]bool
}

// NewDriver builds a driver with a fresh rating store. First access to a
// (team, season) seeds through the season transition rule when the prior
// season was frozen with that team in it, else at the league average.
func NewDriver(params Params, logger *logrus.Logger) (*Driver, error) {
	update, err := rating.NewUpdateRule(params.Update)
	if err != nil {
		return nil, err
	}
	project, err := projection.New(params.Projection)
	if err != nil {
		return nil, err
	}
	if err := params.Season.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	d := &Driver{
		update:       update,
		project:      project,
		seasonParams: params.Season,
		logger:       logger,
		state:        StateAwaitingSeasonStart,
		seen:         make(map[uuid.UUID]bool),
	}
	d.store = rating.NewStore(func(team string, season int) models.Rating {
		if frozen, ok := d.store.Frozen(season - 1); ok {
			if final, ok := frozen[team]; ok {
				return rating.Carry(final, season, d.seasonParams)
			}
		}
		return rating.Seed(team, season, d.seasonParams)
	})
	return d, nil
}

// Store exposes the rating store for point-in-time snapshot queries.
func (d *Driver) Store() *rating.Store {
	return d.store
}

// State returns the current state machine position.
func (d *Driver) State() DriverState {
	return d.state
}

// Process consumes the next game in feed order and returns its projection.
// Feed-order violations are fatal for the replay: a reordered or duplicated
// feed cannot be silently repaired without risking look-ahead bias.
func (d *Driver) Process(game *models.Game) (*models.Projection, error) {
	if d.state == StateDone {
		return nil, fmt.Errorf("driver already finished")
	}
	if d.seen[game.ID] {
		return nil, fmt.Errorf("game %s: %w", game.ID, models.ErrDuplicateGame)
	}

	switch d.state {
	case StateAwaitingSeasonStart:
		d.season = game.Season
		d.week = game.Week
		d.state = StateProcessingWeek
	case StateProcessingWeek:
		if err := d.advance(game); err != nil {
			return nil, err
		}
	}

	homeRating := d.store.Get(game.HomeTeam, game.Season)
	awayRating := d.store.Get(game.AwayTeam, game.Season)

	proj := &models.Projection{
		GameID:     game.ID,
		Season:     game.Season,
		Week:       game.Week,
		HomeRating: homeRating,
		AwayRating: awayRating,
		ComputedAt: game.StartTime,
	}
	projCtx := projection.Context{
		NeutralSite:      game.NeutralSite,
		Indoor:           game.Indoor,
		RestDifferential: game.RestDifferential(),
		WindMPH:          game.WindMPH,
	}
	proj.Spread = d.project.Spread(homeRating, awayRating, projCtx)
	proj.Total = d.project.Total(homeRating, awayRating, projCtx)

	// A game without a final score is projected but never updates ratings.
	if game.Completed() {
		newHome, newAway := d.update.Apply(homeRating, awayRating, *game.HomePoints, *game.AwayPoints, game.NeutralSite)
		newHome.AsOfWeek = game.Week
		newAway.AsOfWeek = game.Week
		d.store.Set(game.HomeTeam, game.Season, newHome)
		d.store.Set(game.AwayTeam, game.Season, newAway)
	}

	d.seen[game.ID] = true
	d.lastStart = game.StartTime
	d.lastID = game.ID
	return proj, nil
}

// advance handles week and season boundaries before a game is processed.
func (d *Driver) advance(game *models.Game) error {
	if game.StartTime.Before(d.lastStart) {
		return fmt.Errorf("game %s at %s precedes game %s at %s: %w",
			game.ID, game.StartTime.Format(time.RFC3339),
			d.lastID, d.lastStart.Format(time.RFC3339), models.ErrOutOfOrderFeed)
	}
	if game.Season < d.season {
		return fmt.Errorf("game %s season %d after season %d: %w",
			game.ID, game.Season, d.season, models.ErrOutOfOrderFeed)
	}
	if game.Season > d.season {
		d.crossSeasonBoundary(game.Season)
		d.week = game.Week
		return nil
	}

	if game.StartTime.Equal(d.lastStart) && game.ID.String() < d.lastID.String() {
		return fmt.Errorf("games %s and %s share timestamp %s but are not in identifier order: %w",
			d.lastID, game.ID, game.StartTime.Format(time.RFC3339), models.ErrOutOfOrderFeed)
	}
	if game.Week > d.week {
		d.store.Snapshot(d.season, d.week)
		d.week = game.Week
	}
	return nil
}

// crossSeasonBoundary freezes the finished season and carries every known
// team's rating into the new one. The carry is order-independent, so the
// sorted team order only matters for reproducible logging.
func (d *Driver) crossSeasonBoundary(newSeason int) {
	d.state = StateSeasonBoundary
	d.store.Snapshot(d.season, d.week)
	d.store.FreezeSeason(d.season)

	frozen, _ := d.store.Frozen(d.season)
	for _, team := range d.store.Teams(d.season) {
		if d.store.Has(team, newSeason) {
			continue
		}
		d.store.Set(team, newSeason, rating.Carry(frozen[team], newSeason, d.seasonParams))
	}
	d.logger.WithFields(logrus.Fields{
		"from_season": d.season,
		"to_season":   newSeason,
		"teams":       len(frozen),
	}).Debug("applied season transition")

	d.season = newSeason
	d.state = StateProcessingWeek
}

// Finish snapshots and freezes the final season and marks the driver done.
func (d *Driver) Finish() {
	if d.state == StateProcessingWeek {
		d.store.Snapshot(d.season, d.week)
		d.store.FreezeSeason(d.season)
	}
	d.state = StateDone
}
