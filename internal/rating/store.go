package rating

import (
	"fmt"
	"sort"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// SeedFunc produces the rating a team enters a season with, the first time
// that (team, season) pair is referenced. The driver wires this to the season
// transition rule so first access to a team with prior history regresses its
// frozen final rating, and a never-seen team starts at the league average.
type SeedFunc func(team string, season int) models.Rating

type seasonTeam struct {
	team   string
	season int
}

type seasonWeek struct {
	season int
	week   int
}

// Store holds the current rating of every (team, season) pair plus immutable
// week-granular snapshots for point-in-time lookup. All reads are addressed
// by season and week; there is deliberately no "current wall-clock rating"
// accessor, so historical replay and live use share one code path.
//
// Not safe for concurrent use. Replays are single-threaded by design;
// parallel parameter sweeps each own a private Store.
type Store struct {
	seed       SeedFunc
	current    map[seasonTeam]models.Rating
	snapshots  map[seasonWeek]map[string]models.Rating
	latestWeek map[int]int
	frozen     map[int]map[string]models.Rating
}

// NewStore creates a store that seeds first-access ratings through seed.
func NewStore(seed SeedFunc) *Store {
	return &Store{
		seed:       seed,
		current:    make(map[seasonTeam]models.Rating),
		snapshots:  make(map[seasonWeek]map[string]models.Rating),
		latestWeek: make(map[int]int),
		frozen:     make(map[int]map[string]models.Rating),
	}
}

// Get returns the current rating for (team, season), seeding it on first
// access. The returned value is a copy.
func (s *Store) Get(team string, season int) models.Rating {
	key := seasonTeam{team: team, season: season}
	if r, ok := s.current[key]; ok {
		return r
	}
	r := s.seed(team, season)
	r.Team = team
	r.Season = season
	s.current[key] = r
	return r
}

// Has reports whether (team, season) has been seeded already.
func (s *Store) Has(team string, season int) bool {
	_, ok := s.current[seasonTeam{team: team, season: season}]
	return ok
}

// Set replaces the current rating for (team, season).
func (s *Store) Set(team string, season int, r models.Rating) {
	r.Team = team
	r.Season = season
	s.current[seasonTeam{team: team, season: season}] = r
}

// Teams returns the teams known to a season in sorted order, so iteration
// over them is deterministic across runs.
func (s *Store) Teams(season int) []string {
	teams := make([]string, 0)
	for key := range s.current {
		if key.season == season {
			teams = append(teams, key.team)
		}
	}
	sort.Strings(teams)
	return teams
}

// Snapshot records an immutable copy of every rating in the season as of the
// given week. Snapshots for the same (season, week) overwrite, so the last
// snapshot before the driver advances wins.
func (s *Store) Snapshot(season, week int) {
	snap := make(map[string]models.Rating)
	for key, r := range s.current {
		if key.season != season {
			continue
		}
		r.AsOfWeek = week
		snap[key.team] = r
	}
	s.snapshots[seasonWeek{season: season, week: week}] = snap
	if week > s.latestWeek[season] {
		s.latestWeek[season] = week
	}
}

// SnapshotAt returns the rating of a team as of the end of the given week.
// Requesting a week the replay has not reached yet is a look-ahead read and
// is fatal: a silently wrong backtest is worse than a crashed one.
func (s *Store) SnapshotAt(team string, season, week int) (models.Rating, error) {
	latest, ok := s.latestWeek[season]
	if !ok || week > latest {
		return models.Rating{}, fmt.Errorf("%w: requested %s season %d week %d, replay has reached week %d",
			models.ErrLookaheadRead, team, season, week, latest)
	}
	snap, ok := s.snapshots[seasonWeek{season: season, week: week}]
	if !ok {
		return models.Rating{}, fmt.Errorf("no snapshot for season %d week %d: %w", season, week, models.ErrNotFound)
	}
	r, ok := snap[team]
	if !ok {
		return models.Rating{}, fmt.Errorf("team %s not in season %d week %d snapshot: %w", team, season, week, models.ErrNotFound)
	}
	return r, nil
}

// FreezeSeason retains a final copy of the season's ratings. Frozen ratings
// feed the season transition rule and are never mutated again.
func (s *Store) FreezeSeason(season int) {
	final := make(map[string]models.Rating)
	for key, r := range s.current {
		if key.season == season {
			final[key.team] = r
		}
	}
	s.frozen[season] = final
}

// Frozen returns the retained end-of-season ratings for a season.
func (s *Store) Frozen(season int) (map[string]models.Rating, bool) {
	final, ok := s.frozen[season]
	return final, ok
}
