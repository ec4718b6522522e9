package rating

import (
	"fmt"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// SeasonParams parameterizes the between-season regression to mean.
type SeasonParams struct {
	LeagueAverage float64 // seed value for teams with no prior history
	Carryover     float64 // fraction of the deviation from average retained
}

// Validate checks the season transition parameters.
func (p SeasonParams) Validate() error {
	if p.Carryover <= 0 || p.Carryover >= 1 {
		return fmt.Errorf("carryover fraction must be in (0,1), got %v", p.Carryover)
	}
	if p.LeagueAverage <= 0 {
		return fmt.Errorf("league average must be positive, got %v", p.LeagueAverage)
	}
	return nil
}

// Carry regresses a team's final rating toward the league average and returns
// its rating entering nextSeason. Pure and order-independent across teams,
// unlike the per-game update rule which is strictly sequential.
func Carry(final models.Rating, nextSeason int, params SeasonParams) models.Rating {
	return models.Rating{
		Team:        final.Team,
		Season:      nextSeason,
		Value:       params.LeagueAverage + (final.Value-params.LeagueAverage)*params.Carryover,
		GamesPlayed: 0,
		AsOfWeek:    0,
	}
}

// Seed returns the league-average rating for a team with no recorded history.
func Seed(team string, season int, params SeasonParams) models.Rating {
	return models.Rating{
		Team:     team,
		Season:   season,
		Value:    params.LeagueAverage,
		AsOfWeek: 0,
	}
}
