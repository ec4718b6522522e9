// Package projection turns a pair of pre-game ratings into market-comparable
// numbers: a point spread (negative = home favored) and a total.
package projection

import (
	"fmt"
	"math"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// Params holds every constant the projection depends on. Source variants of
// this model never converged on one set (home advantages of 2.5-3.5, rating
// divisors of 25 and 28 all appear), so all of them are configuration.
type Params struct {
	RatingScale         float64 // Elo points per spread point
	HomeFieldPoints     float64 // home advantage in spread points
	RestPointsPerDay    float64 // spread points per day of rest differential
	RestAdjCap          float64 // absolute bound on the rest adjustment
	WindPointsPerMPH    float64 // total points shaved per mph of wind
	WeatherAdjCap       float64 // absolute bound on the weather adjustment
	LeagueAverageRating float64
	LeagueAverageTotal  float64 // league-average combined score
	TotalScale          float64 // Elo points per total point
}

// Context carries the game-level inputs that adjust a projection.
type Context struct {
	NeutralSite      bool
	Indoor           bool
	RestDifferential int // home rest days minus away rest days
	WindMPH          float64
}

// Function projects spreads and totals from ratings. Pure; owns no state.
type Function struct {
	params Params
}

// New validates the parameters and returns a projection function.
func New(params Params) (*Function, error) {
	if params.RatingScale <= 0 {
		return nil, fmt.Errorf("rating scale must be positive, got %v", params.RatingScale)
	}
	if params.TotalScale <= 0 {
		return nil, fmt.Errorf("total scale must be positive, got %v", params.TotalScale)
	}
	if params.RestAdjCap < 0 || params.WeatherAdjCap < 0 {
		return nil, fmt.Errorf("adjustment caps cannot be negative")
	}
	if params.LeagueAverageTotal <= 0 {
		return nil, fmt.Errorf("league average total must be positive, got %v", params.LeagueAverageTotal)
	}
	return &Function{params: params}, nil
}

// Params returns the projection's parameter set.
func (f *Function) Params() Params {
	return f.params
}

// Spread projects the point spread for home vs away. Adjustments are
// independent additive terms, each bounded so none can dominate the rating
// signal.
func (f *Function) Spread(home, away models.Rating, ctx Context) float64 {
	spread := -((home.Value - away.Value) / f.params.RatingScale)
	if !ctx.NeutralSite {
		spread -= f.params.HomeFieldPoints
	}
	spread -= f.restAdjustment(ctx.RestDifferential)
	return spread
}

// Total projects combined points. Indoor venues always get a zero weather
// adjustment.
func (f *Function) Total(home, away models.Rating, ctx Context) float64 {
	avg := f.params.LeagueAverageRating
	quality := (home.Value - avg) + (away.Value - avg)
	total := f.params.LeagueAverageTotal + quality/f.params.TotalScale
	total += f.weatherAdjustment(ctx)
	return total
}

// restAdjustment converts the rest-day differential into spread points in the
// home team's favor, clamped to RestAdjCap.
func (f *Function) restAdjustment(restDiff int) float64 {
	adj := float64(restDiff) * f.params.RestPointsPerDay
	return clamp(adj, f.params.RestAdjCap)
}

// weatherAdjustment shaves points off the total as wind picks up, clamped to
// WeatherAdjCap. Zero indoors.
func (f *Function) weatherAdjustment(ctx Context) float64 {
	if ctx.Indoor {
		return 0
	}
	adj := -ctx.WindMPH * f.params.WindPointsPerMPH
	return clamp(adj, f.params.WeatherAdjCap)
}

func clamp(v, bound float64) float64 {
	if bound == 0 {
		return v
	}
	return math.Max(-bound, math.Min(bound, v))
}
