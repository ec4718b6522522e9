package models

import (
	"time"

	"github.com/google/uuid"
)

// Game represents a single scheduled or completed game.
// Final scores are nil until the game has been played.
type Game struct {
	ID          uuid.UUID  `db:"id" json:"id" validate:"required,uuid4"`
	ExternalID  int64      `db:"external_id" json:"external_id"`
	Season      int        `db:"season" json:"season" validate:"required,gt=1900"`
	Week        int        `db:"week" json:"week" validate:"gte=0"`
	StartTime   time.Time  `db:"start_time" json:"start_time" validate:"required"`
	HomeTeam    string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam    string     `db:"away_team" json:"away_team" validate:"required"`
	HomePoints  *int       `db:"home_points" json:"home_points"`
	AwayPoints  *int       `db:"away_points" json:"away_points"`
	NeutralSite bool       `db:"neutral_site" json:"neutral_site"`
	Indoor      bool       `db:"indoor" json:"indoor"`
	HomeRest    int        `db:"home_rest_days" json:"home_rest_days"`
	AwayRest    int        `db:"away_rest_days" json:"away_rest_days"`
	WindMPH     float64    `db:"wind_mph" json:"wind_mph"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Completed reports whether a final score is available.
func (g *Game) Completed() bool {
	return g.HomePoints != nil && g.AwayPoints != nil
}

// Margin returns homePoints - awayPoints. Only meaningful for completed games.
func (g *Game) Margin() int {
	if !g.Completed() {
		return 0
	}
	return *g.HomePoints - *g.AwayPoints
}

// TotalPoints returns the combined final score. Only meaningful for completed games.
func (g *Game) TotalPoints() int {
	if !g.Completed() {
		return 0
	}
	return *g.HomePoints + *g.AwayPoints
}

// RestDifferential returns home rest days minus away rest days.
func (g *Game) RestDifferential() int {
	return g.HomeRest - g.AwayRest
}
