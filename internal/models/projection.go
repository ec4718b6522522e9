package models

import (
	"time"

	"github.com/google/uuid"
)

// Projection is the model's market-comparable output for one game, together
// with the exact rating snapshot it was computed from so a reviewer can audit
// that no later information leaked in.
type Projection struct {
	GameID     uuid.UUID `db:"game_id" json:"game_id"`
	Season     int       `db:"season" json:"season"`
	Week       int       `db:"week" json:"week"`
	Spread     float64   `db:"spread" json:"spread"` // negative = home favored
	Total      float64   `db:"total" json:"total"`
	HomeRating Rating    `db:"-" json:"home_rating"`
	AwayRating Rating    `db:"-" json:"away_rating"`
	ComputedAt time.Time `db:"computed_at" json:"computed_at"`
}

// ProjectedMargin returns the implied home winning margin (positive = home
// wins by that many).
func (p *Projection) ProjectedMargin() float64 {
	return -p.Spread
}
