package models

import (
	"time"

	"github.com/google/uuid"
)

// LineTiming selects which market observation a replay bets against.
type LineTiming string

const (
	LineTimingOpening LineTiming = "opening"
	LineTimingClosing LineTiming = "closing"
)

// MarketLine holds a sportsbook's spread and total for one game, with the
// opening value and the last value observed before kickoff. All spreads are
// home-perspective: negative means the home team is favored.
type MarketLine struct {
	GameID         uuid.UUID `db:"game_id" json:"game_id" validate:"required,uuid4"`
	Sportsbook     string    `db:"sportsbook" json:"sportsbook" validate:"required"`
	OpeningSpread  *float64  `db:"opening_spread" json:"opening_spread"`
	ClosingSpread  *float64  `db:"closing_spread" json:"closing_spread"`
	OpeningTotal   *float64  `db:"opening_total" json:"opening_total"`
	ClosingTotal   *float64  `db:"closing_total" json:"closing_total"`
	FirstObserved  time.Time `db:"first_observed" json:"first_observed"`
	LastObserved   time.Time `db:"last_observed" json:"last_observed"`
}

// SpreadAt returns the spread for the requested timing, or false when the
// book never posted one.
func (l *MarketLine) SpreadAt(timing LineTiming) (float64, bool) {
	var v *float64
	switch timing {
	case LineTimingOpening:
		v = l.OpeningSpread
	default:
		v = l.ClosingSpread
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// TotalAt returns the total for the requested timing, or false when absent.
func (l *MarketLine) TotalAt(timing LineTiming) (float64, bool) {
	var v *float64
	switch timing {
	case LineTimingOpening:
		v = l.OpeningTotal
	default:
		v = l.ClosingTotal
	}
	if v == nil {
		return 0, false
	}
	return *v, true
}

// HasSpreadMove reports whether both spread observations exist and differ.
func (l *MarketLine) HasSpreadMove() bool {
	return l.OpeningSpread != nil && l.ClosingSpread != nil && *l.OpeningSpread != *l.ClosingSpread
}
