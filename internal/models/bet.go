package models

import (
	"time"

	"github.com/google/uuid"
)

// BetSide is the side of the spread a hypothetical bet takes.
type BetSide string

const (
	BetSideHome BetSide = "HOME"
	BetSideAway BetSide = "AWAY"
)

// BetOutcome is the graded result of a hypothetical bet.
type BetOutcome string

const (
	BetOutcomeWin  BetOutcome = "win"
	BetOutcomeLoss BetOutcome = "loss"
	BetOutcomePush BetOutcome = "push"
)

// BetRecord is a graded hypothetical spread bet: projection vs market line vs
// final score, priced at the configured vigorish.
type BetRecord struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	GameID        uuid.UUID  `db:"game_id" json:"game_id"`
	Season        int        `db:"season" json:"season"`
	Week          int        `db:"week" json:"week"`
	Side          BetSide    `db:"side" json:"side"`
	ModelSpread   float64    `db:"model_spread" json:"model_spread"`
	MarketSpread  float64    `db:"market_spread" json:"market_spread"`
	ClosingSpread *float64   `db:"closing_spread" json:"closing_spread"`
	Edge          float64    `db:"edge" json:"edge"`
	Outcome       BetOutcome `db:"outcome" json:"outcome"`
	Profit        float64    `db:"profit" json:"profit"` // units
	GradedAt      time.Time  `db:"graded_at" json:"graded_at"`
}

// Decided reports whether the bet counts toward the win-rate denominator.
func (b *BetRecord) Decided() bool {
	return b.Outcome != BetOutcomePush
}

// BeatClosing reports whether the line moved from bet time to close in the
// direction the model predicted (closing-line value). Returns false when no
// closing observation exists or the line never moved.
func (b *BetRecord) BeatClosing() bool {
	if b.ClosingSpread == nil {
		return false
	}
	if b.Side == BetSideHome {
		return *b.ClosingSpread < b.MarketSpread
	}
	return *b.ClosingSpread > b.MarketSpread
}
