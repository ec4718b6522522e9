package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/wheels195/cfb-market-edge-sub005/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// pushTolerance absorbs floating-point noise when a cover lands exactly on
// the number.
const pushTolerance = 1e-9

// GradingParams prices and filters hypothetical bets.
type GradingParams struct {
	MinEdge  float64 `json:"min_edge"`  // below this the model has no signal
	MaxEdge  float64 `json:"max_edge"`  // above this the line is suspect, flag instead of bet
	VigPrice float64 `json:"vig_price"` // decimal vig denominator; 1.1 = standard -110
}

// Validate checks the grading parameters.
func (p GradingParams) Validate() error {
	if p.MinEdge < 0 {
		return fmt.Errorf("min edge cannot be negative, got %v", p.MinEdge)
	}
	if p.MaxEdge <= p.MinEdge {
		return fmt.Errorf("max edge %v must exceed min edge %v", p.MaxEdge, p.MinEdge)
	}
	if p.VigPrice <= 1 {
		return fmt.Errorf("vig price must exceed 1, got %v", p.VigPrice)
	}
	return nil
}

// Grader turns a projection, a market line, and a final score into a graded
// hypothetical bet. Pure apart from logging and counters.
type Grader struct {
	params GradingParams
	logger *logrus.Logger
}

// NewGrader validates parameters and returns a grader.
func NewGrader(params GradingParams, logger *logrus.Logger) (*Grader, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Grader{params: params, logger: logger}, nil
}

// Grade returns the graded bet for a completed game, nil when the edge is
// below the signal threshold, and (nil, flagged=true) when the edge is so
// large it reads as a data-quality problem rather than a free win.
func (g *Grader) Grade(proj *models.Projection, marketSpread float64, closingSpread *float64, game *models.Game) (bet *models.BetRecord, flagged bool) {
	edge := proj.Spread - marketSpread
	absEdge := math.Abs(edge)

	if absEdge < g.params.MinEdge {
		return nil, false
	}
	if absEdge > g.params.MaxEdge {
		g.logger.WithFields(logrus.Fields{
			"game":   game.ID,
			"model":  proj.Spread,
			"market": marketSpread,
			"edge":   edge,
		}).Warn("edge exceeds acceptance band, flagging instead of betting")
		metrics.RecordFlaggedEdge()
		return nil, true
	}

	// Negative edge: the model has home more favored than the market does.
	side := models.BetSideAway
	if edge < 0 {
		side = models.BetSideHome
	}

	actualMargin := float64(game.Margin())
	var cover float64
	if side == models.BetSideHome {
		cover = actualMargin + marketSpread
	} else {
		cover = -actualMargin - marketSpread
	}

	outcome, profit := g.settle(cover)
	record := &models.BetRecord{
		ID:            uuid.NewSHA1(uuid.NameSpaceOID, []byte(game.ID.String()+":"+string(side))),
		GameID:        game.ID,
		Season:        game.Season,
		Week:          game.Week,
		Side:          side,
		ModelSpread:   proj.Spread,
		MarketSpread:  marketSpread,
		ClosingSpread: closingSpread,
		Edge:          edge,
		Outcome:       outcome,
		Profit:        profit,
		GradedAt:      game.StartTime,
	}
	metrics.RecordGradedBet(string(side), string(outcome))
	return record, false
}

func (g *Grader) settle(cover float64) (models.BetOutcome, float64) {
	switch {
	case math.Abs(cover) <= pushTolerance:
		return models.BetOutcomePush, 0
	case cover > 0:
		return models.BetOutcomeWin, 1.0 / g.params.VigPrice
	default:
		return models.BetOutcomeLoss, -1.0
	}
}
