package engine

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
	"github.com/wheels195/cfb-market-edge-sub005/internal/projection"
	"github.com/wheels195/cfb-market-edge-sub005/internal/rating"
)

// Params is the complete parameter set for one replay run. Every named
// constant of the model lives here; a "variant" of the backtest is a Params
// value, never a fork of the engine.
type Params struct {
	Update     rating.UpdateParams   `json:"update"`
	Season     rating.SeasonParams   `json:"season"`
	Projection projection.Params     `json:"projection"`
	Grading    GradingParams         `json:"grading"`
	BetTiming  models.LineTiming     `json:"bet_timing"`
	Sportsbook string                `json:"sportsbook"`
}

// Validate checks the full parameter set.
func (p Params) Validate() error {
	if _, err := rating.NewUpdateRule(p.Update); err != nil {
		return fmt.Errorf("update params: %w", err)
	}
	if err := p.Season.Validate(); err != nil {
		return fmt.Errorf("season params: %w", err)
	}
	if _, err := projection.New(p.Projection); err != nil {
		return fmt.Errorf("projection params: %w", err)
	}
	if err := p.Grading.Validate(); err != nil {
		return fmt.Errorf("grading params: %w", err)
	}
	if p.BetTiming != models.LineTimingOpening && p.BetTiming != models.LineTimingClosing {
		return fmt.Errorf("bet timing must be %q or %q, got %q",
			models.LineTimingOpening, models.LineTimingClosing, p.BetTiming)
	}
	return nil
}

// Hash returns a stable digest of the parameter set.
func (p Params) Hash() string {
	data, _ := json.Marshal(p)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%x", sum)
}

// RunID derives a deterministic run identifier from the parameters, so
// re-running an identical configuration produces the identical ID.
func (p Params) RunID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(p.Hash()))
}
