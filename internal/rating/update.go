package rating

import (
	"fmt"
	"math"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// Elo curve constants. The logistic base and divisor are the standard Elo
// parameterization; the divisor is configurable because source variants of
// this model disagree on it.
const (
	eloLogBase      = 10.0
	DefaultEloScale = 400.0
)

// UpdateParams parameterizes the rating update rule. Every constant a
// backtest variant might disagree on lives here, not in the code.
type UpdateParams struct {
	KBase        float64 // base learning rate
	KMinFraction float64 // floor for the tapered K, as a fraction of KBase
	TaperGames   int     // games-played count at which K reaches its floor
	HomeFieldElo float64 // home advantage expressed in rating points
	EloScale     float64 // logistic divisor, DefaultEloScale if zero
	MOVFactor    float64 // multiplier on ln(margin+1)
	DeltaCap     float64 // absolute cap on a single update, 0 disables
}

// UpdateRule applies one game's result to the two pre-game ratings. It is a
// pure function of its inputs; the store is never touched here.
type UpdateRule struct {
	params UpdateParams
}

// NewUpdateRule validates parameters and returns an update rule.
func NewUpdateRule(params UpdateParams) (*UpdateRule, error) {
	if params.KBase <= 0 {
		return nil, fmt.Errorf("k base must be positive, got %v", params.KBase)
	}
	if params.KMinFraction < 0 || params.KMinFraction > 1 {
		return nil, fmt.Errorf("k min fraction must be in [0,1], got %v", params.KMinFraction)
	}
	if params.TaperGames < 0 {
		return nil, fmt.Errorf("taper games cannot be negative, got %d", params.TaperGames)
	}
	if params.MOVFactor < 0 {
		return nil, fmt.Errorf("margin-of-victory factor cannot be negative, got %v", params.MOVFactor)
	}
	if params.DeltaCap < 0 {
		return nil, fmt.Errorf("delta cap cannot be negative, got %v", params.DeltaCap)
	}
	if params.EloScale == 0 {
		params.EloScale = DefaultEloScale
	}
	if params.EloScale < 0 {
		return nil, fmt.Errorf("elo scale must be positive, got %v", params.EloScale)
	}
	return &UpdateRule{params: params}, nil
}

// Params returns the rule's parameter set.
func (r *UpdateRule) Params() UpdateParams {
	return r.params
}

// ExpectedHomeWin returns the logistic expected home win probability given
// the two rating values. The home-field term is dropped at neutral sites.
func (r *UpdateRule) ExpectedHomeWin(homeValue, awayValue float64, neutralSite bool) float64 {
	hfa := r.params.HomeFieldElo
	if neutralSite {
		hfa = 0
	}
	exponent := (awayValue - homeValue - hfa) / r.params.EloScale
	return 1.0 / (1.0 + math.Pow(eloLogBase, exponent))
}

// Apply returns the post-game ratings for home and away. The two deltas are
// equal and opposite; a tie's ln(1) = 0 multiplier moves nothing, which is
// the intended treatment of ties, not an oversight.
func (r *UpdateRule) Apply(home, away models.Rating, homeScore, awayScore int, neutralSite bool) (models.Rating, models.Rating) {
	expected := r.ExpectedHomeWin(home.Value, away.Value, neutralSite)
	actual := actualOutcome(homeScore, awayScore)

	margin := homeScore - awayScore
	if margin < 0 {
		margin = -margin
	}
	multiplier := marginMultiplier(margin, r.params.MOVFactor)

	k := r.effectiveK(home.GamesPlayed, away.GamesPlayed)
	delta := k * multiplier * (actual - expected)
	if r.params.DeltaCap > 0 {
		delta = math.Max(-r.params.DeltaCap, math.Min(r.params.DeltaCap, delta))
	}

	home.Value += delta
	home.GamesPlayed++
	away.Value -= delta
	away.GamesPlayed++
	return home, away
}

// effectiveK tapers the learning rate linearly as the pair of teams
// accumulates games, floored at KMinFraction of the base. The mean of the two
// games-played counts is used so one veteran team does not pin a newcomer's
// early-season swings.
func (r *UpdateRule) effectiveK(homeGames, awayGames int) float64 {
	if r.params.TaperGames == 0 {
		return r.params.KBase
	}
	mean := float64(homeGames+awayGames) / 2.0
	fraction := 1.0 - mean/float64(r.params.TaperGames)
	if fraction < r.params.KMinFraction {
		fraction = r.params.KMinFraction
	}
	return r.params.KBase * fraction
}

// marginMultiplier is concave in the score margin so blowouts count for more
// without margin dominating linearly. Well-defined at margin 0.
func marginMultiplier(margin int, factor float64) float64 {
	return math.Log(float64(margin)+1.0) * factor
}

func actualOutcome(homeScore, awayScore int) float64 {
	switch {
	case homeScore > awayScore:
		return 1.0
	case homeScore < awayScore:
		return 0.0
	default:
		return 0.5
	}
}
