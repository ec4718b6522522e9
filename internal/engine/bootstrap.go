package engine

import (
	"math"
	"math/rand"
	"sort"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

// BootstrapConfig configures bet-sequence resampling.
type BootstrapConfig struct {
	Iterations int
	Seed       int64
}

// BootstrapResult is the resampled distribution of replay performance. It
// answers "how much of this ROI is luck": a 5th percentile above zero is a
// much stronger signal than a lucky point estimate.
type BootstrapResult struct {
	Iterations  int     `json:"iterations"`
	MeanROI     float64 `json:"mean_roi"`
	StdROI      float64 `json:"std_roi"`
	ROIP5       float64 `json:"roi_p5"`
	ROIP95      float64 `json:"roi_p95"`
	MeanWinRate float64 `json:"mean_win_rate"`
}

// RunBootstrap resamples the graded-bet sequence with replacement and
// reports the ROI distribution. Deterministic for a fixed seed.
func RunBootstrap(bets []*models.BetRecord, cfg BootstrapConfig) BootstrapResult {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.Seed == 0 {
		cfg.Seed = 1
	}
	if len(bets) == 0 {
		return BootstrapResult{Iterations: cfg.Iterations}
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	rois := make([]float64, cfg.Iterations)
	winRates := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		profit := 0.0
		wins := 0
		decided := 0
		for range bets {
			bet := bets[rng.Intn(len(bets))]
			profit += bet.Profit
			if bet.Decided() {
				decided++
				if bet.Outcome == models.BetOutcomeWin {
					wins++
				}
			}
		}
		if decided > 0 {
			rois[i] = profit / float64(decided)
			winRates[i] = float64(wins) / float64(decided)
		}
	}

	mean, std := meanStd(rois)
	return BootstrapResult{
		Iterations:  cfg.Iterations,
		MeanROI:     mean,
		StdROI:      std,
		ROIP5:       percentile(rois, 0.05),
		ROIP95:      percentile(rois, 0.95),
		MeanWinRate: average(winRates),
	}
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)
	idx := int(math.Floor(p * float64(len(sorted)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
