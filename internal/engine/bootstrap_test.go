package engine

import (
	"math"
	"testing"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

func TestRunBootstrapDeterministicForSeed(t *testing.T) {
	win := 1.0 / 1.1
	bets := []*models.BetRecord{
		betWith(models.BetOutcomeWin, win, nil),
		betWith(models.BetOutcomeLoss, -1, nil),
		betWith(models.BetOutcomeWin, win, nil),
		betWith(models.BetOutcomePush, 0, nil),
	}

	cfg := BootstrapConfig{Iterations: 200, Seed: 42}
	first := RunBootstrap(bets, cfg)
	second := RunBootstrap(bets, cfg)
	if first != second {
		t.Errorf("same seed resampled differently: %+v vs %+v", first, second)
	}

	other := RunBootstrap(bets, BootstrapConfig{Iterations: 200, Seed: 43})
	if first.MeanROI == other.MeanROI && first.StdROI == other.StdROI {
		t.Error("different seeds produced identical distributions")
	}
}

func TestRunBootstrapAllWins(t *testing.T) {
	win := 1.0 / 1.1
	bets := []*models.BetRecord{
		betWith(models.BetOutcomeWin, win, nil),
		betWith(models.BetOutcomeWin, win, nil),
		betWith(models.BetOutcomeWin, win, nil),
	}

	result := RunBootstrap(bets, BootstrapConfig{Iterations: 50, Seed: 1})
	if math.Abs(result.MeanROI-win) > 1e-9 {
		t.Errorf("mean roi = %v, want %v", result.MeanROI, win)
	}
	if result.StdROI != 0 {
		t.Errorf("std roi = %v, want 0 for identical bets", result.StdROI)
	}
	if result.MeanWinRate != 1 {
		t.Errorf("mean win rate = %v, want 1", result.MeanWinRate)
	}
}

func TestRunBootstrapEmptyBets(t *testing.T) {
	result := RunBootstrap(nil, BootstrapConfig{})
	if result.Iterations != 1000 {
		t.Errorf("iterations = %d, want the 1000 default", result.Iterations)
	}
	if result.MeanROI != 0 || result.StdROI != 0 {
		t.Errorf("empty bets must yield a zero distribution, got %+v", result)
	}
}

func TestPercentileBounds(t *testing.T) {
	values := []float64{5, 1, 3, 2, 4}
	if got := percentile(values, 0); got != 1 {
		t.Errorf("p0 = %v, want 1", got)
	}
	if got := percentile(values, 1); got != 5 {
		t.Errorf("p100 = %v, want 5", got)
	}
	if got := percentile(values, 0.5); got != 3 {
		t.Errorf("p50 = %v, want 3", got)
	}
}
