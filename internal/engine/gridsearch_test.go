package engine

import (
	"context"
	"testing"

	"github.com/wheels195/cfb-market-edge-sub005/internal/feed"
)

func TestExpandGridCartesianProduct(t *testing.T) {
	base := testParams()
	grid := GridConfig{
		KBase:   []float64{15, 20, 25},
		MinEdge: []float64{2, 3},
	}

	combos := expandGrid(base, grid)
	if len(combos) != 6 {
		t.Fatalf("combos = %d, want 6", len(combos))
	}
	for _, p := range combos {
		// Axes absent from the grid keep the base value.
		if p.Season.Carryover != base.Season.Carryover {
			t.Errorf("carryover = %v, want base %v", p.Season.Carryover, base.Season.Carryover)
		}
	}
	seen := make(map[string]bool)
	for _, p := range combos {
		seen[p.Hash()] = true
	}
	if len(seen) != 6 {
		t.Errorf("distinct configurations = %d, want 6", len(seen))
	}
}

func TestRunGridRanksByROI(t *testing.T) {
	games := fixtureGames()
	gameFeed, err := feed.NewMemoryFeed(games)
	if err != nil {
		t.Fatalf("NewMemoryFeed: %v", err)
	}
	lines := feed.NewMemoryLines(fixtureLines(games))

	grid := GridConfig{MinEdge: []float64{1, 2, 4}}
	results, err := RunGrid(context.Background(), testParams(), grid, gameFeed, lines, 2022, 2023, quietLogger())
	if err != nil {
		t.Fatalf("RunGrid: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3", len(results))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("cell %d failed: %v", i, res.Err)
		}
	}
	for i := 1; i < len(results); i++ {
		if results[i-1].Report.ROI < results[i].Report.ROI {
			t.Errorf("results not ranked by ROI: %v before %v", results[i-1].Report.ROI, results[i].Report.ROI)
		}
	}
}

func TestRunGridDeterministicOrdering(t *testing.T) {
	games := fixtureGames()
	gameFeed, err := feed.NewMemoryFeed(games)
	if err != nil {
		t.Fatalf("NewMemoryFeed: %v", err)
	}
	lines := feed.NewMemoryLines(fixtureLines(games))
	grid := GridConfig{KBase: []float64{15, 20}, MinEdge: []float64{1, 2}}

	first, err := RunGrid(context.Background(), testParams(), grid, gameFeed, lines, 2022, 2023, quietLogger())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := RunGrid(context.Background(), testParams(), grid, gameFeed, lines, 2022, 2023, quietLogger())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for i := range first {
		if first[i].Params.Hash() != second[i].Params.Hash() {
			t.Fatalf("cell %d ordering differs between runs", i)
		}
	}
}

func TestRunGridMinBetsSinksThinConfigurations(t *testing.T) {
	games := fixtureGames()
	gameFeed, err := feed.NewMemoryFeed(games)
	if err != nil {
		t.Fatalf("NewMemoryFeed: %v", err)
	}
	lines := feed.NewMemoryLines(fixtureLines(games))

	// A 9.5-point minimum edge grades almost nothing.
	grid := GridConfig{MinEdge: []float64{1, 9.5}, MinBets: 2}
	results, err := RunGrid(context.Background(), testParams(), grid, gameFeed, lines, 2022, 2023, quietLogger())
	if err != nil {
		t.Fatalf("RunGrid: %v", err)
	}

	last := results[len(results)-1]
	if last.Err == nil && last.Report.Bets >= grid.MinBets {
		// Both configurations cleared the bar; nothing to assert about sinking.
		t.Skip("fixture graded enough bets at every edge threshold")
	}
	if results[0].Err != nil || results[0].Report.Bets < grid.MinBets {
		t.Error("an eligible configuration must rank above ineligible ones")
	}
}
