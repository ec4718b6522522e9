package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/wheels195/cfb-market-edge-sub005/internal/feed"
)

// GridConfig enumerates the parameter values to sweep. Empty axes fall back
// to the base parameter's single value.
type GridConfig struct {
	KBase           []float64
	HomeFieldElo    []float64
	HomeFieldPoints []float64
	RatingScale     []float64
	Carryover       []float64
	MinEdge         []float64
	MinBets         int // configurations with fewer graded bets are unranked
}

// GridResult pairs one parameter set with its replay report.
type GridResult struct {
	Params Params
	Report Report
	Err    error
}

// RunGrid replays every parameter combination over the same feed. Each run
// owns its driver and store, so the runs share no mutable state and execute
// concurrently; results come back ranked by ROI among configurations that
// cleared the minimum-bet threshold.
func RunGrid(ctx context.Context, base Params, grid GridConfig, gameFeed feed.GameFeed, lines feed.MarketLineProvider, firstSeason, lastSeason int, logger *logrus.Logger) ([]GridResult, error) {
	combos := expandGrid(base, grid)
	if len(combos) == 0 {
		return nil, fmt.Errorf("grid expands to zero configurations")
	}
	if logger == nil {
		logger = logrus.New()
	}
	logger.WithFields(logrus.Fields{
		"configurations": len(combos),
		"first_season":   firstSeason,
		"last_season":    lastSeason,
	}).Info("starting grid search")

	results := make([]GridResult, len(combos))
	var wg sync.WaitGroup
	for i, params := range combos {
		wg.Add(1)
		go func(i int, params Params) {
			defer wg.Done()
			results[i] = runGridCell(ctx, params, gameFeed, lines, firstSeason, lastSeason, logger)
		}(i, params)
	}
	wg.Wait()

	rankResults(results, grid.MinBets)
	return results, nil
}

func runGridCell(ctx context.Context, params Params, gameFeed feed.GameFeed, lines feed.MarketLineProvider, firstSeason, lastSeason int, logger *logrus.Logger) GridResult {
	eng, err := New(params, gameFeed, lines, logger)
	if err != nil {
		return GridResult{Params: params, Err: err}
	}
	result, err := eng.Replay(ctx, firstSeason, lastSeason)
	if err != nil {
		return GridResult{Params: params, Err: err}
	}
	return GridResult{Params: params, Report: Summarize(result.Records)}
}

// rankResults sorts by ROI descending; configurations with errors or too few
// bets sink to the bottom. Ties break on the parameter hash so ordering is
// reproducible.
func rankResults(results []GridResult, minBets int) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		iOK := ri.Err == nil && ri.Report.Bets >= minBets
		jOK := rj.Err == nil && rj.Report.Bets >= minBets
		if iOK != jOK {
			return iOK
		}
		if ri.Report.ROI != rj.Report.ROI {
			return ri.Report.ROI > rj.Report.ROI
		}
		return ri.Params.Hash() < rj.Params.Hash()
	})
}

func expandGrid(base Params, grid GridConfig) []Params {
	kBases := orDefault(grid.KBase, base.Update.KBase)
	hfaElos := orDefault(grid.HomeFieldElo, base.Update.HomeFieldElo)
	hfaPoints := orDefault(grid.HomeFieldPoints, base.Projection.HomeFieldPoints)
	scales := orDefault(grid.RatingScale, base.Projection.RatingScale)
	carryovers := orDefault(grid.Carryover, base.Season.Carryover)
	minEdges := orDefault(grid.MinEdge, base.Grading.MinEdge)

	combos := make([]Params, 0, len(kBases)*len(hfaElos)*len(hfaPoints)*len(scales)*len(carryovers)*len(minEdges))
	for _, k := range kBases {
		for _, hfaElo := range hfaElos {
			for _, hfaPts := range hfaPoints {
				for _, scale := range scales {
					for _, carry := range carryovers {
						for _, minEdge := range minEdges {
							params := base
							params.Update.KBase = k
							params.Update.HomeFieldElo = hfaElo
							params.Projection.HomeFieldPoints = hfaPts
							params.Projection.RatingScale = scale
							params.Season.Carryover = carry
							params.Grading.MinEdge = minEdge
							combos = append(combos, params)
						}
					}
				}
			}
		}
	}
	return combos
}

func orDefault(values []float64, fallback float64) []float64 {
	if len(values) == 0 {
		return []float64{fallback}
	}
	return values
}
