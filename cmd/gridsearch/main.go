// Package main provides the entry point for the parameter grid search CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wheels195/cfb-market-edge-sub005/internal/config"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/engine"
	"github.com/wheels195/cfb-market-edge-sub005/internal/feed"
	"github.com/wheels195/cfb-market-edge-sub005/internal/logger"
	"github.com/wheels195/cfb-market-edge-sub005/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub005/internal/repository"
)

var (
	configFile string
	log        *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories

	kBase           []float64
	homeFieldElo    []float64
	homeFieldPoints []float64
	ratingScale     []float64
	carryover       []float64
	minEdge         []float64
	minBets         int
	topN            int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.Flags().Float64SliceVar(&kBase, "k-base", nil, "K-factor base values to sweep")
	rootCmd.Flags().Float64SliceVar(&homeFieldElo, "hfa-elo", nil, "Home-field Elo values to sweep")
	rootCmd.Flags().Float64SliceVar(&homeFieldPoints, "hfa-points", nil, "Home-field point values to sweep")
	rootCmd.Flags().Float64SliceVar(&ratingScale, "rating-scale", nil, "Rating-to-points scale values to sweep")
	rootCmd.Flags().Float64SliceVar(&carryover, "carryover", nil, "Season carryover fractions to sweep")
	rootCmd.Flags().Float64SliceVar(&minEdge, "min-edge", nil, "Minimum edge thresholds to sweep")
	rootCmd.Flags().IntVar(&minBets, "min-bets", 50, "Minimum graded bets for a configuration to be ranked")
	rootCmd.Flags().IntVar(&topN, "top", 10, "Number of top configurations to print")
}

var rootCmd = &cobra.Command{
	Use:   "gridsearch",
	Short: "Sweep model parameters over the historical replay",
	Long:  `Replays every combination of the given parameter values over the same game history and ranks configurations by ROI among those with enough graded bets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		log = logger.NewLogger(cfg.App.LogLevel)
		metrics.InitRegistry()

		db, err = database.NewDB(cmd.Context(), &cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		repos, err = repository.NewRepositories(db)
		if err != nil {
			return fmt.Errorf("failed to initialize repositories: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return runGridSearch(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runGridSearch(ctx context.Context) error {
	params := cfg.EngineParams()
	gameFeed := feed.NewRepositoryFeed(repos.Game)
	lines := feed.NewCachedLineProvider(repos.Line, params.Sportsbook,
		time.Duration(cfg.CFBD.CacheTTLSeconds)*time.Second)

	grid := engine.GridConfig{
		KBase:           kBase,
		HomeFieldElo:    homeFieldElo,
		HomeFieldPoints: homeFieldPoints,
		RatingScale:     ratingScale,
		Carryover:       carryover,
		MinEdge:         minEdge,
		MinBets:         minBets,
	}

	start := time.Now()
	results, err := engine.RunGrid(ctx, params, grid, gameFeed, lines,
		cfg.Backtest.FirstSeason, cfg.Backtest.LastSeason, log)
	if err != nil {
		return fmt.Errorf("grid search failed: %w", err)
	}

	log.WithFields(logrus.Fields{
		"configurations": len(results),
		"duration":       time.Since(start),
	}).Info("Grid search complete")

	printResults(results)
	return nil
}

func printResults(results []engine.GridResult) {
	fmt.Println("\n=== Grid Search Results ===")
	limit := topN
	if limit > len(results) {
		limit = len(results)
	}
	for i := 0; i < limit; i++ {
		r := results[i]
		if r.Err != nil {
			fmt.Printf("%2d. replay failed: %v\n", i+1, r.Err)
			continue
		}
		fmt.Printf("%2d. roi=%+.4f win=%.3f bets=%d k=%.1f hfaElo=%.0f hfaPts=%.1f scale=%.1f carry=%.2f minEdge=%.1f\n",
			i+1,
			r.Report.ROI,
			r.Report.WinRate,
			r.Report.Bets,
			r.Params.Update.KBase,
			r.Params.Update.HomeFieldElo,
			r.Params.Projection.HomeFieldPoints,
			r.Params.Projection.RatingScale,
			r.Params.Season.Carryover,
			r.Params.Grading.MinEdge,
		)
	}
}
