// Package main provides the entry point for the walk-forward backtest CLI.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wheels195/cfb-market-edge-sub005/internal/config"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/engine"
	"github.com/wheels195/cfb-market-edge-sub005/internal/feed"
	"github.com/wheels195/cfb-market-edge-sub005/internal/logger"
	"github.com/wheels195/cfb-market-edge-sub005/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub005/internal/repository"
)

func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to config file")
		firstSeason = flag.Int("first-season", 0, "Override first season of the replay window")
		lastSeason  = flag.Int("last-season", 0, "Override last season of the replay window")
		output      = flag.String("output", "", "Override JSON output path")
		csvPath     = flag.String("csv", "", "Also export summary metrics as CSV")
		save        = flag.Bool("save", false, "Persist graded bets and final ratings to the database")
		noBootstrap = flag.Bool("no-bootstrap", false, "Skip bootstrap resampling")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := loadConfigWithSecrets(ctx, *configPath)
	log := logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	first, last := cfg.Backtest.FirstSeason, cfg.Backtest.LastSeason
	if *firstSeason != 0 {
		first = *firstSeason
	}
	if *lastSeason != 0 {
		last = *lastSeason
	}
	outputPath := cfg.Backtest.OutputPath
	if *output != "" {
		outputPath = *output
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	params := cfg.EngineParams()
	gameFeed := feed.NewRepositoryFeed(repos.Game)
	lines := feed.NewCachedLineProvider(repos.Line, params.Sportsbook,
		time.Duration(cfg.CFBD.CacheTTLSeconds)*time.Second)

	eng, err := engine.New(params, gameFeed, lines, log)
	if err != nil {
		log.Fatalf("Failed to create engine: %v", err)
	}

	log.WithFields(logrus.Fields{
		"first_season": first,
		"last_season":  last,
		"bet_timing":   params.BetTiming,
		"sportsbook":   params.Sportsbook,
	}).Info("Starting backtest")

	start := time.Now()
	result, err := eng.Replay(ctx, first, last)
	if err != nil {
		log.Fatalf("Replay failed: %v", err)
	}
	metrics.RecordReplayDuration(time.Since(start).Seconds())

	report := engine.Summarize(result.Records)
	metrics.UpdateReplayPerformance(report.ROI, report.WinRate)
	metrics.UpdateTrackedTeams(len(result.FinalRatings(last)))
	auditReplay(logger.NewAuditLogger(log), result, report)

	var bootstrap *engine.BootstrapResult
	if !*noBootstrap {
		b := engine.RunBootstrap(result.Bets(), engine.BootstrapConfig{
			Iterations: cfg.Backtest.BootstrapIterations,
			Seed:       cfg.Backtest.BootstrapSeed,
		})
		bootstrap = &b
	}

	fmt.Println(engine.GenerateConsoleReport(report, bootstrap))

	if err := engine.ExportJSON(report, bootstrap, outputPath); err != nil {
		log.Fatalf("Failed to export JSON: %v", err)
	}
	log.WithField("path", outputPath).Info("Report exported")

	if *csvPath != "" {
		if err := engine.ExportCSV(report, *csvPath); err != nil {
			log.Fatalf("Failed to export CSV: %v", err)
		}
	}

	if *save {
		persistRun(ctx, repos, result, last, log)
	}
}

func loadConfigWithSecrets(ctx context.Context, path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			fmt.Fprintln(os.Stderr, "AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
			os.Exit(1)
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load secrets: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// auditReplay emits the structured trail that lets a run be reconstructed
// from logs alone: one entry per graded bet and flagged edge, plus the
// headline result.
func auditReplay(audit *logger.AuditLogger, result *engine.Result, report engine.Report) {
	for _, rec := range result.Records {
		if rec.Flagged && rec.Line != nil {
			if spread, ok := rec.Line.SpreadAt(result.Params.BetTiming); ok {
				audit.LogFlaggedEdge(rec.Game.ID.String(), rec.Game.Season, rec.Game.Week,
					rec.Projection.Spread, spread, rec.Projection.Spread-spread)
			}
		}
		if rec.Bet == nil {
			continue
		}
		bet := rec.Bet
		audit.LogBetGraded(bet.ID.String(), bet.GameID.String(), bet.Season, bet.Week,
			string(bet.Side), bet.ModelSpread, bet.MarketSpread, bet.Edge,
			string(bet.Outcome), bet.Profit, bet.GradedAt)
	}
	audit.LogReplayFinished(result.RunID.String(), report.Bets, report.WinRate, report.ROI)
}

func persistRun(ctx context.Context, repos *repository.Repositories, result *engine.Result, lastSeason int, log *logrus.Logger) {
	bets := result.Bets()
	if err := repos.Bet.SaveRun(ctx, result.RunID, result.Params.Hash(), bets); err != nil {
		log.Fatalf("Failed to persist graded bets: %v", err)
	}

	ratings := result.FinalRatings(lastSeason)
	if err := repos.Snapshot.SaveSnapshot(ctx, result.RunID, ratings); err != nil {
		log.Fatalf("Failed to persist rating snapshot: %v", err)
	}

	log.WithFields(logrus.Fields{
		"run_id":  result.RunID,
		"bets":    len(bets),
		"ratings": len(ratings),
	}).Info("Run persisted")
}
