// Package main provides the entry point for the data synchronization service.
package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/wheels195/cfb-market-edge-sub005/internal/config"
	"github.com/wheels195/cfb-market-edge-sub005/internal/database"
	"github.com/wheels195/cfb-market-edge-sub005/internal/datasource"
	"github.com/wheels195/cfb-market-edge-sub005/internal/health"
	"github.com/wheels195/cfb-market-edge-sub005/internal/logger"
	"github.com/wheels195/cfb-market-edge-sub005/internal/metrics"
	"github.com/wheels195/cfb-market-edge-sub005/internal/repository"
	"github.com/wheels195/cfb-market-edge-sub005/internal/scheduler"
	"github.com/wheels195/cfb-market-edge-sub005/internal/service"
)

// Build information, set via ldflags.
var Version = "dev"

var (
	configFile string
	log        *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
	ingestion  *service.IngestionService
	sourceName string

	backfillFirst int
	backfillLast  int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "config/config.yaml", "Path to configuration file")
	backfillCmd.Flags().IntVar(&backfillFirst, "first-season", 0, "First season to backfill")
	backfillCmd.Flags().IntVar(&backfillLast, "last-season", 0, "Last season to backfill")
	rootCmd.AddCommand(backfillCmd, serveCmd)
}

var rootCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize games and market lines from external data sources",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.Context())
	},
}

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Run a one-off games and lines sync for a season range",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()

		first, last := backfillFirst, backfillLast
		if first == 0 {
			first = cfg.Backtest.FirstSeason
		}
		if last == 0 {
			last = cfg.Backtest.LastSeason
		}

		log.WithFields(logrus.Fields{
			"source":       sourceName,
			"first_season": first,
			"last_season":  last,
		}).Info("Starting backfill")

		if err := ingestion.SyncSeasonRange(cmd.Context(), sourceName, first, last); err != nil {
			return fmt.Errorf("backfill failed: %w", err)
		}
		log.Info("Backfill complete")
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run scheduled syncs with health and metrics endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer db.Close()
		return serve(cmd.Context())
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		stdlog.Fatalf("Error: %v", err)
	}
}

func setup(ctx context.Context) error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log = logger.NewLogger(cfg.App.LogLevel)
	metrics.InitRegistry()

	db, err = database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	source := buildCFBDClient()
	sourceName = source.Name()
	ingestion = service.NewIngestionService(
		[]datasource.DataSource{source},
		repos.Team, repos.Game, repos.Line,
		log, cfg.Sync.BatchSize,
	)
	return nil
}

func buildCFBDClient() *datasource.CFBDClient {
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           time.Duration(cfg.CFBD.RequestTimeoutSeconds) * time.Second,
		MaxRetries:        cfg.CFBD.RetryAttempts,
		RetryWaitMin:      250 * time.Millisecond,
		RetryWaitMax:      10 * time.Second,
		RateLimit:         float64(cfg.CFBD.RateLimitPerSecond),
		CircuitBreakerMax: 5,
	}, stdlog.New(log.Writer(), "", 0))

	return datasource.NewCFBDClient(httpClient, cfg.CFBD.APIURL, cfg.CFBD.APIKey, stdlog.New(log.Writer(), "", 0))
}

func serve(ctx context.Context) error {
	if !cfg.Sync.Enabled {
		return fmt.Errorf("sync is disabled in configuration")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	healthServer := health.NewServer(health.Config{
		ServiceName: "cfb-edge-sync",
		Version:     Version,
		Port:        cfg.Sync.HealthPort,
		Logger:      log,
		DB:          db,
	})
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	// Syncs cover the current season plus a lookback window so late score
	// corrections keep flowing in.
	lastSeason := currentSeason()
	firstSeason := lastSeason - cfg.Sync.LookbackSeasons + 1

	sched := scheduler.NewScheduler(ingestion, sourceName, log)
	if err := sched.ScheduleGameSync(cfg.Sync.GamesSchedule, firstSeason, lastSeason); err != nil {
		return err
	}
	if err := sched.ScheduleLineSync(cfg.Sync.LinesSchedule, firstSeason, lastSeason); err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	log.WithFields(logrus.Fields{
		"first_season": firstSeason,
		"last_season":  lastSeason,
		"next_run":     sched.NextRun(),
	}).Info("Sync service started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	select {
	case sig := <-sigChan:
		log.WithField("signal", sig.String()).Info("Shutting down")
	case <-ctx.Done():
	}

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		log.WithError(err).Warn("Scheduler stop failed")
	}
	return healthServer.Shutdown()
}

// currentSeason maps the calendar date onto the college football season, which
// spans the new year: January bowl games belong to the prior season.
func currentSeason() int {
	now := time.Now().UTC()
	if now.Month() < time.June {
		return now.Year() - 1
	}
	return now.Year()
}
