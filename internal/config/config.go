// Package config provides configuration management for the CFB market edge engine.
package config

import (
	"fmt"

	"github.com/wheels195/cfb-market-edge-sub005/internal/dbconfig"
	"github.com/wheels195/cfb-market-edge-sub005/internal/engine"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
	"github.com/wheels195/cfb-market-edge-sub005/internal/projection"
	"github.com/wheels195/cfb-market-edge-sub005/internal/rating"
)

// Config represents the complete application configuration
type Config struct {
	App      AppConfig      `mapstructure:"app" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	CFBD     CFBDConfig     `mapstructure:"cfbd" validate:"required"`
	Model    ModelConfig    `mapstructure:"model" validate:"required"`
	Backtest BacktestConfig `mapstructure:"backtest" validate:"required"`
	Sync     SyncConfig     `mapstructure:"sync" validate:"required"`
	Metrics  MetricsConfig  `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration. It lives in
// the leaf package dbconfig so internal/database can use it without an
// import cycle; the alias keeps config.DatabaseConfig as the same type.
type DatabaseConfig = dbconfig.DatabaseConfig

// CFBDConfig represents the college football data API configuration
type CFBDConfig struct {
	APIURL                string `mapstructure:"api_url" validate:"required,url"`
	APIKey                string `mapstructure:"api_key"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	RetryAttempts         int    `mapstructure:"retry_attempts" validate:"gte=0"`
	RateLimitPerSecond    int    `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// ModelConfig holds every rating and projection constant. A model variant is
// a different config file, never a code change.
type ModelConfig struct {
	KBase            float64 `mapstructure:"k_base" validate:"required,gt=0"`
	KMinFraction     float64 `mapstructure:"k_min_fraction" validate:"gte=0,lte=1"`
	TaperGames       int     `mapstructure:"taper_games" validate:"gte=0"`
	HomeFieldElo     float64 `mapstructure:"home_field_elo" validate:"gte=0"`
	EloScale         float64 `mapstructure:"elo_scale" validate:"gte=0"`
	MOVFactor        float64 `mapstructure:"mov_factor" validate:"gte=0"`
	DeltaCap         float64 `mapstructure:"delta_cap" validate:"gte=0"`
	LeagueAverage    float64 `mapstructure:"league_average" validate:"required,gt=0"`
	Carryover        float64 `mapstructure:"carryover" validate:"required,gt=0,lt=1"`
	RatingScale      float64 `mapstructure:"rating_scale" validate:"required,gt=0"`
	HomeFieldPoints  float64 `mapstructure:"home_field_points" validate:"gte=0"`
	RestPointsPerDay float64 `mapstructure:"rest_points_per_day" validate:"gte=0"`
	RestAdjCap       float64 `mapstructure:"rest_adj_cap" validate:"gte=0"`
	WindPointsPerMPH float64 `mapstructure:"wind_points_per_mph" validate:"gte=0"`
	WeatherAdjCap    float64 `mapstructure:"weather_adj_cap" validate:"gte=0"`
	AverageTotal     float64 `mapstructure:"average_total" validate:"required,gt=0"`
	TotalScale       float64 `mapstructure:"total_scale" validate:"required,gt=0"`
}

// BacktestConfig represents walk-forward replay configuration
type BacktestConfig struct {
	FirstSeason         int     `mapstructure:"first_season" validate:"required,gt=1900"`
	LastSeason          int     `mapstructure:"last_season" validate:"required,gt=1900"`
	MinEdge             float64 `mapstructure:"min_edge" validate:"gte=0"`
	MaxEdge             float64 `mapstructure:"max_edge" validate:"required,gt=0"`
	VigPrice            float64 `mapstructure:"vig_price" validate:"required,gt=1"`
	BetTiming           string  `mapstructure:"bet_timing" validate:"required,linetiming"`
	Sportsbook          string  `mapstructure:"sportsbook" validate:"required"`
	BootstrapIterations int     `mapstructure:"bootstrap_iterations" validate:"gte=0"`
	BootstrapSeed       int64   `mapstructure:"bootstrap_seed"`
	OutputPath          string  `mapstructure:"output_path" validate:"required"`
}

// SyncConfig represents data synchronization configuration
type SyncConfig struct {
	Enabled          bool   `mapstructure:"enabled"`
	GamesSchedule    string `mapstructure:"games_schedule" validate:"required"`
	LinesSchedule    string `mapstructure:"lines_schedule" validate:"required"`
	BatchSize        int    `mapstructure:"batch_size" validate:"required,gt=0"`
	LookbackSeasons  int    `mapstructure:"lookback_seasons" validate:"required,gt=0"`
	HealthPort       int    `mapstructure:"health_port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// EngineParams maps the flat configuration onto the engine parameter set.
func (c *Config) EngineParams() engine.Params {
	return engine.Params{
		Update: rating.UpdateParams{
			KBase:        c.Model.KBase,
			KMinFraction: c.Model.KMinFraction,
			TaperGames:   c.Model.TaperGames,
			HomeFieldElo: c.Model.HomeFieldElo,
			EloScale:     c.Model.EloScale,
			MOVFactor:    c.Model.MOVFactor,
			DeltaCap:     c.Model.DeltaCap,
		},
		Season: rating.SeasonParams{
			LeagueAverage: c.Model.LeagueAverage,
			Carryover:     c.Model.Carryover,
		},
		Projection: projection.Params{
			RatingScale:         c.Model.RatingScale,
			HomeFieldPoints:     c.Model.HomeFieldPoints,
			RestPointsPerDay:    c.Model.RestPointsPerDay,
			RestAdjCap:          c.Model.RestAdjCap,
			WindPointsPerMPH:    c.Model.WindPointsPerMPH,
			WeatherAdjCap:       c.Model.WeatherAdjCap,
			LeagueAverageRating: c.Model.LeagueAverage,
			LeagueAverageTotal:  c.Model.AverageTotal,
			TotalScale:          c.Model.TotalScale,
		},
		Grading: engine.GradingParams{
			MinEdge:  c.Backtest.MinEdge,
			MaxEdge:  c.Backtest.MaxEdge,
			VigPrice: c.Backtest.VigPrice,
		},
		BetTiming:  models.LineTiming(c.Backtest.BetTiming),
		Sportsbook: c.Backtest.Sportsbook,
	}
}
