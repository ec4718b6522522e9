// Package config provides configuration management for the CFB market edge engine.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "CFB_EDGE"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with default values for optional
// fields, tolerating a missing config file so pure-environment deployments
// work.
func LoadWithDefaults(configPath string) (*Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBuffer([]byte(expanded))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "cfb-market-edge")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("cfbd.api_url", "https://api.collegefootballdata.com")
	v.SetDefault("cfbd.request_timeout_seconds", 30)
	v.SetDefault("cfbd.retry_attempts", 3)
	v.SetDefault("cfbd.rate_limit_per_second", 5)
	v.SetDefault("cfbd.cache_ttl_seconds", 300)

	v.SetDefault("model.k_base", 20)
	v.SetDefault("model.k_min_fraction", 0.5)
	v.SetDefault("model.taper_games", 20)
	v.SetDefault("model.home_field_elo", 65)
	v.SetDefault("model.mov_factor", 0.8)
	v.SetDefault("model.league_average", 1500)
	v.SetDefault("model.carryover", 0.6)
	v.SetDefault("model.rating_scale", 25)
	v.SetDefault("model.home_field_points", 2.5)
	v.SetDefault("model.average_total", 55)
	v.SetDefault("model.total_scale", 20)

	v.SetDefault("backtest.min_edge", 2)
	v.SetDefault("backtest.max_edge", 10)
	v.SetDefault("backtest.vig_price", 1.1)
	v.SetDefault("backtest.bet_timing", "opening")
	v.SetDefault("backtest.sportsbook", "consensus")
	v.SetDefault("backtest.bootstrap_iterations", 1000)
	v.SetDefault("backtest.bootstrap_seed", 1)
	v.SetDefault("backtest.output_path", "output/backtest")

	v.SetDefault("sync.games_schedule", "0 6 * * *")
	v.SetDefault("sync.lines_schedule", "*/30 * * * *")
	v.SetDefault("sync.batch_size", 500)
	v.SetDefault("sync.lookback_seasons", 2)
	v.SetDefault("sync.health_port", 8081)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")
}
