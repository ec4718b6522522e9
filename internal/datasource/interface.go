package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// DataSource defines the interface for fetching college football data from
// external providers.
type DataSource interface {
	// FetchGames retrieves one season's games, scheduled and completed.
	FetchGames(ctx context.Context, season int) ([]GameData, error)

	// FetchLines retrieves one season's betting lines.
	FetchLines(ctx context.Context, season int) ([]LineData, error)

	// Name returns the name of the data source
	Name() string
}

// GameData represents normalized game data from any data source
type GameData struct {
	SourceID    int64     `json:"source_id"` // Provider's unique game ID
	Season      int       `json:"season"`
	Week        int       `json:"week"`
	StartTime   time.Time `json:"start_time"`
	HomeTeam    string    `json:"home_team"`
	AwayTeam    string    `json:"away_team"`
	HomePoints  *int      `json:"home_points"`
	AwayPoints  *int      `json:"away_points"`
	NeutralSite bool      `json:"neutral_site"`
	Indoor      bool      `json:"indoor"`
	HomeRest    int       `json:"home_rest_days"`
	AwayRest    int       `json:"away_rest_days"`
	WindMPH     *float64  `json:"wind_mph"`
	Conference  *string   `json:"home_conference"`
}

// LineData represents one sportsbook's line for one game. Spreads and totals
// arrive as decimals so provider strings like "-6.5" survive the trip without
// float parsing surprises; conversion to float happens once, at the model
// boundary.
type LineData struct {
	SourceGameID  int64            `json:"source_game_id"`
	Sportsbook    string           `json:"sportsbook"`
	OpeningSpread *decimal.Decimal `json:"opening_spread"`
	ClosingSpread *decimal.Decimal `json:"closing_spread"`
	OpeningTotal  *decimal.Decimal `json:"opening_total"`
	ClosingTotal  *decimal.Decimal `json:"closing_total"`
	FetchedAt     time.Time        `json:"fetched_at"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
)

// Sentinel errors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
