package datasource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

const cfbdSourceName = "cfbd"

// CFBDClient implements DataSource for the CollegeFootballData API
type CFBDClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	logger     *log.Logger
}

// cfbdGame represents a game from the CFBD /games endpoint
type cfbdGame struct {
	ID             int64    `json:"id"`
	Season         int      `json:"season"`
	Week           int      `json:"week"`
	StartDate      string   `json:"start_date"`
	NeutralSite    bool     `json:"neutral_site"`
	HomeTeam       string   `json:"home_team"`
	HomeConference *string  `json:"home_conference"`
	HomePoints     *int     `json:"home_points"`
	AwayTeam       string   `json:"away_team"`
	AwayPoints     *int     `json:"away_points"`
	Venue          *string  `json:"venue"`
	Dome           *bool    `json:"dome"`
	WindSpeed      *float64 `json:"wind_speed"`
	HomeRestDays   *int     `json:"home_rest_days"`
	AwayRestDays   *int     `json:"away_rest_days"`
}

// cfbdGameLines represents one game's lines from the CFBD /lines endpoint
type cfbdGameLines struct {
	ID    int64      `json:"id"`
	Lines []cfbdLine `json:"lines"`
}

// cfbdLine is one sportsbook's entry. Numbers arrive as strings.
type cfbdLine struct {
	Provider      string  `json:"provider"`
	Spread        *string `json:"formatted_spread_number"`
	SpreadOpen    *string `json:"spread_open"`
	OverUnder     *string `json:"over_under"`
	OverUnderOpen *string `json:"over_under_open"`
}

// NewCFBDClient creates a new CollegeFootballData API client
func NewCFBDClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, logger *log.Logger) *CFBDClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &CFBDClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		logger:     logger,
	}
}

// Name returns the data source name
func (c *CFBDClient) Name() string {
	return cfbdSourceName
}

// FetchGames retrieves one season's games
func (c *CFBDClient) FetchGames(ctx context.Context, season int) ([]GameData, error) {
	url := fmt.Sprintf("%s/games?year=%d", c.baseURL, season)

	var cfbdGames []cfbdGame
	if err := c.getJSON(ctx, url, &cfbdGames); err != nil {
		return nil, err
	}

	games := make([]GameData, 0, len(cfbdGames))
	for _, g := range cfbdGames {
		game, err := c.convertGame(&g)
		if err != nil {
			c.logger.Printf("Skipping game %d: %v", g.ID, err)
			continue
		}
		games = append(games, *game)
	}
	return games, nil
}

// FetchLines retrieves one season's betting lines
func (c *CFBDClient) FetchLines(ctx context.Context, season int) ([]LineData, error) {
	url := fmt.Sprintf("%s/lines?year=%d", c.baseURL, season)

	var gameLines []cfbdGameLines
	if err := c.getJSON(ctx, url, &gameLines); err != nil {
		return nil, err
	}

	fetchedAt := time.Now().UTC()
	lines := make([]LineData, 0, len(gameLines))
	for _, gl := range gameLines {
		for _, l := range gl.Lines {
			line, err := c.convertLine(gl.ID, &l, fetchedAt)
			if err != nil {
				c.logger.Printf("Skipping line for game %d at %s: %v", gl.ID, l.Provider, err)
				continue
			}
			lines = append(lines, *line)
		}
	}
	return lines, nil
}

func (c *CFBDClient) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return NewDataSourceError(cfbdSourceName, ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return NewDataSourceError(cfbdSourceName, ErrCodeNetworkError, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return NewDataSourceError(cfbdSourceName, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewDataSourceError(cfbdSourceName, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return NewDataSourceError(cfbdSourceName, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewDataSourceError(cfbdSourceName, ErrCodeInvalidData, "failed to parse response", err)
	}
	return nil
}

func (c *CFBDClient) convertGame(g *cfbdGame) (*GameData, error) {
	if g.HomeTeam == "" || g.AwayTeam == "" {
		return nil, fmt.Errorf("missing team names")
	}
	startTime, err := time.Parse(time.RFC3339, g.StartDate)
	if err != nil {
		return nil, fmt.Errorf("bad start date %q: %w", g.StartDate, err)
	}

	game := &GameData{
		SourceID:    g.ID,
		Season:      g.Season,
		Week:        g.Week,
		StartTime:   startTime.UTC(),
		HomeTeam:    g.HomeTeam,
		AwayTeam:    g.AwayTeam,
		HomePoints:  g.HomePoints,
		AwayPoints:  g.AwayPoints,
		NeutralSite: g.NeutralSite,
		WindMPH:     g.WindSpeed,
		Conference:  g.HomeConference,
	}
	if g.Dome != nil {
		game.Indoor = *g.Dome
	}
	if g.HomeRestDays != nil {
		game.HomeRest = *g.HomeRestDays
	}
	if g.AwayRestDays != nil {
		game.AwayRest = *g.AwayRestDays
	}
	return game, nil
}

func (c *CFBDClient) convertLine(gameID int64, l *cfbdLine, fetchedAt time.Time) (*LineData, error) {
	if l.Provider == "" {
		return nil, fmt.Errorf("missing provider")
	}

	line := &LineData{
		SourceGameID: gameID,
		Sportsbook:   l.Provider,
		FetchedAt:    fetchedAt,
	}
	var err error
	if line.ClosingSpread, err = parseDecimal(l.Spread); err != nil {
		return nil, fmt.Errorf("bad spread: %w", err)
	}
	if line.OpeningSpread, err = parseDecimal(l.SpreadOpen); err != nil {
		return nil, fmt.Errorf("bad opening spread: %w", err)
	}
	if line.ClosingTotal, err = parseDecimal(l.OverUnder); err != nil {
		return nil, fmt.Errorf("bad total: %w", err)
	}
	if line.OpeningTotal, err = parseDecimal(l.OverUnderOpen); err != nil {
		return nil, fmt.Errorf("bad opening total: %w", err)
	}
	return line, nil
}

func parseDecimal(s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
