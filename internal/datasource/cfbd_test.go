package datasource

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*CFBDClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           5 * time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 5,
	}, nil)
	return NewCFBDClient(httpClient, server.URL, "test-key", nil), server
}

func TestFetchGamesParsesResponse(t *testing.T) {
	payload := `[
		{
			"id": 401520100,
			"season": 2023,
			"week": 5,
			"start_date": "2023-09-30T19:30:00.000Z",
			"neutral_site": false,
			"home_team": "Georgia",
			"home_conference": "SEC",
			"home_points": 27,
			"away_team": "Auburn",
			"away_points": 20,
			"dome": false,
			"wind_speed": 8.5
		},
		{
			"id": 401520101,
			"season": 2023,
			"week": 5,
			"start_date": "not-a-date",
			"home_team": "Bad",
			"away_team": "Date"
		}
	]`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("year") != "2023" {
			t.Errorf("unexpected year param: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})

	games, err := client.FetchGames(context.Background(), 2023)
	if err != nil {
		t.Fatalf("FetchGames: %v", err)
	}
	// The unparseable game is skipped, not fatal.
	if len(games) != 1 {
		t.Fatalf("games = %d, want 1", len(games))
	}

	g := games[0]
	if g.SourceID != 401520100 || g.HomeTeam != "Georgia" {
		t.Errorf("unexpected game: %+v", g)
	}
	if g.HomePoints == nil || *g.HomePoints != 27 {
		t.Errorf("home points not parsed: %+v", g.HomePoints)
	}
	if !g.StartTime.Equal(time.Date(2023, 9, 30, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("start time = %v", g.StartTime)
	}
	if g.WindMPH == nil || *g.WindMPH != 8.5 {
		t.Errorf("wind not parsed: %+v", g.WindMPH)
	}
}

func TestFetchLinesParsesDecimals(t *testing.T) {
	payload := `[
		{
			"id": 401520100,
			"lines": [
				{
					"provider": "consensus",
					"formatted_spread_number": "-6.5",
					"spread_open": "-4.5",
					"over_under": "51.5",
					"over_under_open": "52"
				},
				{
					"provider": "other-book",
					"formatted_spread_number": "garbage"
				}
			]
		}
	]`

	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	})

	lines, err := client.FetchLines(context.Background(), 2023)
	if err != nil {
		t.Fatalf("FetchLines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("lines = %d, want 1 after skipping the bad entry", len(lines))
	}

	l := lines[0]
	if l.Sportsbook != "consensus" {
		t.Errorf("sportsbook = %s", l.Sportsbook)
	}
	if l.ClosingSpread == nil || l.ClosingSpread.String() != "-6.5" {
		t.Errorf("closing spread = %v", l.ClosingSpread)
	}
	if l.OpeningSpread == nil || l.OpeningSpread.String() != "-4.5" {
		t.Errorf("opening spread = %v", l.OpeningSpread)
	}
	if l.OpeningTotal == nil || l.OpeningTotal.String() != "52" {
		t.Errorf("opening total = %v", l.OpeningTotal)
	}
}

func TestFetchGamesAuthenticationFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	// Client was built with a key, but the server rejects it.
	_, err := client.FetchGames(context.Background(), 2023)
	if !errors.Is(err, ErrAuthenticationFailed) {
		t.Fatalf("err = %v, want ErrAuthenticationFailed", err)
	}

	var dsErr DataSourceError
	if !errors.As(err, &dsErr) || dsErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("expected typed data source error, got %v", err)
	}
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // every request now fails at the dial

	httpClient := NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           time.Second,
		MaxRetries:        0,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 2,
	}, nil)

	for i := 0; i < 2; i++ {
		if _, err := httpClient.Get(context.Background(), server.URL); err == nil {
			t.Fatal("expected dial failure")
		}
	}

	_, err := httpClient.Get(context.Background(), server.URL)
	if err == nil || !strings.Contains(err.Error(), "circuit breaker open") {
		t.Fatalf("expected circuit breaker open, got %v", err)
	}
}
