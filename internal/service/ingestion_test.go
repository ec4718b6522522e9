package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/wheels195/cfb-market-edge-sub005/internal/datasource"
	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

type fakeSource struct {
	name  string
	games []datasource.GameData
	lines []datasource.LineData
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) FetchGames(context.Context, int) ([]datasource.GameData, error) {
	return f.games, f.err
}

func (f *fakeSource) FetchLines(context.Context, int) ([]datasource.LineData, error) {
	return f.lines, f.err
}

type fakeTeamRepo struct {
	upserts map[string]*models.Team
}

func (r *fakeTeamRepo) Upsert(_ context.Context, t *models.Team) error {
	if r.upserts == nil {
		r.upserts = make(map[string]*models.Team)
	}
	r.upserts[t.ID] = t
	return nil
}
func (r *fakeTeamRepo) GetByName(context.Context, string) (*models.Team, error) { return nil, nil }
func (r *fakeTeamRepo) List(context.Context) ([]*models.Team, error)            { return nil, nil }

type fakeGameRepo struct {
	games   map[uuid.UUID]*models.Game
	batches int
}

func (r *fakeGameRepo) Upsert(_ context.Context, g *models.Game) error {
	if r.games == nil {
		r.games = make(map[uuid.UUID]*models.Game)
	}
	r.games[g.ID] = g
	return nil
}

func (r *fakeGameRepo) UpsertBatch(ctx context.Context, games []*models.Game) error {
	r.batches++
	for _, g := range games {
		if err := r.Upsert(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeGameRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Game, error) {
	g, ok := r.games[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return g, nil
}

func (r *fakeGameRepo) GetBySeasons(context.Context, int, int) ([]*models.Game, error) {
	return nil, nil
}
func (r *fakeGameRepo) GetIncomplete(context.Context, int) ([]*models.Game, error) {
	return nil, nil
}

type fakeLineRepo struct {
	lines []*models.MarketLine
}

func (r *fakeLineRepo) Upsert(_ context.Context, l *models.MarketLine) error {
	r.lines = append(r.lines, l)
	return nil
}

func (r *fakeLineRepo) UpsertBatch(_ context.Context, lines []*models.MarketLine) error {
	r.lines = append(r.lines, lines...)
	return nil
}

func (r *fakeLineRepo) GetByGameID(context.Context, uuid.UUID, string) (*models.MarketLine, error) {
	return nil, models.ErrNoLine
}

func (r *fakeLineRepo) GetBySeasons(context.Context, int, int, string) ([]*models.MarketLine, error) {
	return nil, nil
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func sampleGames() []datasource.GameData {
	kickoff := time.Date(2023, 9, 2, 19, 30, 0, 0, time.UTC)
	return []datasource.GameData{
		{
			SourceID:   1001,
			Season:     2023,
			Week:       1,
			StartTime:  kickoff,
			HomeTeam:   "Georgia Tech",
			AwayTeam:   "Clemson",
			HomePoints: intPtr(24),
			AwayPoints: intPtr(21),
			Conference: strPtr("ACC"),
		},
		{
			SourceID:  1002,
			Season:    2023,
			Week:      1,
			StartTime: kickoff.Add(3 * time.Hour),
			HomeTeam:  "Clemson",
			AwayTeam:  "Duke",
		},
	}
}

func TestSyncGamesUpsertsGamesAndTeams(t *testing.T) {
	source := &fakeSource{name: "cfbd", games: sampleGames()}
	teams := &fakeTeamRepo{}
	games := &fakeGameRepo{}

	svc := NewIngestionService([]datasource.DataSource{source}, teams, games, &fakeLineRepo{}, testLogger(), 100)

	result, err := svc.SyncGames(context.Background(), "cfbd", 2023)
	if err != nil {
		t.Fatalf("SyncGames: %v", err)
	}
	if result.Games != 2 {
		t.Errorf("games = %d, want 2", result.Games)
	}
	if result.Teams != 3 {
		t.Errorf("teams = %d, want 3 distinct", result.Teams)
	}

	id := GameID("cfbd", 1001)
	g, ok := games.games[id]
	if !ok {
		t.Fatal("game 1001 not persisted under its derived ID")
	}
	if g.HomeTeam != "georgia-tech" || g.AwayTeam != "clemson" {
		t.Errorf("team IDs not canonicalized: %s vs %s", g.HomeTeam, g.AwayTeam)
	}
	if g.HomePoints == nil || *g.HomePoints != 24 {
		t.Errorf("score not carried: %+v", g.HomePoints)
	}
	if teams.upserts["georgia-tech"].Conference != "ACC" {
		t.Errorf("home conference not recorded")
	}
}

func TestSyncGamesIsIdempotent(t *testing.T) {
	source := &fakeSource{name: "cfbd", games: sampleGames()}
	games := &fakeGameRepo{}
	svc := NewIngestionService([]datasource.DataSource{source}, &fakeTeamRepo{}, games, &fakeLineRepo{}, testLogger(), 100)

	for i := 0; i < 2; i++ {
		if _, err := svc.SyncGames(context.Background(), "cfbd", 2023); err != nil {
			t.Fatalf("SyncGames pass %d: %v", i, err)
		}
	}
	if len(games.games) != 2 {
		t.Errorf("games after re-sync = %d, want 2", len(games.games))
	}
}

func TestSyncGamesBatches(t *testing.T) {
	source := &fakeSource{name: "cfbd", games: sampleGames()}
	games := &fakeGameRepo{}
	svc := NewIngestionService([]datasource.DataSource{source}, &fakeTeamRepo{}, games, &fakeLineRepo{}, testLogger(), 1)

	if _, err := svc.SyncGames(context.Background(), "cfbd", 2023); err != nil {
		t.Fatalf("SyncGames: %v", err)
	}
	if games.batches != 2 {
		t.Errorf("batches = %d, want 2 with batch size 1", games.batches)
	}
}

func TestSyncLinesSkipsUnknownGames(t *testing.T) {
	source := &fakeSource{
		name:  "cfbd",
		games: sampleGames(),
		lines: []datasource.LineData{
			{
				SourceGameID:  1001,
				Sportsbook:    "consensus",
				OpeningSpread: decPtr("-4.5"),
				ClosingSpread: decPtr("-6.5"),
				ClosingTotal:  decPtr("51.5"),
				FetchedAt:     time.Now().UTC(),
			},
			{SourceGameID: 9999, Sportsbook: "consensus"},
		},
	}
	games := &fakeGameRepo{}
	lines := &fakeLineRepo{}
	svc := NewIngestionService([]datasource.DataSource{source}, &fakeTeamRepo{}, games, lines, testLogger(), 100)

	if _, err := svc.SyncGames(context.Background(), "cfbd", 2023); err != nil {
		t.Fatalf("SyncGames: %v", err)
	}
	result, err := svc.SyncLines(context.Background(), "cfbd", 2023)
	if err != nil {
		t.Fatalf("SyncLines: %v", err)
	}

	if result.Lines != 1 || result.Skipped != 1 {
		t.Fatalf("lines=%d skipped=%d, want 1 and 1", result.Lines, result.Skipped)
	}

	l := lines.lines[0]
	if l.GameID != GameID("cfbd", 1001) {
		t.Error("line not bound to the derived game ID")
	}
	if l.OpeningSpread == nil || *l.OpeningSpread != -4.5 {
		t.Errorf("opening spread = %v", l.OpeningSpread)
	}
	if l.ClosingSpread == nil || *l.ClosingSpread != -6.5 {
		t.Errorf("closing spread = %v", l.ClosingSpread)
	}
}

func TestSyncUnknownSource(t *testing.T) {
	svc := NewIngestionService(nil, &fakeTeamRepo{}, &fakeGameRepo{}, &fakeLineRepo{}, testLogger(), 100)
	if _, err := svc.SyncGames(context.Background(), "nope", 2023); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestSyncGamesFetchFailure(t *testing.T) {
	source := &fakeSource{name: "cfbd", err: errors.New("boom")}
	svc := NewIngestionService([]datasource.DataSource{source}, &fakeTeamRepo{}, &fakeGameRepo{}, &fakeLineRepo{}, testLogger(), 100)
	if _, err := svc.SyncGames(context.Background(), "cfbd", 2023); err == nil {
		t.Fatal("expected fetch error to surface")
	}
}

func TestGameIDIsStable(t *testing.T) {
	a := GameID("cfbd", 42)
	b := GameID("cfbd", 42)
	c := GameID("other", 42)
	if a != b {
		t.Error("same source and ID must map to the same UUID")
	}
	if a == c {
		t.Error("different sources must not collide")
	}
}
