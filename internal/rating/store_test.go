package rating

import (
	"errors"
	"testing"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

func newTestStore() *Store {
	params := SeasonParams{LeagueAverage: 1500, Carryover: 0.6}
	return NewStore(func(team string, season int) models.Rating {
		return Seed(team, season, params)
	})
}

func TestGetSeedsOnFirstAccess(t *testing.T) {
	store := newTestStore()

	if store.Has("osu", 2023) {
		t.Fatalf("team should not exist before first access")
	}
	r := store.Get("osu", 2023)
	if r.Value != 1500 || r.AsOfWeek != 0 {
		t.Fatalf("unexpected seeded rating: %+v", r)
	}
	if !store.Has("osu", 2023) {
		t.Fatalf("first access should persist the seed")
	}
}

func TestGetReturnsCopy(t *testing.T) {
	store := newTestStore()
	r := store.Get("osu", 2023)
	r.Value = 9999

	if got := store.Get("osu", 2023); got.Value != 1500 {
		t.Fatalf("mutating a returned rating leaked into the store: %v", got.Value)
	}
}

func TestSnapshotAtReturnsWeekState(t *testing.T) {
	store := newTestStore()
	store.Get("osu", 2023)
	store.Snapshot(2023, 0)

	store.Set("osu", 2023, models.Rating{Value: 1520, GamesPlayed: 1})
	store.Snapshot(2023, 1)

	week0, err := store.SnapshotAt("osu", 2023, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if week0.Value != 1500 || week0.AsOfWeek != 0 {
		t.Fatalf("week 0 snapshot = %+v", week0)
	}

	week1, err := store.SnapshotAt("osu", 2023, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if week1.Value != 1520 || week1.AsOfWeek != 1 {
		t.Fatalf("week 1 snapshot = %+v", week1)
	}
}

func TestSnapshotAtRejectsLookahead(t *testing.T) {
	store := newTestStore()
	store.Get("osu", 2023)
	store.Snapshot(2023, 3)

	if _, err := store.SnapshotAt("osu", 2023, 4); !errors.Is(err, models.ErrLookaheadRead) {
		t.Fatalf("expected ErrLookaheadRead, got %v", err)
	}
	if _, err := store.SnapshotAt("osu", 2024, 0); !errors.Is(err, models.ErrLookaheadRead) {
		t.Fatalf("expected ErrLookaheadRead for untouched season, got %v", err)
	}
}

func TestSnapshotAtUnknownTeam(t *testing.T) {
	store := newTestStore()
	store.Get("osu", 2023)
	store.Snapshot(2023, 1)

	if _, err := store.SnapshotAt("nobody", 2023, 1); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFreezeSeasonRetainsFinalRatings(t *testing.T) {
	store := newTestStore()
	store.Set("osu", 2023, models.Rating{Value: 1650, GamesPlayed: 13})
	store.FreezeSeason(2023)

	store.Set("osu", 2023, models.Rating{Value: 1000})

	frozen, ok := store.Frozen(2023)
	if !ok {
		t.Fatalf("expected frozen season")
	}
	if frozen["osu"].Value != 1650 {
		t.Fatalf("frozen rating = %v, want 1650", frozen["osu"].Value)
	}
}

func TestTeamsIsSortedAndPerSeason(t *testing.T) {
	store := newTestStore()
	store.Get("wisc", 2023)
	store.Get("bama", 2023)
	store.Get("mich", 2023)
	store.Get("bama", 2024)

	teams := store.Teams(2023)
	if len(teams) != 3 {
		t.Fatalf("expected 3 teams, got %d", len(teams))
	}
	for i := 1; i < len(teams); i++ {
		if teams[i-1] >= teams[i] {
			t.Fatalf("teams not sorted: %v", teams)
		}
	}
}
