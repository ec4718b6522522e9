package rating

import (
	"testing"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

func TestCarryRegressesTowardLeagueAverage(t *testing.T) {
	params := SeasonParams{LeagueAverage: 1500, Carryover: 0.6}
	final := models.Rating{Team: "uga", Season: 2022, Value: 1700, GamesPlayed: 14, AsOfWeek: 16}

	next := Carry(final, 2023, params)
	if next.Value != 1620 {
		t.Fatalf("carried rating = %v, want 1620", next.Value)
	}
	if next.Season != 2023 || next.GamesPlayed != 0 || next.AsOfWeek != 0 {
		t.Fatalf("carried rating not reset for new season: %+v", next)
	}
}

func TestCarryBelowAverageRegressesUpward(t *testing.T) {
	params := SeasonParams{LeagueAverage: 1500, Carryover: 0.6}
	final := models.Rating{Team: "unlv", Season: 2022, Value: 1400}

	next := Carry(final, 2023, params)
	if next.Value != 1440 {
		t.Fatalf("carried rating = %v, want 1440", next.Value)
	}
}

func TestSeedUsesLeagueAverage(t *testing.T) {
	params := SeasonParams{LeagueAverage: 1500, Carryover: 0.6}
	seeded := Seed("jmu", 2023, params)
	if seeded.Value != 1500 || seeded.Team != "jmu" || seeded.Season != 2023 {
		t.Fatalf("unexpected seed: %+v", seeded)
	}
}

func TestSeasonParamsValidate(t *testing.T) {
	good := SeasonParams{LeagueAverage: 1500, Carryover: 0.6}
	if err := good.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, bad := range []SeasonParams{
		{LeagueAverage: 1500, Carryover: 0},
		{LeagueAverage: 1500, Carryover: 1},
		{LeagueAverage: 0, Carryover: 0.6},
	} {
		if err := bad.Validate(); err == nil {
			t.Fatalf("expected validation error for %+v", bad)
		}
	}
}
