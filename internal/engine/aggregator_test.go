package engine

import (
	"math"
	"testing"
	"time"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
)

func recordFor(homePts, awayPts int, spread float64, bet *models.BetRecord) Record {
	game := completedGame(2022, 1, time.Date(2022, time.September, 3, 12, 0, 0, 0, time.UTC), "Alpha", "Beta", homePts, awayPts)
	return Record{
		Game:       game,
		Projection: &models.Projection{GameID: game.ID, Spread: spread},
		Bet:        bet,
	}
}

func betWith(outcome models.BetOutcome, profit float64, closing *float64) *models.BetRecord {
	return &models.BetRecord{
		Side:          models.BetSideHome,
		MarketSpread:  -4,
		ClosingSpread: closing,
		Outcome:       outcome,
		Profit:        profit,
	}
}

func TestSummarizeWinRateExcludesPushes(t *testing.T) {
	win := 1.0 / 1.1
	records := []Record{
		recordFor(28, 14, -10, betWith(models.BetOutcomeWin, win, nil)),
		recordFor(21, 17, -7, betWith(models.BetOutcomeWin, win, nil)),
		recordFor(14, 24, -3, betWith(models.BetOutcomeLoss, -1, nil)),
		recordFor(24, 20, -4, betWith(models.BetOutcomePush, 0, nil)),
	}

	report := Summarize(records)
	if report.Bets != 4 || report.Wins != 2 || report.Losses != 1 || report.Pushes != 1 {
		t.Fatalf("tally = %d/%d/%d/%d, want 4 bets, 2W 1L 1P",
			report.Bets, report.Wins, report.Losses, report.Pushes)
	}
	if math.Abs(report.WinRate-2.0/3.0) > 1e-9 {
		t.Errorf("win rate = %v, want 2/3", report.WinRate)
	}
	wantROI := (2*win - 1) / 3
	if math.Abs(report.ROI-wantROI) > 1e-9 {
		t.Errorf("roi = %v, want %v", report.ROI, wantROI)
	}
}

func TestSummarizeProjectionAccuracy(t *testing.T) {
	// Projected margins 10, 7, 3 against actuals 14, 4, -10.
	records := []Record{
		recordFor(28, 14, -10, nil),
		recordFor(21, 17, -7, nil),
		recordFor(14, 24, -3, nil),
	}

	report := Summarize(records)
	wantMAE := (4.0 + 3.0 + 13.0) / 3.0
	if math.Abs(report.MeanAbsError-wantMAE) > 1e-9 {
		t.Errorf("mae = %v, want %v", report.MeanAbsError, wantMAE)
	}
	wantRMSE := math.Sqrt((16.0 + 9.0 + 169.0) / 3.0)
	if math.Abs(report.RMSError-wantRMSE) > 1e-9 {
		t.Errorf("rmse = %v, want %v", report.RMSError, wantRMSE)
	}
	if report.Correlation <= 0 {
		t.Errorf("correlation = %v, want positive for aligned series", report.Correlation)
	}
}

func TestSummarizeConstantProjectionsYieldZeroCorrelation(t *testing.T) {
	records := []Record{
		recordFor(28, 14, -3, nil),
		recordFor(21, 17, -3, nil),
		recordFor(14, 24, -3, nil),
	}

	report := Summarize(records)
	if report.Correlation != 0 {
		t.Errorf("correlation = %v, want 0 for a constant series", report.Correlation)
	}
}

func TestSummarizeCLV(t *testing.T) {
	win := 1.0 / 1.1
	beat := -6.0  // home bet at -4, closed -6
	faded := -2.0 // home bet at -4, closed -2
	records := []Record{
		recordFor(28, 14, -10, betWith(models.BetOutcomeWin, win, &beat)),
		recordFor(21, 17, -7, betWith(models.BetOutcomeLoss, -1, &faded)),
		recordFor(14, 24, -3, betWith(models.BetOutcomeWin, win, nil)),
	}

	report := Summarize(records)
	if report.CLVObserved != 2 {
		t.Errorf("clv observed = %d, want 2", report.CLVObserved)
	}
	if report.CLVBeats != 1 {
		t.Errorf("clv beats = %d, want 1", report.CLVBeats)
	}
	if math.Abs(report.CLVRate-0.5) > 1e-9 {
		t.Errorf("clv rate = %v, want 0.5", report.CLVRate)
	}
}

func TestSummarizeEmptyRecords(t *testing.T) {
	report := Summarize(nil)
	if report.WinRate != 0 || report.ROI != 0 || report.Correlation != 0 || report.CLVRate != 0 {
		t.Errorf("empty replay must report zeros, got %+v", report)
	}
}
