package engine

import (
	"encoding/json"
	"math"

	"github.com/wheels195/cfb-market-edge-sub005/internal/models"
	"gonum.org/v1/gonum/stat"
)

// Report summarizes a replay: betting performance plus raw projection
// accuracy against the actual margins.
type Report struct {
	Games       int `json:"games"`
	Projections int `json:"projections"`
	Completed   int `json:"completed_games"`

	Bets         int     `json:"bets"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Pushes       int     `json:"pushes"`
	FlaggedEdges int     `json:"flagged_edges"`
	WinRate      float64 `json:"win_rate"`
	ROI          float64 `json:"roi"`
	TotalProfit  float64 `json:"total_profit"`

	MeanAbsError float64 `json:"mean_abs_error"`
	RMSError     float64 `json:"rms_error"`
	Correlation  float64 `json:"correlation"`

	CLVObserved int     `json:"clv_observed"`
	CLVBeats    int     `json:"clv_beats"`
	CLVRate     float64 `json:"clv_rate"`
}

// Summarize reduces replay records into a report. Zero-variance inputs yield
// a correlation of 0, never NaN; empty denominators yield 0 throughout.
func Summarize(records []Record) Report {
	report := Report{Games: len(records)}

	projected := make([]float64, 0, len(records))
	actual := make([]float64, 0, len(records))

	for _, rec := range records {
		if rec.Projection == nil {
			continue
		}
		report.Projections++
		if rec.Flagged {
			report.FlaggedEdges++
		}
		if rec.Game.Completed() {
			report.Completed++
			projected = append(projected, rec.Projection.ProjectedMargin())
			actual = append(actual, float64(rec.Game.Margin()))
		}
		if rec.Bet == nil {
			continue
		}

		report.Bets++
		report.TotalProfit += rec.Bet.Profit
		switch rec.Bet.Outcome {
		case models.BetOutcomeWin:
			report.Wins++
		case models.BetOutcomeLoss:
			report.Losses++
		case models.BetOutcomePush:
			report.Pushes++
		}
		if rec.Bet.ClosingSpread != nil {
			report.CLVObserved++
			if rec.Bet.BeatClosing() {
				report.CLVBeats++
			}
		}
	}

	decided := report.Wins + report.Losses
	if decided > 0 {
		report.WinRate = float64(report.Wins) / float64(decided)
		report.ROI = report.TotalProfit / float64(decided)
	}
	if report.CLVObserved > 0 {
		report.CLVRate = float64(report.CLVBeats) / float64(report.CLVObserved)
	}

	report.MeanAbsError = meanAbsError(projected, actual)
	report.RMSError = rmsError(projected, actual)
	report.Correlation = safeCorrelation(projected, actual)
	return report
}

// ToJSON exports the report.
func (r Report) ToJSON() string {
	data, _ := json.Marshal(r)
	return string(data)
}

func meanAbsError(projected, actual []float64) float64 {
	if len(projected) == 0 {
		return 0
	}
	sum := 0.0
	for i := range projected {
		sum += math.Abs(projected[i] - actual[i])
	}
	return sum / float64(len(projected))
}

func rmsError(projected, actual []float64) float64 {
	if len(projected) == 0 {
		return 0
	}
	sum := 0.0
	for i := range projected {
		diff := projected[i] - actual[i]
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(projected)))
}

// safeCorrelation is Pearson correlation with a defined value of 0 when
// either series is constant or too short.
func safeCorrelation(x, y []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return 0
	}
	corr := stat.Correlation(x, y, nil)
	if math.IsNaN(corr) || math.IsInf(corr, 0) {
		return 0
	}
	return corr
}
