package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats a replay report for terminal output.
func GenerateConsoleReport(report Report, bootstrap *BootstrapResult) string {
	var builder strings.Builder
	builder.WriteString("Replay Report\n")
	builder.WriteString("=============\n")
	builder.WriteString(fmt.Sprintf("Games: %d (%d completed, %d projected)\n", report.Games, report.Completed, report.Projections))
	builder.WriteString(fmt.Sprintf("Bets: %d (W %d / L %d / P %d, %d flagged)\n", report.Bets, report.Wins, report.Losses, report.Pushes, report.FlaggedEdges))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", report.WinRate*100))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%% per decided bet\n", report.ROI*100))
	builder.WriteString(fmt.Sprintf("Total Profit: %.2f units\n", report.TotalProfit))
	builder.WriteString(fmt.Sprintf("Mean Abs Error: %.2f points\n", report.MeanAbsError))
	builder.WriteString(fmt.Sprintf("RMS Error: %.2f points\n", report.RMSError))
	builder.WriteString(fmt.Sprintf("Margin Correlation: %.3f\n", report.Correlation))
	builder.WriteString(fmt.Sprintf("CLV Rate: %.2f%% (%d of %d with closing line)\n", report.CLVRate*100, report.CLVBeats, report.CLVObserved))
	if bootstrap != nil {
		builder.WriteString(fmt.Sprintf("Bootstrap ROI: %.2f%% mean, [%.2f%%, %.2f%%] 5th-95th over %d iterations\n",
			bootstrap.MeanROI*100, bootstrap.ROIP5*100, bootstrap.ROIP95*100, bootstrap.Iterations))
	}
	return builder.String()
}

// ExportJSON writes the report (and optional bootstrap) as JSON.
func ExportJSON(report Report, bootstrap *BootstrapResult, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	payload := struct {
		Report    Report           `json:"report"`
		Bootstrap *BootstrapResult `json:"bootstrap,omitempty"`
	}{Report: report, Bootstrap: bootstrap}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return os.WriteFile(outputPath, data, 0o644)
}

// ExportCSV writes key metrics for spreadsheets.
func ExportCSV(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("games,%d\n", report.Games) +
		fmt.Sprintf("bets,%d\n", report.Bets) +
		fmt.Sprintf("wins,%d\n", report.Wins) +
		fmt.Sprintf("losses,%d\n", report.Losses) +
		fmt.Sprintf("pushes,%d\n", report.Pushes) +
		fmt.Sprintf("flagged_edges,%d\n", report.FlaggedEdges) +
		fmt.Sprintf("win_rate,%.4f\n", report.WinRate) +
		fmt.Sprintf("roi,%.4f\n", report.ROI) +
		fmt.Sprintf("total_profit,%.4f\n", report.TotalProfit) +
		fmt.Sprintf("mean_abs_error,%.4f\n", report.MeanAbsError) +
		fmt.Sprintf("rms_error,%.4f\n", report.RMSError) +
		fmt.Sprintf("correlation,%.4f\n", report.Correlation) +
		fmt.Sprintf("clv_rate,%.4f\n", report.CLVRate)
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}
