package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-report-etl/internal/adapter/sqlite"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

// setupEnv points every output path into a temp dir.
func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RAW_CSV_PATH", filepath.Join(dir, "mock_raw_data.csv"))
	t.Setenv("CLEANED_CSV_PATH", filepath.Join(dir, "cleaned_weather.csv"))
	t.Setenv("PLOTS_DIR", filepath.Join(dir, "plots"))
	t.Setenv("REPORT_PATH", filepath.Join(dir, "final_report_summary.txt"))
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("WEATHER_SEED", "42")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCommand(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("WEATHER_DAYS", "30")

	out, err := execute(t, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 30 days")
	assert.Contains(t, out, "(seed 42)")

	data, err := os.ReadFile(filepath.Join(dir, "mock_raw_data.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 31)
	assert.Equal(t, "DATE,TEMPERATURE_C,RAINFALL_MM,HUMIDITY_PER", lines[0])
}

func TestGenerateCommand_OutFlag(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("WEATHER_DAYS", "3")
	target := filepath.Join(dir, "custom.csv")

	_, err := execute(t, "generate", "--out", target)
	require.NoError(t, err)
	assert.FileExists(t, target)
}

func TestRunCommand(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("WEATHER_DAYS", "90")
	t.Setenv("ARCHIVE_DB_PATH", filepath.Join(dir, "archive.db"))

	out, err := execute(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Making up data for 90 days...")
	assert.Contains(t, out, "--- ALL TASKS COMPLETE ---")

	for _, f := range []string{
		"mock_raw_data.csv",
		"cleaned_weather.csv",
		"final_report_summary.txt",
		filepath.Join("plots", "1_daily_temperature.png"),
		filepath.Join("plots", "2_monthly_rainfall.png"),
		filepath.Join("plots", "3_temp_vs_humidity.png"),
		filepath.Join("plots", "4_combined_chart.png"),
	} {
		assert.FileExists(t, filepath.Join(dir, f))
	}

	history, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, history, "generated")
	assert.Contains(t, history, "42")
}

func TestAnalyzeCommand(t *testing.T) {
	dir := setupEnv(t)
	input := filepath.Join(dir, "real.csv")
	csv := "DATE,TEMPERATURE_C,RAINFALL_MM,HUMIDITY_PER\n" +
		"2024-03-02,14.5,0,70\n" +
		"2024-03-01,,2,72\n" +
		"2024-03-03,16.5,NaN,68\n" +
		"2024-03-04,18,0.5,66\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0o600))

	out, err := execute(t, "analyze", input)
	require.NoError(t, err)
	assert.Contains(t, out, "--- ALL TASKS COMPLETE ---")
	assert.NotContains(t, out, "Mock data saved")
	assert.NoFileExists(t, filepath.Join(dir, "mock_raw_data.csv"))

	cleaned, err := os.ReadFile(filepath.Join(dir, "cleaned_weather.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(cleaned)), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "2024-03-01,"))
}

func TestAnalyzeCommand_Errors(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "analyze")
	require.Error(t, err)

	_, err = execute(t, "analyze", filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
}

func TestHistoryCommand_RequiresArchive(t *testing.T) {
	setupEnv(t)
	_, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARCHIVE_DB_PATH")
}

func TestHistoryTables(t *testing.T) {
	started := time.Date(2024, 12, 1, 9, 30, 0, 0, time.UTC)
	out := runsTable([]sqlite.RunRecord{
		{ID: "run-a", StartedAt: started, Source: domain.SourceCSV, Rows: 3},
		{ID: "run-b", StartedAt: started, Source: domain.SourceGenerated, Seed: 42, Rows: 365},
	})
	assert.Contains(t, out, "2024-12-01 09:30:00")
	assert.Contains(t, out, "│ run-a │")
	assert.Contains(t, out, " - │")
	assert.Contains(t, out, " 42 │")

	months := monthTotalsTable([]sqlite.MonthTotal{{Month: "2024-01", MeanTemp: 11, TotalRain: 5, Days: 2}})
	assert.Contains(t, months, "2024-01")
	assert.Contains(t, months, "11.0")
	assert.Contains(t, months, "5.0")
}

func TestConfigFlag(t *testing.T) {
	dir := setupEnv(t)
	cfgPath := filepath.Join(dir, "weather.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("days = 5\n"), 0o600))

	out, err := execute(t, "--config", cfgPath, "generate")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 5 days")

	_, err = execute(t, "--config", filepath.Join(dir, "nope.toml"), "generate")
	require.Error(t, err)
}
