package charts

import (
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/weather-report-etl/internal/analysis"
	"github.com/couchcryptid/weather-report-etl/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleRows(n int) []domain.CleanedRow {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]domain.CleanedRow, n)
	for i := range rows {
		d := start.AddDate(0, 0, i*7)
		rows[i] = domain.CleanedRow{
			Observation: domain.Observation{
				Date:         d,
				TemperatureC: 10 + float64(i%9),
				RainfallMM:   float64(i%4) * 0.5,
				HumidityPct:  50 + i%30,
			},
			Season: domain.SeasonOf(d.Month()),
		}
	}
	return rows
}

func pngSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestRenderAll_Indexed(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots")
	rows := sampleRows(40)
	summary, err := analysis.Summarize(rows, true)
	require.NoError(t, err)

	got, err := NewRenderer(dir, testLogger()).RenderAll(rows, true, summary.Monthly)
	require.NoError(t, err)
	require.Len(t, got, 4)

	want := map[string][2]int{
		DailyTemperatureFile: {1200, 600},
		MonthlyRainfallFile:  {1000, 600},
		TempHumidityFile:     {800, 600},
		CombinedFile:         {1200, 600},
	}
	for _, r := range got {
		size, ok := want[r.Name]
		require.True(t, ok, r.Name)
		assert.Equal(t, filepath.Join(dir, r.Name), r.Path)
		assert.Positive(t, r.Bytes)

		w, h := pngSize(t, r.Path)
		assert.Equal(t, size[0], w, r.Name)
		assert.Equal(t, size[1], h, r.Name)
	}
}

func TestRenderAll_UnindexedSkipsDateCharts(t *testing.T) {
	dir := t.TempDir()
	rows := sampleRows(20)
	for i := range rows {
		rows[i].Date = time.Time{}
		rows[i].Season = ""
	}

	got, err := NewRenderer(dir, testLogger()).RenderAll(rows, false, nil)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TempHumidityFile, got[0].Name)

	_, err = os.Stat(filepath.Join(dir, DailyTemperatureFile))
	assert.True(t, os.IsNotExist(err))
}

func TestRenderAll_Empty(t *testing.T) {
	_, err := NewRenderer(t.TempDir(), testLogger()).RenderAll(nil, true, nil)
	assert.ErrorIs(t, err, domain.ErrNoCleanData)
}

func TestValueRange(t *testing.T) {
	assert.Nil(t, valueRange([]float64{1, 2, 3}))
	assert.Nil(t, valueRange(nil))

	r := valueRange([]float64{5, 5})
	require.NotNil(t, r)
	assert.InDelta(t, 4.0, r.GetMin(), 1e-9)
	assert.InDelta(t, 6.0, r.GetMax(), 1e-9)
}

func TestTimeRange(t *testing.T) {
	d := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	assert.Nil(t, timeRange([]time.Time{d, d.AddDate(0, 0, 1)}))

	r := timeRange([]time.Time{d})
	require.NotNil(t, r)
	assert.Less(t, r.GetMin(), r.GetMax())
}

func TestBarWidth(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{0, 50},
		{1, 60},
		{12, 36},
		{200, 8},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, barWidth(1000, tt.n), "n=%d", tt.n)
	}
}
