package observability

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("rows cleaned", "dropped", 1)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "rows cleaned", entry["msg"])
	assert.InDelta(t, 1.0, entry["dropped"], 0)
}

func TestNewLogger_TextAndLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "text")

	logger.Info("hidden")
	logger.Warn("chart skipped", "chart", "1_daily_temperature.png")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=\"chart skipped\"")
	assert.Contains(t, out, "chart=1_daily_temperature.png")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "INFO", parseLevel("info").String())
	assert.Equal(t, "WARN", parseLevel("warn").String())
	assert.Equal(t, "ERROR", parseLevel("error").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}

func counterValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			var total float64
			for _, metric := range mf.GetMetric() {
				total += metric.GetCounter().GetValue()
			}
			return total
		}
	}
	return 0
}

func TestMetrics_IsolatedRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RowsExtracted.Add(365)
	a.SinkErrors.WithLabelValues("kafka").Inc()

	assert.InDelta(t, 365.0, counterValue(t, a, "weather_etl_rows_extracted_total"), 0)
	assert.InDelta(t, 0.0, counterValue(t, b, "weather_etl_rows_extracted_total"), 0)
	assert.InDelta(t, 1.0, counterValue(t, a, "weather_etl_sink_errors_total"), 0)
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := NewMetrics()
	m.RowsExtracted.Add(365)
	m.RowsDropped.Add(1)
	m.MissingValues.WithLabelValues("TEMPERATURE_C", "raw").Set(5)

	path := filepath.Join(t.TempDir(), "textfile", "weather.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "weather_etl_rows_extracted_total 365")
	assert.Contains(t, out, "weather_etl_rows_dropped_total 1")
	assert.Contains(t, out, `weather_etl_missing_values{column="TEMPERATURE_C",stage="raw"} 5`)
}
